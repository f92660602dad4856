package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/benbeisheim/chess-maestro/internal/config"
	"github.com/benbeisheim/chess-maestro/internal/service"
)

func TestNewAppRoutes(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	gs := service.NewGameService(service.NewGameManager(nil, cfg.Clock), nil, time.Hour)
	app := newApp(cfg, nil, gs)

	tests := []struct {
		name     string
		method   string
		target   string
		playerID string
		want     int
	}{
		{name: "health", method: http.MethodGet, target: "/healthz", want: http.StatusOK},
		{name: "api without player", method: http.MethodPost, target: "/api/game/create", want: http.StatusUnauthorized},
		{name: "api create", method: http.MethodPost, target: "/api/game/create", playerID: "alice", want: http.StatusCreated},
		{name: "ws without player", method: http.MethodGet, target: "/ws/game/abc", want: http.StatusUnauthorized},
		{name: "ws without upgrade", method: http.MethodGet, target: "/ws/game/abc", playerID: "alice", want: http.StatusUpgradeRequired},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.target, nil)
		if tt.playerID != "" {
			req.Header.Set("X-Player-ID", tt.playerID)
		}
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.name, err)
		}
		resp.Body.Close()
		if resp.StatusCode != tt.want {
			t.Errorf("%s: got=%d want=%d", tt.name, resp.StatusCode, tt.want)
		}
	}
}
