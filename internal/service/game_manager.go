package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/benbeisheim/chess-maestro/internal/chess"
	"github.com/benbeisheim/chess-maestro/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrNotQueued = errors.New("player not in matchmaking")

// GameManager owns every live game and the matchmaking queue.
type GameManager struct {
	games   map[string]*model.Game
	queue   *model.Queue
	waiting map[string]chan struct{}
	matches map[string]model.MatchFoundEvent
	mu      sync.RWMutex
	clock   time.Duration
	logger  *zap.Logger
	newID   func() string
}

func NewGameManager(logger *zap.Logger, clock time.Duration) *GameManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock <= 0 {
		clock = model.DefaultClock
	}
	return &GameManager{
		games:   make(map[string]*model.Game),
		queue:   model.NewQueue(),
		waiting: make(map[string]chan struct{}),
		matches: make(map[string]model.MatchFoundEvent),
		clock:   clock,
		logger:  logger,
		newID:   func() string { return uuid.New().String() },
	}
}

// RunMatchmaking pairs queued players every interval until ctx is done.
func (gm *GameManager) RunMatchmaking(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for gm.matchNextPair() {
			}
		}
	}
}

// matchNextPair starts an online game for the two longest waiting players.
func (gm *GameManager) matchNextPair() bool {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	first, second, ok := gm.queue.GetNextPair()
	if !ok {
		return false
	}

	gameID := gm.newID()
	game, err := model.NewGame(gameID, model.ModeOnline, "", gm.gameOptions()...)
	if err != nil {
		gm.logger.Error("failed to create matched game", zap.Error(err))
		return false
	}
	for _, playerID := range []string{first, second} {
		color, err := game.AddPlayer(playerID)
		if err != nil {
			gm.logger.Error("failed to seat matched player", zap.String("player_id", playerID), zap.Error(err))
			return false
		}
		gm.matches[playerID] = model.MatchFoundEvent{GameID: gameID, Color: color}
		if ch, ok := gm.waiting[playerID]; ok {
			close(ch)
			delete(gm.waiting, playerID)
		}
	}
	gm.games[gameID] = game
	gm.logger.Info("match found",
		zap.String("game_id", gameID),
		zap.String("white", first),
		zap.String("black", second),
	)
	return true
}

func (gm *GameManager) gameOptions() []model.GameOption {
	return []model.GameOption{model.WithLogger(gm.logger), model.WithClock(gm.clock)}
}

func (gm *GameManager) JoinMatchmaking(playerID string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if err := gm.queue.AddPlayer(playerID); err != nil {
		return err
	}
	delete(gm.matches, playerID)
	gm.waiting[playerID] = make(chan struct{})
	return nil
}

func (gm *GameManager) LeaveMatchmaking(playerID string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if !gm.queue.Remove(playerID) {
		return ErrNotQueued
	}
	if ch, ok := gm.waiting[playerID]; ok {
		close(ch)
		delete(gm.waiting, playerID)
	}
	return nil
}

// WaitForMatch blocks until playerID has been matched or ctx is done.
func (gm *GameManager) WaitForMatch(ctx context.Context, playerID string) (model.MatchFoundEvent, error) {
	gm.mu.RLock()
	event, matched := gm.matches[playerID]
	ch, queued := gm.waiting[playerID]
	gm.mu.RUnlock()

	if matched {
		return event, nil
	}
	if !queued {
		return model.MatchFoundEvent{}, ErrNotQueued
	}

	select {
	case <-ctx.Done():
		return model.MatchFoundEvent{}, ctx.Err()
	case <-ch:
	}

	gm.mu.RLock()
	defer gm.mu.RUnlock()
	if event, ok := gm.matches[playerID]; ok {
		return event, nil
	}
	return model.MatchFoundEvent{}, ErrNotQueued
}

func (gm *GameManager) CreateGame(mode model.Mode, human chess.Color) (*model.Game, error) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	gameID := gm.newID()
	if _, exists := gm.games[gameID]; exists {
		return nil, model.ErrGameExists
	}
	game, err := model.NewGame(gameID, mode, human, gm.gameOptions()...)
	if err != nil {
		return nil, err
	}
	gm.games[gameID] = game
	return game, nil
}

func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, model.ErrGameNotFound
	}
	return game, nil
}

func (gm *GameManager) RemoveGame(gameID string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	delete(gm.games, gameID)
}

// RemoveIdle drops every game untouched since cutoff and returns their IDs.
func (gm *GameManager) RemoveIdle(cutoff time.Time) []string {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	var removed []string
	for gameID, game := range gm.games {
		if game.LastActive().Before(cutoff) {
			delete(gm.games, gameID)
			removed = append(removed, gameID)
		}
	}
	return removed
}

func (gm *GameManager) Len() int {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	return len(gm.games)
}
