package model

import "github.com/benbeisheim/chess-maestro/internal/chess"

// ClientPlayer is the view of a seat sent to clients. TimeLeft is in
// milliseconds.
type ClientPlayer struct {
	ID       string      `json:"id"`
	Color    chess.Color `json:"color"`
	Computer bool        `json:"computer,omitempty"`
	TimeLeft int64       `json:"timeLeft"`
}

type Players struct {
	White ClientPlayer `json:"white"`
	Black ClientPlayer `json:"black"`
}

func (p *Players) seat(c chess.Color) *ClientPlayer {
	if c == chess.White {
		return &p.White
	}
	return &p.Black
}

// ColorOf returns the side played by playerID. In local games the same
// player holds both seats and White is reported.
func (p *Players) ColorOf(playerID string) (chess.Color, bool) {
	if playerID == "" {
		return "", false
	}
	if p.White.ID == playerID {
		return chess.White, true
	}
	if p.Black.ID == playerID {
		return chess.Black, true
	}
	return "", false
}
