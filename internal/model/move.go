package model

import "github.com/benbeisheim/chess-maestro/internal/chess"

// MoveRequest is the wire form of a move: {"from":{"row":6,"col":4},"to":{"row":4,"col":4}}.
type MoveRequest struct {
	From chess.Square `json:"from"`
	To   chess.Square `json:"to"`
}

type SelectRequest struct {
	Square chess.Square `json:"square"`
}

// CapturedPieces lists pieces by the color that captured them.
type CapturedPieces struct {
	White []chess.Piece `json:"white"`
	Black []chess.Piece `json:"black"`
}

func newCapturedPieces() CapturedPieces {
	return CapturedPieces{
		White: make([]chess.Piece, 0),
		Black: make([]chess.Piece, 0),
	}
}

func (c *CapturedPieces) add(by chess.Color, p chess.Piece) {
	if by == chess.White {
		c.White = append(c.White, p)
		return
	}
	c.Black = append(c.Black, p)
}

type MatchFoundEvent struct {
	GameID string      `json:"gameId"`
	Color  chess.Color `json:"color"`
}
