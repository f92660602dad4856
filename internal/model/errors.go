package model

import "errors"

var (
	ErrGameNotFound  = errors.New("game not found")
	ErrGameExists    = errors.New("game already exists")
	ErrGameFull      = errors.New("game is full")
	ErrGameOver      = errors.New("game is over")
	ErrNotInGame     = errors.New("player not in game")
	ErrNotYourTurn   = errors.New("not your turn")
	ErrInvalidMove   = errors.New("invalid move")
	ErrInvalidMode   = errors.New("invalid game mode")
	ErrInvalidColor  = errors.New("invalid color")
	ErrAlreadyQueued = errors.New("player already in queue")
)
