package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/benbeisheim/chess-maestro/internal/chess"
	"github.com/benbeisheim/chess-maestro/internal/model"
	"go.uber.org/zap"
)

const DefaultComputerDelay = 500 * time.Millisecond

type GameService struct {
	gameManager   *GameManager
	computerDelay time.Duration
	logger        *zap.Logger

	mu        sync.Mutex
	selectors map[string]*chess.Selector
	seed      func() uint64
}

func NewGameService(gameManager *GameManager, logger *zap.Logger, computerDelay time.Duration) *GameService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if computerDelay < 0 {
		computerDelay = DefaultComputerDelay
	}
	return &GameService{
		gameManager:   gameManager,
		computerDelay: computerDelay,
		logger:        logger,
		selectors:     make(map[string]*chess.Selector),
		seed:          rand.Uint64,
	}
}

// CreateGame starts a game in mode and seats playerID. color picks the
// human side in computer games and is ignored otherwise.
func (gs *GameService) CreateGame(playerID string, mode model.Mode, color chess.Color) (string, chess.Color, error) {
	if mode == model.ModeComputer && color == "" {
		color = chess.White
	}
	game, err := gs.gameManager.CreateGame(mode, color)
	if err != nil {
		return "", "", fmt.Errorf("failed to create game: %w", err)
	}
	seated, err := game.AddPlayer(playerID)
	if err != nil {
		return "", "", fmt.Errorf("failed to create game: %w", err)
	}

	gs.logger.Info("game created",
		zap.String("game_id", game.ID),
		zap.String("mode", string(mode)),
		zap.String("player_id", playerID),
		zap.String("color", string(seated)),
	)
	gs.scheduleComputer(game)
	return game.ID, seated, nil
}

func (gs *GameService) JoinGame(gameID string, playerID string) (chess.Color, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return "", err
	}
	return game.AddPlayer(playerID)
}

func (gs *GameService) JoinMatchmaking(playerID string) error {
	return gs.gameManager.JoinMatchmaking(playerID)
}

func (gs *GameService) LeaveMatchmaking(playerID string) error {
	return gs.gameManager.LeaveMatchmaking(playerID)
}

func (gs *GameService) WaitForMatch(ctx context.Context, playerID string) (model.MatchFoundEvent, error) {
	return gs.gameManager.WaitForMatch(ctx, playerID)
}

func (gs *GameService) GetGameState(gameID string) (model.GameState, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return game.GetState(), nil
}

func (gs *GameService) PossibleMoves(gameID string, sq chess.Square) ([]chess.Square, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return game.PossibleMoves(sq), nil
}

func (gs *GameService) HandleMove(gameID string, playerID string, move model.MoveRequest) (model.GameState, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	state, err := game.MakeMove(playerID, move.From, move.To)
	if err != nil {
		return state, err
	}
	gs.scheduleComputer(game)
	return state, nil
}

func (gs *GameService) HandleSelect(gameID string, playerID string, sq chess.Square) (model.GameState, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	state, err := game.Select(playerID, sq)
	if err != nil {
		return state, err
	}
	gs.scheduleComputer(game)
	return state, nil
}

func (gs *GameService) Reset(gameID string, playerID string) (model.GameState, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	state, err := game.Reset(playerID)
	if err != nil {
		return state, err
	}
	gs.scheduleComputer(game)
	return state, nil
}

func (gs *GameService) Resign(gameID string, playerID string) (model.GameState, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return game.Resign(playerID)
}

func (gs *GameService) FEN(gameID string) (string, error) {
	state, err := gs.GetGameState(gameID)
	if err != nil {
		return "", err
	}
	return state.FEN, nil
}

func (gs *GameService) RegisterConnection(gameID string, playerID string, conn model.Conn) error {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	game.RegisterConnection(playerID, conn)
	return nil
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string, conn model.Conn) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return
	}
	game.UnregisterConnection(playerID, conn)
}

// RemoveGame forgets gameID and its computer selector.
func (gs *GameService) RemoveGame(gameID string) {
	gs.gameManager.RemoveGame(gameID)
	gs.forgetSelectors(gameID)
}

// RunJanitor removes games idle for longer than ttl until ctx is done.
func (gs *GameService) RunJanitor(ctx context.Context, ttl time.Duration) {
	interval := ttl / 2
	if interval <= 0 {
		interval = ttl
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			gs.removeIdle(now.Add(-ttl))
		}
	}
}

func (gs *GameService) removeIdle(cutoff time.Time) []string {
	removed := gs.gameManager.RemoveIdle(cutoff)
	if len(removed) > 0 {
		gs.forgetSelectors(removed...)
		gs.logger.Info("removed idle games", zap.Strings("game_ids", removed))
	}
	return removed
}

func (gs *GameService) forgetSelectors(gameIDs ...string) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	for _, gameID := range gameIDs {
		delete(gs.selectors, gameID)
	}
}

// scheduleComputer plays the computer's reply after the configured delay
// when it is the computer's turn.
func (gs *GameService) scheduleComputer(game *model.Game) {
	if !game.ComputerToMove() {
		return
	}
	time.AfterFunc(gs.computerDelay, func() {
		gs.playComputer(game)
	})
}

func (gs *GameService) playComputer(game *model.Game) {
	if _, err := gs.gameManager.GetGame(game.ID); err != nil {
		// Removed while the reply was pending.
		return
	}
	move, played, err := game.PlayComputer(gs.selector(game.ID))
	switch {
	case err != nil:
		// The human reset or resigned while the reply was pending.
		gs.logger.Debug("computer move skipped", zap.String("game_id", game.ID), zap.Error(err))
	case !played:
		gs.logger.Info("computer has no moves", zap.String("game_id", game.ID))
	default:
		gs.logger.Debug("computer moved", zap.String("game_id", game.ID), zap.String("move", move.String()))
	}
}

func (gs *GameService) selector(gameID string) *chess.Selector {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	sel, ok := gs.selectors[gameID]
	if !ok {
		sel = chess.NewSelector(gs.seed())
		gs.selectors[gameID] = sel
	}
	return sel
}
