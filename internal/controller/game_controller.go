package controller

import (
	"context"
	"errors"
	"time"

	"github.com/benbeisheim/chess-maestro/internal/chess"
	"github.com/benbeisheim/chess-maestro/internal/middleware"
	"github.com/benbeisheim/chess-maestro/internal/model"
	"github.com/benbeisheim/chess-maestro/internal/service"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// DefaultMatchWait bounds how long a matchmaking status request is held open.
const DefaultMatchWait = 20 * time.Second

type GameController struct {
	gameService *service.GameService
	logger      *zap.Logger
	matchWait   time.Duration
}

func NewGameController(gameService *service.GameService, logger *zap.Logger) *GameController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GameController{
		gameService: gameService,
		logger:      logger,
		matchWait:   DefaultMatchWait,
	}
}

// Register mounts the game routes on router.
func (gc *GameController) Register(router fiber.Router) {
	router.Post("/create", gc.CreateGame)
	router.Post("/join/:gameId", gc.JoinGame)
	router.Post("/matchmaking/join", gc.JoinMatchmaking)
	router.Post("/matchmaking/leave", gc.LeaveMatchmaking)
	router.Get("/matchmaking/status", gc.MatchmakingStatus)
	router.Get("/:gameId", gc.GetGameState)
	router.Get("/:gameId/moves", gc.PossibleMoves)
	router.Get("/:gameId/fen", gc.FEN)
	router.Post("/:gameId/move", gc.MakeMove)
	router.Post("/:gameId/select", gc.Select)
	router.Post("/:gameId/reset", gc.Reset)
	router.Post("/:gameId/resign", gc.Resign)
}

type createGameRequest struct {
	Mode  model.Mode  `json:"mode"`
	Color chess.Color `json:"color"`
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	req := createGameRequest{Mode: model.ModeOnline}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid request body")
		}
	}
	playerID := middleware.PlayerID(c)

	gameID, color, err := gc.gameService.CreateGame(playerID, req.Mode, req.Color)
	if err != nil {
		return gc.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Game created",
		"gameId":  gameID,
		"color":   color,
	})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	playerID := middleware.PlayerID(c)

	color, err := gc.gameService.JoinGame(gameID, playerID)
	if err != nil {
		return gc.fail(c, err)
	}
	gc.logger.Info("player joined",
		zap.String("game_id", gameID),
		zap.String("player_id", playerID),
		zap.String("color", string(color)),
	)
	return c.JSON(fiber.Map{
		"message": "Game joined",
		"color":   color,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	state, err := gc.gameService.GetGameState(c.Params("gameId"))
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(state)
}

func (gc *GameController) PossibleMoves(c *fiber.Ctx) error {
	sq := chess.Square{Row: c.QueryInt("row", -1), Col: c.QueryInt("col", -1)}
	if !sq.OnBoard() {
		return badRequest(c, "row and col must be between 0 and 7")
	}
	moves, err := gc.gameService.PossibleMoves(c.Params("gameId"), sq)
	if err != nil {
		return gc.fail(c, err)
	}
	if moves == nil {
		moves = []chess.Square{}
	}
	return c.JSON(fiber.Map{"square": sq, "moves": moves})
}

func (gc *GameController) FEN(c *fiber.Ctx) error {
	fen, err := gc.gameService.FEN(c.Params("gameId"))
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(fiber.Map{"fen": fen})
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	var req model.MoveRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid move")
	}
	state, err := gc.gameService.HandleMove(c.Params("gameId"), middleware.PlayerID(c), req)
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(state)
}

func (gc *GameController) Select(c *fiber.Ctx) error {
	var req model.SelectRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid square")
	}
	state, err := gc.gameService.HandleSelect(c.Params("gameId"), middleware.PlayerID(c), req.Square)
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(state)
}

func (gc *GameController) Reset(c *fiber.Ctx) error {
	state, err := gc.gameService.Reset(c.Params("gameId"), middleware.PlayerID(c))
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(state)
}

func (gc *GameController) Resign(c *fiber.Ctx) error {
	state, err := gc.gameService.Resign(c.Params("gameId"), middleware.PlayerID(c))
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(state)
}

func (gc *GameController) JoinMatchmaking(c *fiber.Ctx) error {
	if err := gc.gameService.JoinMatchmaking(middleware.PlayerID(c)); err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"status": "queued",
	})
}

func (gc *GameController) LeaveMatchmaking(c *fiber.Ctx) error {
	if err := gc.gameService.LeaveMatchmaking(middleware.PlayerID(c)); err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"status": "left",
	})
}

// MatchmakingStatus holds the request open until the player is matched or
// matchWait elapses.
func (gc *GameController) MatchmakingStatus(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), gc.matchWait)
	defer cancel()

	event, err := gc.gameService.WaitForMatch(ctx, middleware.PlayerID(c))
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return c.JSON(fiber.Map{
			"status": "queued",
		})
	}
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"status": "matched",
		"gameId": event.GameID,
		"color":  event.Color,
	})
}

func (gc *GameController) fail(c *fiber.Ctx, err error) error {
	status := StatusFor(err)
	if status == fiber.StatusInternalServerError {
		gc.logger.Error("request failed",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": msg,
	})
}

// StatusFor maps session errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrGameNotFound), errors.Is(err, service.ErrNotQueued):
		return fiber.StatusNotFound
	case errors.Is(err, model.ErrNotInGame):
		return fiber.StatusForbidden
	case errors.Is(err, model.ErrNotYourTurn),
		errors.Is(err, model.ErrGameFull),
		errors.Is(err, model.ErrGameOver),
		errors.Is(err, model.ErrGameExists),
		errors.Is(err, model.ErrAlreadyQueued):
		return fiber.StatusConflict
	case errors.Is(err, model.ErrInvalidMove),
		errors.Is(err, model.ErrInvalidMode),
		errors.Is(err, model.ErrInvalidColor):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}
