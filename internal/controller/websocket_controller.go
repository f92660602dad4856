package controller

import (
	"encoding/json"
	"fmt"

	"github.com/benbeisheim/chess-maestro/internal/middleware"
	"github.com/benbeisheim/chess-maestro/internal/model"
	"github.com/benbeisheim/chess-maestro/internal/service"
	"github.com/benbeisheim/chess-maestro/internal/ws"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

type WebSocketController struct {
	gameService *service.GameService
	logger      *zap.Logger
}

func NewWebSocketController(gameService *service.GameService, logger *zap.Logger) *WebSocketController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebSocketController{
		gameService: gameService,
		logger:      logger,
	}
}

// HandleConnection subscribes the socket to its game and applies incoming
// commands until the client goes away. State changes reach the client through
// the game's broadcast, so successful commands get no direct reply.
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := utils.CopyString(c.Params("gameId"))
	playerID, _ := c.Locals(middleware.PlayerIDKey).(string)
	log := wsc.logger.With(zap.String("game_id", gameID), zap.String("player_id", playerID))

	// Broadcasts and error replies share one writer.
	conn := model.NewSyncConn(c)
	if err := wsc.gameService.RegisterConnection(gameID, playerID, conn); err != nil {
		log.Warn("failed to register connection", zap.Error(err))
		_ = conn.WriteJSON(ws.ErrorMessage(err.Error()))
		_ = conn.Close()
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, playerID, conn)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Debug("connection closed", zap.Error(err))
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		if err := wsc.handleMessage(gameID, playerID, message); err != nil {
			log.Info("command rejected", zap.Error(err))
			if err := conn.WriteJSON(ws.ErrorMessage(err.Error())); err != nil {
				return
			}
		}
	}
}

func (wsc *WebSocketController) handleMessage(gameID, playerID string, raw []byte) error {
	var msg ws.Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return fmt.Errorf("malformed message: %w", err)
	}

	switch msg.Type {
	case ws.MessageTypeMove:
		var move model.MoveRequest
		if err := json.Unmarshal(msg.Payload, &move); err != nil {
			return fmt.Errorf("malformed move: %w", err)
		}
		_, err := wsc.gameService.HandleMove(gameID, playerID, move)
		return err

	case ws.MessageTypeSelect:
		var sel model.SelectRequest
		if err := json.Unmarshal(msg.Payload, &sel); err != nil {
			return fmt.Errorf("malformed selection: %w", err)
		}
		_, err := wsc.gameService.HandleSelect(gameID, playerID, sel.Square)
		return err

	case ws.MessageTypeReset:
		_, err := wsc.gameService.Reset(gameID, playerID)
		return err

	case ws.MessageTypeResign:
		_, err := wsc.gameService.Resign(gameID, playerID)
		return err

	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}
