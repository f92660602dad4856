package model

import (
	"fmt"
	"sync"

	"github.com/benbeisheim/chess-maestro/internal/ws"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

// Conn is the part of *websocket.Conn a game needs to push state.
type Conn interface {
	WriteJSON(v interface{}) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// SyncConn serializes writes to a Conn. Websocket connections allow one
// concurrent writer, and a game's state is pushed from request handlers,
// timers and the connection's own read loop.
type SyncConn struct {
	mu   sync.Mutex
	conn Conn
}

// NewSyncConn wraps conn unless it is already a *SyncConn.
func NewSyncConn(conn Conn) *SyncConn {
	if sc, ok := conn.(*SyncConn); ok {
		return sc
	}
	return &SyncConn{conn: conn}
}

func (c *SyncConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

func (c *SyncConn) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(messageType, data)
}

func (c *SyncConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.Close()
}

type observer struct {
	conn   Conn
	writer *SyncConn
}

// GameConnections holds the observers of one game, keyed by player ID.
type GameConnections struct {
	connections map[string]observer
	mu          sync.RWMutex
	logger      *zap.Logger
}

func NewGameConnections(logger *zap.Logger) *GameConnections {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GameConnections{
		connections: make(map[string]observer),
		logger:      logger,
	}
}

// Register adds conn for playerID. A second connection for the same player
// is closed and the existing one kept; Register then reports false. Writes
// go through a SyncConn, so callers that also write to conn should pass a
// *SyncConn of their own.
func (gc *GameConnections) Register(playerID string, conn Conn) bool {
	sc := NewSyncConn(conn)

	gc.mu.Lock()
	defer gc.mu.Unlock()

	if _, exists := gc.connections[playerID]; exists {
		_ = sc.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "Connection already exists"),
		)
		_ = sc.Close()
		return false
	}
	gc.connections[playerID] = observer{conn: conn, writer: sc}
	return true
}

// Unregister removes playerID only while conn is still its registered
// connection.
func (gc *GameConnections) Unregister(playerID string, conn Conn) {
	gc.mu.Lock()
	defer gc.mu.Unlock()

	if current, exists := gc.connections[playerID]; exists && current.conn == conn {
		delete(gc.connections, playerID)
	}
}

func (gc *GameConnections) Len() int {
	gc.mu.RLock()
	defer gc.mu.RUnlock()
	return len(gc.connections)
}

// Broadcast sends state to every observer. Observers whose write fails are
// dropped.
func (gc *GameConnections) Broadcast(gameID string, state GameState) {
	msg, err := ws.NewMessage(ws.MessageTypeGameState, state)
	if err != nil {
		gc.logger.Error("failed to marshal game state", zap.String("game_id", gameID), zap.Error(err))
		return
	}

	gc.mu.RLock()
	active := make(map[string]observer, len(gc.connections))
	for playerID, o := range gc.connections {
		active[playerID] = o
	}
	gc.mu.RUnlock()

	for playerID, o := range active {
		if err := o.writer.WriteJSON(msg); err != nil {
			gc.logger.Warn("failed to send state",
				zap.String("game_id", gameID),
				zap.String("player_id", playerID),
				zap.Error(err),
			)
			gc.Unregister(playerID, o.conn)
		}
	}
}

func connID(conn Conn) string {
	return fmt.Sprintf("%p", conn)
}
