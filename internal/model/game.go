package model

import (
	"fmt"
	"sync"
	"time"

	"github.com/benbeisheim/chess-maestro/internal/chess"
	"go.uber.org/zap"
)

type Mode string

const (
	ModeLocal    Mode = "local"
	ModeComputer Mode = "computer"
	ModeOnline   Mode = "online"
)

func (m Mode) Valid() bool {
	return m == ModeLocal || m == ModeComputer || m == ModeOnline
}

// Phase is where a game is in the select-then-move cycle.
type Phase string

const (
	PhaseAwaitingSelection   Phase = "awaiting-selection"
	PhaseAwaitingDestination Phase = "awaiting-destination"
	PhaseMoveCommitted       Phase = "move-committed"
)

const (
	ReasonNoMoves = "no-moves"
	ReasonResign  = "resign"
)

const DefaultClock = 10 * time.Minute

type Result struct {
	Winner chess.Color `json:"winner"`
	Reason string      `json:"reason"`
}

type GameState struct {
	ID             string         `json:"id"`
	Mode           Mode           `json:"mode"`
	Board          chess.Board    `json:"board"`
	FEN            string         `json:"fen"`
	ToMove         chess.Color    `json:"toMove"`
	Phase          Phase          `json:"phase"`
	SelectedSquare *chess.Square  `json:"selectedSquare"`
	PossibleMoves  []chess.Square `json:"possibleMoves"`
	LastMove       *chess.Move    `json:"lastMove"`
	Check          *chess.Color   `json:"check"`
	CapturedPieces CapturedPieces `json:"capturedPieces"`
	MoveCount      int            `json:"moveCount"`
	Result         *Result        `json:"result"`
	Players        Players        `json:"players"`
}

// Game is one session: the current board, whose turn it is, the selection
// cycle and its observers. The rules themselves live in package chess.
type Game struct {
	ID          string
	mu          sync.Mutex
	mode        Mode
	human       chess.Color
	state       GameState
	connections *GameConnections
	whiteClock  *Clock
	blackClock  *Clock
	logger      *zap.Logger
	start       chess.Board
	startTurn   chess.Color
	lastActive  time.Time
}

type GameOption func(*Game)

func WithLogger(logger *zap.Logger) GameOption {
	return func(g *Game) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithPosition starts the game, and every reset of it, from b with turn to
// move instead of the standard setup.
func WithPosition(b chess.Board, turn chess.Color) GameOption {
	return func(g *Game) {
		g.start = b
		g.startTurn = turn
	}
}

func WithClock(d time.Duration) GameOption {
	return func(g *Game) {
		g.whiteClock = NewClock(d)
		g.blackClock = NewClock(d)
	}
}

// NewGame creates a session. In computer mode the computer takes the side
// opposite human.
func NewGame(id string, mode Mode, human chess.Color, opts ...GameOption) (*Game, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
	if mode == ModeComputer && !human.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidColor, human)
	}

	g := &Game{
		ID:         id,
		mode:       mode,
		human:      human,
		logger:     zap.NewNop(),
		whiteClock: NewClock(DefaultClock),
		blackClock: NewClock(DefaultClock),
		start:      chess.CreateBoard(),
		startTurn:  chess.White,
	}
	for _, opt := range opts {
		opt(g)
	}
	if !g.startTurn.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidColor, g.startTurn)
	}
	g.connections = NewGameConnections(g.logger)
	g.state = g.initialState()
	if mode == ModeComputer {
		*g.state.Players.seat(human.Opponent()) = ClientPlayer{Color: human.Opponent(), Computer: true}
	}
	g.clockFor(g.startTurn).Start()
	g.lastActive = time.Now()
	return g, nil
}

func (g *Game) initialState() GameState {
	return GameState{
		ID:             g.ID,
		Mode:           g.mode,
		Board:          g.start,
		ToMove:         g.startTurn,
		Phase:          PhaseAwaitingSelection,
		PossibleMoves:  make([]chess.Square, 0),
		Check:          checkedSide(g.start),
		CapturedPieces: newCapturedPieces(),
	}
}

// AddPlayer seats playerID and returns its color. Re-adding a seated player
// returns the same color.
func (g *Game) AddPlayer(playerID string) (chess.Color, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if c, ok := g.state.Players.ColorOf(playerID); ok {
		return c, nil
	}
	g.lastActive = time.Now()

	switch g.mode {
	case ModeLocal:
		if g.state.Players.White.ID != "" {
			return "", ErrGameFull
		}
		g.state.Players.White = ClientPlayer{ID: playerID, Color: chess.White}
		g.state.Players.Black = ClientPlayer{ID: playerID, Color: chess.Black}
		return chess.White, nil
	case ModeComputer:
		human := g.HumanColor()
		seat := g.state.Players.seat(human)
		if seat.ID != "" {
			return "", ErrGameFull
		}
		*seat = ClientPlayer{ID: playerID, Color: human}
		return human, nil
	default:
		for _, c := range []chess.Color{chess.White, chess.Black} {
			seat := g.state.Players.seat(c)
			if seat.ID == "" {
				*seat = ClientPlayer{ID: playerID, Color: c}
				return c, nil
			}
		}
		return "", ErrGameFull
	}
}

// LastActive is when a player last joined or changed the game.
func (g *Game) LastActive() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastActive
}

// HumanColor is the side played by a person in a computer game.
func (g *Game) HumanColor() chess.Color {
	return g.human
}

func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.snapshotLocked()
}

// ComputerToMove reports whether the computer side is due to play.
func (g *Game) ComputerToMove() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.mode == ModeComputer && g.state.Result == nil && g.state.ToMove != g.HumanColor()
}

// PossibleMoves returns the candidate destinations of the piece on sq.
func (g *Game) PossibleMoves(sq chess.Square) []chess.Square {
	g.mu.Lock()
	defer g.mu.Unlock()

	return chess.GetPossibleMoves(g.state.Board, sq)
}

// Select handles a click on sq. With a piece selected, clicking one of its
// destinations commits the move, clicking another own piece reselects and
// anything else clears the selection. Without a selection only an own piece
// can be selected.
func (g *Game) Select(playerID string, sq chess.Square) (GameState, error) {
	return g.update(func() error {
		if err := g.canActLocked(playerID); err != nil {
			return err
		}
		piece := g.state.Board.At(sq)
		own := piece != nil && piece.Color == g.state.ToMove

		if g.state.SelectedSquare != nil {
			for _, target := range g.state.PossibleMoves {
				if target == sq {
					return g.commitLocked(*g.state.SelectedSquare, sq)
				}
			}
			if own {
				g.selectLocked(sq)
				return nil
			}
			g.clearSelectionLocked()
			g.state.Phase = PhaseAwaitingSelection
			return nil
		}
		if own {
			g.selectLocked(sq)
		}
		return nil
	})
}

// MakeMove commits a move for playerID after checking turn ownership and
// validity.
func (g *Game) MakeMove(playerID string, from, to chess.Square) (GameState, error) {
	return g.update(func() error {
		if err := g.canActLocked(playerID); err != nil {
			return err
		}
		return g.commitLocked(from, to)
	})
}

// PlayComputer lets the computer side move using sel. When the computer has
// no candidate move the game ends in favor of the other side and false is
// returned.
func (g *Game) PlayComputer(sel *chess.Selector) (chess.Move, bool, error) {
	var (
		move   chess.Move
		played bool
	)
	_, err := g.update(func() error {
		if g.state.Result != nil {
			return ErrGameOver
		}
		if g.mode != ModeComputer || g.state.ToMove == g.HumanColor() {
			return ErrNotYourTurn
		}
		m, ok := sel.Pick(g.state.Board, g.state.ToMove)
		if !ok {
			g.finishLocked(g.state.ToMove.Opponent(), ReasonNoMoves)
			return nil
		}
		move, played = m, true
		return g.commitLocked(m.From, m.To)
	})
	return move, played, err
}

// Resign ends the game in favor of the opponent of playerID's side. In
// local games the side to move resigns.
func (g *Game) Resign(playerID string) (GameState, error) {
	return g.update(func() error {
		if g.state.Result != nil {
			return ErrGameOver
		}
		c, ok := g.state.Players.ColorOf(playerID)
		if !ok {
			return ErrNotInGame
		}
		if g.mode == ModeLocal {
			c = g.state.ToMove
		}
		g.finishLocked(c.Opponent(), ReasonResign)
		return nil
	})
}

// Reset restores the starting position and keeps the seated players.
func (g *Game) Reset(playerID string) (GameState, error) {
	return g.update(func() error {
		if _, ok := g.state.Players.ColorOf(playerID); !ok {
			return ErrNotInGame
		}
		players := g.state.Players
		g.state = g.initialState()
		g.state.Players = players
		g.whiteClock.Reset()
		g.blackClock.Reset()
		g.clockFor(g.startTurn).Start()
		return nil
	})
}

// RegisterConnection subscribes conn to state updates and sends it the
// current state. Anyone may watch; only seated players may move.
func (g *Game) RegisterConnection(playerID string, conn Conn) {
	if !g.connections.Register(playerID, conn) {
		g.logger.Info("rejected duplicate connection",
			zap.String("game_id", g.ID),
			zap.String("player_id", playerID),
			zap.String("conn", connID(conn)),
		)
		return
	}
	g.logger.Debug("registered connection",
		zap.String("game_id", g.ID),
		zap.String("player_id", playerID),
		zap.String("conn", connID(conn)),
	)
	g.connections.Broadcast(g.ID, g.GetState())
}

func (g *Game) UnregisterConnection(playerID string, conn Conn) {
	g.connections.Unregister(playerID, conn)
}

func (g *Game) update(fn func() error) (GameState, error) {
	g.mu.Lock()
	err := fn()
	if err == nil {
		g.lastActive = time.Now()
	}
	state := g.snapshotLocked()
	g.mu.Unlock()

	if err == nil {
		g.connections.Broadcast(g.ID, state)
	}
	return state, err
}

func (g *Game) canActLocked(playerID string) error {
	if g.state.Result != nil {
		return ErrGameOver
	}
	c, ok := g.state.Players.ColorOf(playerID)
	if !ok {
		return ErrNotInGame
	}
	switch g.mode {
	case ModeLocal:
		return nil
	case ModeComputer:
		if g.state.ToMove != g.HumanColor() {
			return ErrNotYourTurn
		}
		return nil
	default:
		if c != g.state.ToMove {
			return ErrNotYourTurn
		}
		return nil
	}
}

func (g *Game) selectLocked(sq chess.Square) {
	selected := sq
	g.state.SelectedSquare = &selected
	g.state.PossibleMoves = chess.GetPossibleMoves(g.state.Board, sq)
	g.state.Phase = PhaseAwaitingDestination
}

func (g *Game) clearSelectionLocked() {
	g.state.SelectedSquare = nil
	g.state.PossibleMoves = make([]chess.Square, 0)
}

func (g *Game) commitLocked(from, to chess.Square) error {
	mover := g.state.ToMove
	if !chess.IsValidMove(g.state.Board, from, to, mover) {
		return fmt.Errorf("%w: %s%s", ErrInvalidMove, from, to)
	}

	if captured := g.state.Board.At(to); captured != nil {
		g.state.CapturedPieces.add(mover, *captured)
	}
	g.clockFor(mover).Stop()

	g.state.Board = chess.MakeMove(g.state.Board, from, to)
	g.state.LastMove = &chess.Move{From: from, To: to}
	g.state.MoveCount++
	g.clearSelectionLocked()
	g.state.ToMove = mover.Opponent()
	g.state.Phase = PhaseMoveCommitted
	g.state.Check = checkedSide(g.state.Board)

	g.clockFor(g.state.ToMove).Start()
	g.logger.Debug("move committed",
		zap.String("game_id", g.ID),
		zap.String("color", string(mover)),
		zap.String("move", g.state.LastMove.String()),
	)
	return nil
}

func (g *Game) finishLocked(winner chess.Color, reason string) {
	g.state.Result = &Result{Winner: winner, Reason: reason}
	g.clearSelectionLocked()
	g.whiteClock.Stop()
	g.blackClock.Stop()
	g.logger.Info("game finished",
		zap.String("game_id", g.ID),
		zap.String("winner", string(winner)),
		zap.String("reason", reason),
	)
}

// checkedSide reports White first when both kings are attacked.
func checkedSide(b chess.Board) *chess.Color {
	for _, c := range []chess.Color{chess.White, chess.Black} {
		if chess.IsInCheck(b, c) {
			checked := c
			return &checked
		}
	}
	return nil
}

func (g *Game) clockFor(c chess.Color) *Clock {
	if c == chess.White {
		return g.whiteClock
	}
	return g.blackClock
}

func (g *Game) snapshotLocked() GameState {
	s := g.state
	s.FEN = chess.EncodeFEN(s.Board, s.ToMove, s.MoveCount/2+1)
	s.PossibleMoves = append(make([]chess.Square, 0, len(s.PossibleMoves)), s.PossibleMoves...)
	s.CapturedPieces = CapturedPieces{
		White: append(make([]chess.Piece, 0, len(s.CapturedPieces.White)), s.CapturedPieces.White...),
		Black: append(make([]chess.Piece, 0, len(s.CapturedPieces.Black)), s.CapturedPieces.Black...),
	}
	s.Players.White.TimeLeft = g.whiteClock.GetTimeLeft().Milliseconds()
	s.Players.Black.TimeLeft = g.blackClock.GetTimeLeft().Milliseconds()
	return s
}
