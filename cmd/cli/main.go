package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/benbeisheim/chess-maestro/internal/chess"
	"github.com/benbeisheim/chess-maestro/internal/model"
	"github.com/benbeisheim/chess-maestro/internal/render"
	"go.uber.org/zap"
)

const (
	exitOK = iota
	exitErr
)

const playerID = "you"

func main() {
	if err := realMain(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitErr)
	}
	os.Exit(exitOK)
}

func realMain(args []string, in io.Reader, out io.Writer) error {
	fs := flag.NewFlagSet("chess", flag.ContinueOnError)
	side := fs.String("color", "white", "side to play: white or black")
	seed := fs.Uint64("seed", 0, "seed for the computer's tie breaks, 0 picks one at random")
	plain := fs.Bool("plain", false, "disable colored output")
	debug := fs.Bool("debug", false, "log game events to stderr")
	fen := fs.String("fen", "", "start from this FEN position instead of the standard setup")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logger := zap.NewNop()
	if *debug {
		var err error
		if logger, err = zap.NewDevelopment(); err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()
	}
	if *seed == 0 {
		*seed = rand.Uint64()
	}

	opts := []model.GameOption{model.WithLogger(logger)}
	if *fen != "" {
		b, turn, err := chess.DecodeFEN(*fen)
		if err != nil {
			return err
		}
		opts = append(opts, model.WithPosition(b, turn))
	}

	game, err := model.NewGame("cli", model.ModeComputer, chess.Color(*side), opts...)
	if err != nil {
		return err
	}
	if _, err := game.AddPlayer(playerID); err != nil {
		return err
	}

	s := &session{
		game:     game,
		selector: chess.NewSelector(*seed),
		renderer: render.New(*plain),
		out:      out,
	}
	return s.run(bufio.NewScanner(in))
}

type session struct {
	game     *model.Game
	selector *chess.Selector
	renderer *render.Renderer
	out      io.Writer
}

func (s *session) run(scanner *bufio.Scanner) error {
	fmt.Fprintf(s.out, "You play %s. Enter moves like e2e4, or: moves <square>, fen, resign, quit.\n", s.game.HumanColor())
	if done := s.computerTurn(); done {
		return nil
	}
	s.draw(nil)

	for {
		fmt.Fprint(s.out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "quit", "exit":
			return nil
		case "fen":
			fmt.Fprintln(s.out, s.game.GetState().FEN)
		case "resign":
			state, err := s.game.Resign(playerID)
			if err != nil {
				return err
			}
			s.announce(state.Result)
			return nil
		case "moves":
			if len(fields) != 2 {
				fmt.Fprintln(s.out, "usage: moves <square>")
				continue
			}
			sq, err := chess.ParseSquare(fields[1])
			if err != nil {
				fmt.Fprintln(s.out, err)
				continue
			}
			s.draw(s.game.PossibleMoves(sq))
		default:
			if done := s.humanTurn(fields[0]); done {
				return nil
			}
		}
	}
}

// humanTurn plays text for the human and lets the computer answer. It
// reports whether the game is over.
func (s *session) humanTurn(text string) bool {
	move, err := chess.ParseMove(text)
	if err != nil {
		fmt.Fprintln(s.out, err)
		return false
	}
	state, err := s.game.MakeMove(playerID, move.From, move.To)
	if errors.Is(err, model.ErrInvalidMove) {
		fmt.Fprintf(s.out, "illegal move: %s\n", move)
		return false
	}
	if err != nil {
		fmt.Fprintln(s.out, err)
		return state.Result != nil
	}
	if s.computerTurn() {
		return true
	}
	s.draw(nil)
	return false
}

func (s *session) computerTurn() bool {
	if !s.game.ComputerToMove() {
		return false
	}
	move, played, err := s.game.PlayComputer(s.selector)
	if err != nil {
		fmt.Fprintln(s.out, err)
		return false
	}
	state := s.game.GetState()
	if !played {
		s.draw(nil)
		s.announce(state.Result)
		return true
	}
	fmt.Fprintf(s.out, "computer plays %s\n", move)
	if state.Check != nil && *state.Check == s.game.HumanColor() {
		fmt.Fprintln(s.out, "check!")
	}
	return false
}

func (s *session) draw(marks []chess.Square) {
	fmt.Fprint(s.out, s.renderer.Draw(s.game.GetState().Board, s.game.HumanColor(), marks...))
}

func (s *session) announce(result *model.Result) {
	if result == nil {
		return
	}
	fmt.Fprintf(s.out, "%s wins (%s)\n", result.Winner, result.Reason)
}
