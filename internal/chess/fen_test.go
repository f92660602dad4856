package chess

import (
	"errors"
	"testing"
)

func TestEncodeFEN(t *testing.T) {
	t.Parallel()
	start := CreateBoard()
	afterE4 := MakeMove(start, sq(6, 4), sq(4, 4))
	kingWalk := MakeMove(MakeMove(start, sq(6, 4), sq(4, 4)), sq(7, 4), sq(6, 4))
	rookWalk := MakeMove(MakeMove(start, sq(1, 7), sq(3, 7)), sq(0, 7), sq(1, 7))

	tests := []struct {
		name     string
		board    Board
		turn     Color
		fullmove int
		want     string
	}{
		{name: "start", board: start, turn: White, fullmove: 1, want: StartingFEN},
		{name: "after e4", board: afterE4, turn: Black, fullmove: 1, want: "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1"},
		{name: "white king moved", board: kingWalk, turn: Black, fullmove: 2, want: "rnbqkbnr/pppppppp/8/8/4P3/8/PPPPKPPP/RNBQ1BNR b kq - 0 2"},
		{name: "black rook moved", board: rookWalk, turn: White, fullmove: 0, want: "rnbqkbn1/pppppppr/8/7p/8/8/PPPPPPPP/RNBQKBNR w KQq - 0 1"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := EncodeFEN(tt.board, tt.turn, tt.fullmove)
			if got != tt.want {
				t.Errorf("got=%q want=%q", got, tt.want)
			}
			if err := ValidateFEN(got); err != nil {
				t.Errorf("encoded fen rejected: %v", err)
			}
		})
	}
}

func TestDecodeFEN(t *testing.T) {
	t.Parallel()
	b, turn, err := DecodeFEN(StartingFEN)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if turn != White {
		t.Errorf("turn: got=%s want=white", turn)
	}
	start := CreateBoard()
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			got, want := b[row][col], start[row][col]
			if (got == nil) != (want == nil) || (got != nil && *got != *want) {
				t.Errorf("square %s: got=%+v want=%+v", sq(row, col), got, want)
			}
		}
	}

	b, turn, err = DecodeFEN("4k3/8/8/8/8/8/8/R3K2R b Q - 0 1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if turn != Black {
		t.Errorf("turn: got=%s want=black", turn)
	}
	if b[7][4].HasMoved || b[7][0].HasMoved || !b[7][7].HasMoved || !b[0][4].HasMoved {
		t.Errorf("castling flags not applied: %+v %+v %+v %+v", b[7][4], b[7][0], b[7][7], b[0][4])
	}
	if got := GetPossibleMoves(b, sq(7, 4)); got[len(got)-1] != sq(7, 2) {
		t.Errorf("queenside castle should be the last candidate, got %v", got)
	}
}

func TestDecodeFENInvalid(t *testing.T) {
	t.Parallel()
	for _, fen := range []string{
		"",
		"invalid fen",
		"8/8/8/8/8/8/8 w - - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1",
	} {
		if _, _, err := DecodeFEN(fen); !errors.Is(err, ErrInvalidFEN) {
			t.Errorf("%q: got err=%v want %v", fen, err, ErrInvalidFEN)
		}
	}
}
