package chess

import (
	"reflect"
	"testing"

	nchess "github.com/notnil/chess"
)

func place(pieces map[Square]Piece) Board {
	var b Board
	for s, p := range pieces {
		p := p
		b[s.Row][s.Col] = &p
	}
	return b
}

func TestRookOnEmptyBoard(t *testing.T) {
	t.Parallel()
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			from := sq(row, col)
			b := place(map[Square]Piece{from: {Type: Rook, Color: White}})

			want := []Square{}
			for r := 0; r < 8; r++ {
				if r != row {
					want = append(want, sq(r, col))
				}
			}
			for c := 0; c < 8; c++ {
				if c != col {
					want = append(want, sq(row, c))
				}
			}

			got := GetPossibleMoves(b, from)
			if len(got) != 14 {
				t.Errorf("%s: got %d moves want 14", from, len(got))
			}
			if !reflect.DeepEqual(sortSquares(got), sortSquares(want)) {
				t.Errorf("%s: got=%v want=%v", from, got, want)
			}
		}
	}
}

func TestPossibleMoves(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		pieces map[Square]Piece
		from   Square
		want   []Square
	}{
		{
			name: "empty square",
			from: sq(4, 4),
			want: []Square{},
		},
		{
			name:   "white pawn on start row",
			pieces: map[Square]Piece{sq(6, 4): {Type: Pawn, Color: White}},
			from:   sq(6, 4),
			want:   []Square{sq(5, 4), sq(4, 4)},
		},
		{
			name:   "black pawn on start row",
			pieces: map[Square]Piece{sq(1, 2): {Type: Pawn, Color: Black}},
			from:   sq(1, 2),
			want:   []Square{sq(2, 2), sq(3, 2)},
		},
		{
			name:   "pawn off start row",
			pieces: map[Square]Piece{sq(5, 4): {Type: Pawn, Color: White}},
			from:   sq(5, 4),
			want:   []Square{sq(4, 4)},
		},
		{
			name: "pawn double push blocked on second square",
			pieces: map[Square]Piece{
				sq(6, 4): {Type: Pawn, Color: White},
				sq(4, 4): {Type: Knight, Color: Black},
			},
			from: sq(6, 4),
			want: []Square{sq(5, 4)},
		},
		{
			name: "pawn blocked in front",
			pieces: map[Square]Piece{
				sq(6, 4): {Type: Pawn, Color: White},
				sq(5, 4): {Type: Knight, Color: Black},
			},
			from: sq(6, 4),
			want: []Square{},
		},
		{
			name: "pawn captures only opposite color",
			pieces: map[Square]Piece{
				sq(4, 4): {Type: Pawn, Color: White},
				sq(3, 3): {Type: Bishop, Color: Black},
				sq(3, 5): {Type: Bishop, Color: White},
			},
			from: sq(4, 4),
			want: []Square{sq(3, 4), sq(3, 3)},
		},
		{
			name:   "pawn on far rank has no moves",
			pieces: map[Square]Piece{sq(0, 0): {Type: Pawn, Color: White}},
			from:   sq(0, 0),
			want:   []Square{},
		},
		{
			name: "rook stops at blockers",
			pieces: map[Square]Piece{
				sq(4, 4): {Type: Rook, Color: White},
				sq(6, 4): {Type: Pawn, Color: Black},
				sq(2, 4): {Type: Pawn, Color: White},
			},
			from: sq(4, 4),
			want: []Square{
				sq(5, 4), sq(6, 4),
				sq(3, 4),
				sq(4, 5), sq(4, 6), sq(4, 7),
				sq(4, 3), sq(4, 2), sq(4, 1), sq(4, 0),
			},
		},
		{
			name:   "bishop in corner",
			pieces: map[Square]Piece{sq(7, 0): {Type: Bishop, Color: White}},
			from:   sq(7, 0),
			want:   []Square{sq(6, 1), sq(5, 2), sq(4, 3), sq(3, 4), sq(2, 5), sq(1, 6), sq(0, 7)},
		},
		{
			name:   "knight in corner",
			pieces: map[Square]Piece{sq(0, 0): {Type: Knight, Color: Black}},
			from:   sq(0, 0),
			want:   []Square{sq(1, 2), sq(2, 1)},
		},
		{
			name: "knight skips own pieces",
			pieces: map[Square]Piece{
				sq(0, 0): {Type: Knight, Color: Black},
				sq(1, 2): {Type: Pawn, Color: Black},
				sq(2, 1): {Type: Pawn, Color: White},
			},
			from: sq(0, 0),
			want: []Square{sq(2, 1)},
		},
		{
			name: "king castles both sides",
			pieces: map[Square]Piece{
				sq(7, 4): {Type: King, Color: White},
				sq(7, 7): {Type: Rook, Color: White},
				sq(7, 0): {Type: Rook, Color: White},
			},
			from: sq(7, 4),
			want: []Square{sq(6, 4), sq(7, 5), sq(7, 3), sq(6, 5), sq(6, 3), sq(7, 6), sq(7, 2)},
		},
		{
			name: "moved king cannot castle",
			pieces: map[Square]Piece{
				sq(7, 4): {Type: King, Color: White, HasMoved: true},
				sq(7, 7): {Type: Rook, Color: White},
			},
			from: sq(7, 4),
			want: []Square{sq(6, 4), sq(7, 5), sq(7, 3), sq(6, 5), sq(6, 3)},
		},
		{
			name: "moved rook blocks castling",
			pieces: map[Square]Piece{
				sq(0, 4): {Type: King, Color: Black},
				sq(0, 7): {Type: Rook, Color: Black, HasMoved: true},
				sq(0, 0): {Type: Rook, Color: Black},
			},
			from: sq(0, 4),
			want: []Square{sq(1, 4), sq(0, 5), sq(0, 3), sq(1, 5), sq(1, 3), sq(0, 2)},
		},
		{
			name: "queenside needs column 1 empty",
			pieces: map[Square]Piece{
				sq(7, 4): {Type: King, Color: White},
				sq(7, 0): {Type: Rook, Color: White},
				sq(7, 1): {Type: Knight, Color: White},
			},
			from: sq(7, 4),
			want: []Square{sq(6, 4), sq(7, 5), sq(7, 3), sq(6, 5), sq(6, 3)},
		},
		{
			name: "opposing rook does not grant castling",
			pieces: map[Square]Piece{
				sq(7, 4): {Type: King, Color: White},
				sq(7, 7): {Type: Rook, Color: Black},
			},
			from: sq(7, 4),
			want: []Square{sq(6, 4), sq(7, 5), sq(7, 3), sq(6, 5), sq(6, 3)},
		},
		{
			name: "castling ignores attacked squares",
			pieces: map[Square]Piece{
				sq(7, 4): {Type: King, Color: White},
				sq(7, 7): {Type: Rook, Color: White},
				sq(0, 5): {Type: Rook, Color: Black},
			},
			from: sq(7, 4),
			want: []Square{sq(6, 4), sq(7, 5), sq(7, 3), sq(6, 5), sq(6, 3), sq(7, 6)},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b := place(tt.pieces)
			got := GetPossibleMoves(b, tt.from)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got=%v want=%v", got, tt.want)
			}
		})
	}
}

func TestQueenIsRookPlusBishop(t *testing.T) {
	t.Parallel()
	from := sq(3, 3)
	queen := place(map[Square]Piece{from: {Type: Queen, Color: Black}, sq(5, 5): {Type: Pawn, Color: White}})
	rook := place(map[Square]Piece{from: {Type: Rook, Color: Black}, sq(5, 5): {Type: Pawn, Color: White}})
	bishop := place(map[Square]Piece{from: {Type: Bishop, Color: Black}, sq(5, 5): {Type: Pawn, Color: White}})

	want := append(GetPossibleMoves(rook, from), GetPossibleMoves(bishop, from)...)
	if got := GetPossibleMoves(queen, from); !reflect.DeepEqual(got, want) {
		t.Fatalf("got=%v want=%v", got, want)
	}
}

func TestPossibleMovesDeterministic(t *testing.T) {
	t.Parallel()
	b := CreateBoard()
	b = MakeMove(b, sq(6, 4), sq(4, 4))
	for _, from := range append(b.Pieces(White), b.Pieces(Black)...) {
		first := GetPossibleMoves(b, from)
		second := GetPossibleMoves(b, from)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("%s: results differ %v vs %v", from, first, second)
		}
	}
}

// The opening position has no pins or checks, so the candidate count must
// agree with a fully legal generator.
func TestOpeningCountsMatchReferenceEngine(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		moves []Move
		turn  Color
	}{
		{name: "start", turn: White},
		{name: "after e4", moves: []Move{{From: sq(6, 4), To: sq(4, 4)}}, turn: Black},
		{name: "after e4 e5", moves: []Move{{From: sq(6, 4), To: sq(4, 4)}, {From: sq(1, 4), To: sq(3, 4)}}, turn: White},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b := CreateBoard()
			for _, m := range tt.moves {
				b = MakeMove(b, m.From, m.To)
			}
			got := len(ScoreMoves(b, tt.turn))

			opt, err := nchess.FEN(EncodeFEN(b, tt.turn, 1))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			want := len(nchess.NewGame(opt).ValidMoves())
			if got != want {
				t.Errorf("candidate count: got=%d want=%d", got, want)
			}
		})
	}
}
