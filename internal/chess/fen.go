package chess

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	nchess "github.com/notnil/chess"
)

const StartingFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var ErrInvalidFEN = errors.New("invalid fen")

var fenPieces = map[rune]PieceType{
	'p': Pawn,
	'n': Knight,
	'b': Bishop,
	'r': Rook,
	'q': Queen,
	'k': King,
}

// EncodeFEN renders b in Forsyth-Edwards Notation. Castling rights are
// derived from the HasMoved flags of kings and rooks on their home squares.
// En passant is never available and the halfmove clock is always zero.
func EncodeFEN(b Board, turn Color, fullmove int) string {
	var sb strings.Builder
	for row := 0; row < 8; row++ {
		empty := 0
		for col := 0; col < 8; col++ {
			p := b[row][col]
			if p == nil {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(p.Symbol())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if row < 7 {
			sb.WriteByte('/')
		}
	}

	side := "w"
	if turn == Black {
		side = "b"
	}
	if fullmove < 1 {
		fullmove = 1
	}
	return fmt.Sprintf("%s %s %s - 0 %d", sb.String(), side, castlingRights(&b), fullmove)
}

func castlingRights(b *Board) string {
	rights := ""
	for _, side := range []struct {
		color Color
		row   int
		king  string
		queen string
	}{
		{color: White, row: 7, king: "K", queen: "Q"},
		{color: Black, row: 0, king: "k", queen: "q"},
	} {
		king := b[side.row][4]
		if king == nil || king.Type != King || king.Color != side.color || king.HasMoved {
			continue
		}
		if castleRook(b, side.row, 7, side.color) {
			rights += side.king
		}
		if castleRook(b, side.row, 0, side.color) {
			rights += side.queen
		}
	}
	if rights == "" {
		return "-"
	}
	return rights
}

// ValidateFEN checks fen with an independent parser.
func ValidateFEN(fen string) error {
	if _, err := nchess.FEN(fen); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFEN, err)
	}
	return nil
}

// DecodeFEN parses fen into a board and the side to move. Kings and rooks
// are marked as moved unless the castling field keeps them eligible.
func DecodeFEN(fen string) (Board, Color, error) {
	var b Board
	if err := ValidateFEN(fen); err != nil {
		return b, "", err
	}
	fields := strings.Fields(fen)

	for row, rank := range strings.Split(fields[0], "/") {
		col := 0
		for _, r := range rank {
			if r >= '1' && r <= '8' {
				col += int(r - '0')
				continue
			}
			t, ok := fenPieces[unicode.ToLower(r)]
			if !ok || col > 7 {
				return Board{}, "", fmt.Errorf("%w: bad placement %q", ErrInvalidFEN, rank)
			}
			color := White
			if unicode.IsLower(r) {
				color = Black
			}
			b[row][col] = &Piece{Type: t, Color: color, HasMoved: t == King || t == Rook}
			col++
		}
	}

	turn := White
	if fields[1] == "b" {
		turn = Black
	}

	for _, r := range fields[2] {
		switch r {
		case 'K':
			markUnmoved(&b, 7, 4, 7)
		case 'Q':
			markUnmoved(&b, 7, 4, 0)
		case 'k':
			markUnmoved(&b, 0, 4, 7)
		case 'q':
			markUnmoved(&b, 0, 4, 0)
		}
	}
	return b, turn, nil
}

func markUnmoved(b *Board, row int, cols ...int) {
	for _, col := range cols {
		if p := b[row][col]; p != nil && p.HasMoved {
			fresh := *p
			fresh.HasMoved = false
			b[row][col] = &fresh
		}
	}
}
