package chess

var (
	rookDirs   = []Square{{Row: 1, Col: 0}, {Row: -1, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: -1}}
	bishopDirs = []Square{{Row: 1, Col: 1}, {Row: 1, Col: -1}, {Row: -1, Col: 1}, {Row: -1, Col: -1}}
	queenDirs  = append(append([]Square{}, rookDirs...), bishopDirs...)
	knightDirs = []Square{
		{Row: -2, Col: -1}, {Row: -2, Col: 1}, {Row: -1, Col: -2}, {Row: -1, Col: 2},
		{Row: 1, Col: -2}, {Row: 1, Col: 2}, {Row: 2, Col: -1}, {Row: 2, Col: 1},
	}
)

// GetPossibleMoves returns the destinations reachable by the piece on sq.
// Moves that leave the mover's own king in check are not filtered out.
func GetPossibleMoves(b Board, sq Square) []Square {
	piece := b.At(sq)
	if piece == nil {
		return []Square{}
	}

	switch piece.Type {
	case Pawn:
		return pawnMoves(&b, sq, piece)
	case Rook:
		return slidingMoves(&b, sq, piece, rookDirs)
	case Bishop:
		return slidingMoves(&b, sq, piece, bishopDirs)
	case Queen:
		return slidingMoves(&b, sq, piece, queenDirs)
	case Knight:
		return stepMoves(&b, sq, piece, knightDirs)
	case King:
		return kingMoves(&b, sq, piece)
	default:
		return []Square{}
	}
}

func forward(c Color) int {
	if c == White {
		return -1
	}
	return 1
}

func pawnStartRow(c Color) int {
	if c == White {
		return 6
	}
	return 1
}

func pawnMoves(b *Board, sq Square, piece *Piece) []Square {
	moves := []Square{}
	dir := forward(piece.Color)

	one := Square{Row: sq.Row + dir, Col: sq.Col}
	if one.OnBoard() && b.At(one) == nil {
		moves = append(moves, one)
		two := Square{Row: sq.Row + 2*dir, Col: sq.Col}
		if sq.Row == pawnStartRow(piece.Color) && b.At(two) == nil {
			moves = append(moves, two)
		}
	}

	for _, dc := range []int{-1, 1} {
		target := Square{Row: sq.Row + dir, Col: sq.Col + dc}
		if occupant := b.At(target); occupant != nil && occupant.Color != piece.Color {
			moves = append(moves, target)
		}
	}
	return moves
}

func slidingMoves(b *Board, sq Square, piece *Piece, dirs []Square) []Square {
	moves := []Square{}
	for _, dir := range dirs {
		for target := sq.add(dir); target.OnBoard(); target = target.add(dir) {
			occupant := b.At(target)
			if occupant == nil {
				moves = append(moves, target)
				continue
			}
			if occupant.Color != piece.Color {
				moves = append(moves, target)
			}
			break
		}
	}
	return moves
}

func stepMoves(b *Board, sq Square, piece *Piece, offsets []Square) []Square {
	moves := []Square{}
	for _, off := range offsets {
		target := sq.add(off)
		if !target.OnBoard() {
			continue
		}
		if occupant := b.At(target); occupant == nil || occupant.Color != piece.Color {
			moves = append(moves, target)
		}
	}
	return moves
}

// kingMoves adds castling destinations when neither the king nor the corner
// rook has moved and the squares between them are empty. Attacked squares
// are not considered.
func kingMoves(b *Board, sq Square, piece *Piece) []Square {
	moves := stepMoves(b, sq, piece, queenDirs)
	if piece.HasMoved {
		return moves
	}

	row := sq.Row
	if castleRook(b, row, 7, piece.Color) && emptyBetween(b, row, 5, 6) {
		moves = append(moves, Square{Row: row, Col: 6})
	}
	if castleRook(b, row, 0, piece.Color) && emptyBetween(b, row, 1, 3) {
		moves = append(moves, Square{Row: row, Col: 2})
	}
	return moves
}

func castleRook(b *Board, row, col int, c Color) bool {
	rook := b[row][col]
	return rook != nil && rook.Type == Rook && rook.Color == c && !rook.HasMoved
}

func emptyBetween(b *Board, row, fromCol, toCol int) bool {
	for col := fromCol; col <= toCol; col++ {
		if b[row][col] != nil {
			return false
		}
	}
	return true
}
