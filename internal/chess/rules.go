package chess

// IsValidMove reports whether player may move the piece on from to to.
// A move that leaves the player's own king in check is still valid.
func IsValidMove(b Board, from, to Square, player Color) bool {
	if !from.OnBoard() || !to.OnBoard() {
		return false
	}
	piece := b.At(from)
	if piece == nil || piece.Color != player {
		return false
	}
	if dest := b.At(to); dest != nil && dest.Color == player {
		return false
	}
	for _, sq := range GetPossibleMoves(b, from) {
		if sq == to {
			return true
		}
	}
	return false
}

// MakeMove returns the position after moving the piece on from to to.
// The board passed in is left untouched. Pawns reaching row 0 or 7 become
// queens. A castling king move relocates only the king.
func MakeMove(b Board, from, to Square) Board {
	next := b
	piece := next.At(from)
	if piece == nil || !to.OnBoard() {
		return next
	}

	placed := piece
	switch {
	case piece.Type == King || piece.Type == Rook:
		moved := *piece
		moved.HasMoved = true
		placed = &moved
	case piece.Type == Pawn && (to.Row == 0 || to.Row == 7):
		placed = &Piece{Type: Queen, Color: piece.Color}
	}

	next[to.Row][to.Col] = placed
	next[from.Row][from.Col] = nil
	return next
}

// FindKing returns the square of the first king of color c in row-major
// order.
func FindKing(b Board, c Color) (Square, bool) {
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			if p := b[row][col]; p != nil && p.Type == King && p.Color == c {
				return Square{Row: row, Col: col}, true
			}
		}
	}
	return Square{}, false
}

// IsInCheck reports whether any opposing piece can reach the king of color
// kingColor. A board without that king is never in check.
func IsInCheck(b Board, kingColor Color) bool {
	king, ok := FindKing(b, kingColor)
	if !ok {
		return false
	}
	for _, sq := range b.Pieces(kingColor.Opponent()) {
		for _, target := range GetPossibleMoves(b, sq) {
			if target == king {
				return true
			}
		}
	}
	return false
}
