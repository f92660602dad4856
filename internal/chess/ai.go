package chess

import (
	"math/rand/v2"
)

const (
	selfCheckPenalty = -10
	givesCheckBonus  = 5
	// Candidates scoring within this margin of the best move are picked at
	// random.
	scoreMargin = 1
)

var captureValues = map[PieceType]int{
	Pawn:   1,
	Knight: 3,
	Bishop: 3,
	Rook:   5,
	Queen:  9,
	King:   100,
}

// CaptureValue returns the material bonus for capturing a piece of type t.
func CaptureValue(t PieceType) int {
	return captureValues[t]
}

type ScoredMove struct {
	Move
	Score int `json:"score"`
}

// ScoreMoves evaluates every candidate move of color c one ply deep. The
// result is ordered by origin square in row-major order, then by
// generation order.
func ScoreMoves(b Board, c Color) []ScoredMove {
	scored := []ScoredMove{}
	for _, from := range b.Pieces(c) {
		for _, to := range GetPossibleMoves(b, from) {
			scored = append(scored, ScoredMove{
				Move:  Move{From: from, To: to},
				Score: scoreMove(b, c, from, to),
			})
		}
	}
	return scored
}

func scoreMove(b Board, c Color, from, to Square) int {
	score := 0
	if captured := b.At(to); captured != nil {
		score += CaptureValue(captured.Type)
	}

	next := MakeMove(b, from, to)
	if IsInCheck(next, c) {
		score += selfCheckPenalty
	}
	if IsInCheck(next, c.Opponent()) {
		score += givesCheckBonus
	}
	return score
}

// Selector picks a move for an automated side. It is not safe for
// concurrent use.
type Selector struct {
	rng *rand.Rand
}

func NewSelector(seed uint64) *Selector {
	return &Selector{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Pick returns a move for c, chosen uniformly among the candidates scoring
// within one point of the best. It returns false when c has no candidate.
func (s *Selector) Pick(b Board, c Color) (Move, bool) {
	return pick(ScoreMoves(b, c), s.rng.IntN)
}

// GetComputerMove is Selector.Pick backed by the process-wide random
// source.
func GetComputerMove(b Board, c Color) (Move, bool) {
	return pick(ScoreMoves(b, c), rand.IntN)
}

func pick(scored []ScoredMove, intN func(int) int) (Move, bool) {
	best := BestCandidates(scored)
	if len(best) == 0 {
		return Move{}, false
	}
	return best[intN(len(best))].Move, true
}

// BestCandidates returns the moves scoring within one point of the maximum,
// in their original order.
func BestCandidates(scored []ScoredMove) []ScoredMove {
	if len(scored) == 0 {
		return nil
	}
	top := scored[0].Score
	for _, m := range scored[1:] {
		if m.Score > top {
			top = m.Score
		}
	}
	best := []ScoredMove{}
	for _, m := range scored {
		if m.Score >= top-scoreMargin {
			best = append(best, m)
		}
	}
	return best
}
