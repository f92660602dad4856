// Package render draws boards for terminals.
package render

import (
	"strconv"
	"strings"

	"github.com/benbeisheim/chess-maestro/internal/chess"
	"github.com/fatih/color"
)

type Renderer struct {
	light     *color.Color
	dark      *color.Color
	highlight *color.Color
	check     *color.Color
	label     *color.Color
}

// New returns a renderer using a green and cream checkerboard. With plain
// set, output carries no escape codes.
func New(plain bool) *Renderer {
	r := &Renderer{
		light:     color.New(color.FgBlack, color.BgHiWhite),
		dark:      color.New(color.FgBlack, color.BgGreen),
		highlight: color.New(color.FgBlack, color.BgYellow),
		check:     color.New(color.FgHiWhite, color.BgRed, color.Bold),
		label:     color.New(color.Bold),
	}
	if plain {
		for _, c := range []*color.Color{r.light, r.dark, r.highlight, r.check, r.label} {
			c.DisableColor()
		}
	}
	return r
}

// Draw renders b from viewer's side: White sees rank 1 at the bottom and
// Black sees the board turned around. Squares in marks are highlighted and
// a king in check is drawn in red.
func (r *Renderer) Draw(b chess.Board, viewer chess.Color, marks ...chess.Square) string {
	marked := make(map[chess.Square]bool, len(marks))
	for _, sq := range marks {
		marked[sq] = true
	}
	checked := make(map[chess.Square]bool, 2)
	for _, c := range []chess.Color{chess.White, chess.Black} {
		if king, ok := chess.FindKing(b, c); ok && chess.IsInCheck(b, c) {
			checked[king] = true
		}
	}

	order := [8]int{0, 1, 2, 3, 4, 5, 6, 7}
	if viewer == chess.Black {
		order = [8]int{7, 6, 5, 4, 3, 2, 1, 0}
	}

	var sb strings.Builder
	for _, row := range order {
		sb.WriteString(r.label.Sprint(" " + strconv.Itoa(8-row) + " "))
		for _, col := range order {
			sq := chess.Square{Row: row, Col: col}
			sym := " "
			if p := b.At(sq); p != nil {
				sym = p.Symbol()
			}
			sb.WriteString(r.cellColor(sq, marked, checked).Sprint(" " + sym + " "))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("   ")
	for _, col := range order {
		sb.WriteString(r.label.Sprint(" " + string(rune('a'+col)) + " "))
	}
	sb.WriteString("\n")
	return sb.String()
}

func (r *Renderer) cellColor(sq chess.Square, marked, checked map[chess.Square]bool) *color.Color {
	switch {
	case checked[sq]:
		return r.check
	case marked[sq]:
		return r.highlight
	case (sq.Row+sq.Col)%2 == 0:
		return r.light
	default:
		return r.dark
	}
}
