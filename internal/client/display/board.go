package display

import (
	"fmt"
	"strings"

	"othello/internal/core"
)

// RenderBoard draws the board of a game. Legal cells for the side to move are
// marked with '*' and the last placed disc is highlighted.
func RenderBoard(g core.GameResponse, theme Theme) string {
	colors := themes[theme]

	legal := make(map[[2]int]bool, len(g.LegalMoves))
	for _, c := range g.LegalMoves {
		legal[[2]int{c.Row, c.Col}] = true
	}
	last := [2]int{-1, -1}
	if g.LastMove != nil {
		last = [2]int{g.LastMove.Cell.Row, g.LastMove.Cell.Col}
	}

	var sb strings.Builder
	header := "  a b c d e f g h"
	sb.WriteString(colors.label + header + colors.reset + "\n")

	for r, row := range g.Board {
		sb.WriteString(fmt.Sprintf("%s%d%s ", colors.label, r+1, colors.reset))
		for c, color := range row {
			pos := [2]int{r, c}
			cell := cellSymbol(color, legal[pos])

			if theme == ThemeOff {
				sb.WriteString(cell + " ")
				continue
			}

			bg := colors.bg
			if pos == last {
				bg = colors.last
			}
			fg := colors.hint
			switch color {
			case core.ColorBlack:
				fg = colors.black
			case core.ColorWhite:
				fg = colors.white
			}
			sb.WriteString(fmt.Sprintf("%s%s%s %s", bg, fg, cell, colors.reset))
		}
		sb.WriteString(fmt.Sprintf(" %s%d%s\n", colors.label, r+1, colors.reset))
	}
	sb.WriteString(colors.label + header + colors.reset + "\n")

	return sb.String()
}

func cellSymbol(color core.Color, legal bool) string {
	switch {
	case color == core.ColorBlack:
		return "B"
	case color == core.ColorWhite:
		return "W"
	case legal:
		return "*"
	default:
		return "."
	}
}

// ColorForTurn returns colored side indicator
func ColorForTurn(theme Theme, c core.Color) string {
	switch c {
	case core.ColorWhite:
		return Paint(theme, Blue, "White")
	case core.ColorBlack:
		return Paint(theme, Red, "Black")
	default:
		return "-"
	}
}
