package display

import (
	"fmt"
	"strings"

	"othello/internal/core"
)

// Status summarises score and turn, or the result once the game is over
func Status(g core.GameResponse, theme Theme) string {
	score := fmt.Sprintf("Black %d - %d White", g.Score.Black, g.Score.White)
	if !g.GameOver {
		return fmt.Sprintf("%s | %s to move", score, ColorForTurn(theme, g.Turn))
	}

	switch g.Winner {
	case core.WinnerBlack:
		return fmt.Sprintf("%s | Game over: %s wins", score, ColorForTurn(theme, core.ColorBlack))
	case core.WinnerWhite:
		return fmt.Sprintf("%s | Game over: %s wins", score, ColorForTurn(theme, core.ColorWhite))
	default:
		return fmt.Sprintf("%s | Game over: draw", score)
	}
}

// Move describes the last placement, including a forced pass
func Move(m *core.MoveInfo, theme Theme) string {
	if m == nil {
		return ""
	}
	s := fmt.Sprintf("%s plays %s, flipping %s", ColorForTurn(theme, m.Player), m.Cell.Name, Cells(m.Flipped))
	if m.Passed != core.ColorNone {
		s += fmt.Sprintf("\n%s has no legal move and passes", ColorForTurn(theme, m.Passed))
	}
	return s
}

// Cells lists cell names, "none" when empty
func Cells(cells []core.Cell) string {
	if len(cells) == 0 {
		return "none"
	}
	names := make([]string, len(cells))
	for i, c := range cells {
		names[i] = c.Name
	}
	return strings.Join(names, " ")
}
