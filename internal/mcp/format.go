package mcp

import (
	"fmt"
	"strings"

	"othello/internal/board"
	"othello/internal/core"
)

func formatGame(g core.GameResponse) string {
	var sb strings.Builder

	if b, err := board.Parse(g.Position); err == nil {
		sb.WriteString(b.ASCII())
		sb.WriteString("\n\n")
	}

	fmt.Fprintf(&sb, "Score: black %d, white %d\n", g.Score.Black, g.Score.White)
	if g.GameOver {
		if g.Winner == core.WinnerDraw {
			sb.WriteString("Game over: draw\n")
		} else {
			fmt.Fprintf(&sb, "Game over: %s wins\n", g.Winner)
		}
		return sb.String()
	}

	fmt.Fprintf(&sb, "To move: %s\n", g.Turn)
	fmt.Fprintf(&sb, "Legal moves: %s\n", cellNames(g.LegalMoves))
	return sb.String()
}

func formatMove(m *core.MoveInfo) string {
	if m == nil {
		return ""
	}
	s := fmt.Sprintf("%s played %s, flipping %d: %s\n", m.Player, m.Cell.Name, len(m.Flipped), cellNames(m.Flipped))
	if m.Passed != core.ColorNone {
		s += fmt.Sprintf("%s has no legal move and passes.\n", m.Passed)
	}
	return s
}

func cellNames(cells []core.Cell) string {
	if len(cells) == 0 {
		return "none"
	}
	names := make([]string, len(cells))
	for i, c := range cells {
		names[i] = c.Name
	}
	return strings.Join(names, ", ")
}
