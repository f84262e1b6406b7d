package board

import (
	"errors"
	"fmt"
	"strings"

	"othello/internal/core"
)

const Size = 8

// StartingPosition is the standard four-disc opening in position notation
const StartingPosition = "......../......../......../...WB.../...BW.../......../......../........"

var ErrInvalidPosition = errors.New("invalid position")

// Direction is a unit step on the board
type Direction struct {
	DRow, DCol int
}

// Directions holds the 8 compass directions used for line scanning
var Directions = [8]Direction{
	{-1, 0}, {1, 0}, {0, -1}, {0, 1},
	{-1, -1}, {-1, 1}, {1, -1}, {1, 1},
}

// Board is an 8x8 grid indexed [row][col]. It is a value type, assignment copies it.
type Board [Size][Size]core.Color

// New returns the standard starting board
func New() Board {
	var b Board
	mid := Size / 2
	b[mid-1][mid-1], b[mid][mid] = core.ColorWhite, core.ColorWhite
	b[mid-1][mid], b[mid][mid-1] = core.ColorBlack, core.ColorBlack
	return b
}

func InBounds(row, col int) bool {
	return row >= 0 && row < Size && col >= 0 && col < Size
}

// At returns the cell color, ColorNone for empty or out-of-range cells
func (b *Board) At(row, col int) core.Color {
	if !InBounds(row, col) {
		return core.ColorNone
	}
	return b[row][col]
}

func (b *Board) Set(row, col int, c core.Color) {
	if InBounds(row, col) {
		b[row][col] = c
	}
}

func (b *Board) Count(c core.Color) int {
	n := 0
	for r := 0; r < Size; r++ {
		for f := 0; f < Size; f++ {
			if b[r][f] == c {
				n++
			}
		}
	}
	return n
}

// Counts returns the number of black and white discs
func (b *Board) Counts() (black, white int) {
	return b.Count(core.ColorBlack), b.Count(core.ColorWhite)
}

func (b *Board) Empty() int {
	return b.Count(core.ColorNone)
}

// Grid returns the board as nested slices for JSON encoding
func (b *Board) Grid() [][]core.Color {
	grid := make([][]core.Color, Size)
	for r := 0; r < Size; r++ {
		grid[r] = make([]core.Color, Size)
		copy(grid[r], b[r][:])
	}
	return grid
}

// Parse reads a position: 8 rows of '.', 'B', 'W' separated by '/'
func Parse(s string) (Board, error) {
	var b Board

	rows := strings.Split(strings.TrimSpace(s), "/")
	if len(rows) != Size {
		return b, fmt.Errorf("%w: expected %d rows, got %d", ErrInvalidPosition, Size, len(rows))
	}

	for r, row := range rows {
		if len(row) != Size {
			return b, fmt.Errorf("%w: row %d has %d cells", ErrInvalidPosition, r+1, len(row))
		}
		for f := 0; f < Size; f++ {
			switch row[f] {
			case '.':
				b[r][f] = core.ColorNone
			case 'B', 'b':
				b[r][f] = core.ColorBlack
			case 'W', 'w':
				b[r][f] = core.ColorWhite
			default:
				return b, fmt.Errorf("%w: unexpected %q in row %d", ErrInvalidPosition, row[f], r+1)
			}
		}
	}

	return b, nil
}

// Encode writes the board in the notation read by Parse
func (b *Board) Encode() string {
	var sb strings.Builder
	for r := 0; r < Size; r++ {
		if r > 0 {
			sb.WriteByte('/')
		}
		for f := 0; f < Size; f++ {
			sb.WriteByte(symbol(b[r][f]))
		}
	}
	return sb.String()
}

// ASCII creates a text representation of the board
func (b *Board) ASCII() string {
	var sb strings.Builder
	sb.WriteString("  a b c d e f g h\n")

	for r := 0; r < Size; r++ {
		sb.WriteString(fmt.Sprintf("%d ", r+1))
		for f := 0; f < Size; f++ {
			sb.WriteByte(symbol(b[r][f]))
			sb.WriteByte(' ')
		}
		sb.WriteString(fmt.Sprintf(" %d\n", r+1))
	}
	sb.WriteString("  a b c d e f g h")

	return sb.String()
}

func symbol(c core.Color) byte {
	switch c {
	case core.ColorBlack:
		return 'B'
	case core.ColorWhite:
		return 'W'
	default:
		return '.'
	}
}
