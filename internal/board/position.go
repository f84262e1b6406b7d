package board

import (
	"fmt"
	"strconv"
	"strings"
)

// Position addresses a cell by zero-based row and column
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Name returns the algebraic cell name, column letter then 1-based row ("d3")
func (p Position) Name() string {
	if !InBounds(p.Row, p.Col) {
		return "??"
	}
	return fmt.Sprintf("%c%d", 'a'+p.Col, p.Row+1)
}

func (p Position) String() string {
	return p.Name()
}

// ParsePosition accepts "d3" style names or zero-based "row col" / "row,col" pairs
func ParsePosition(s string) (Position, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	if len(s) == 2 && s[0] >= 'a' && s[0] <= 'h' && s[1] >= '1' && s[1] <= '8' {
		return Position{Row: int(s[1] - '1'), Col: int(s[0] - 'a')}, nil
	}

	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' '
	})
	if len(parts) != 2 {
		return Position{}, fmt.Errorf("invalid cell %q", s)
	}

	row, err := strconv.Atoi(parts[0])
	if err != nil {
		return Position{}, fmt.Errorf("invalid row %q", parts[0])
	}
	col, err := strconv.Atoi(parts[1])
	if err != nil {
		return Position{}, fmt.Errorf("invalid column %q", parts[1])
	}
	if !InBounds(row, col) {
		return Position{}, fmt.Errorf("cell (%d,%d) is off the board", row, col)
	}

	return Position{Row: row, Col: col}, nil
}
