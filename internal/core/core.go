package core

// Color is the occupant of a board cell and doubles as the player enum.
// ColorNone marks an empty cell.
type Color byte

const (
	ColorNone Color = iota
	ColorBlack
	ColorWhite
)

func (c Color) String() string {
	switch c {
	case ColorBlack:
		return "black"
	case ColorWhite:
		return "white"
	default:
		return ""
	}
}

// MarshalText renders the color as "black", "white" or "" for JSON.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	switch string(text) {
	case "black", "b", "B":
		*c = ColorBlack
	case "white", "w", "W":
		*c = ColorWhite
	default:
		*c = ColorNone
	}
	return nil
}

// Opponent returns the other player. ColorNone has no opponent.
func Opponent(c Color) Color {
	switch c {
	case ColorBlack:
		return ColorWhite
	case ColorWhite:
		return ColorBlack
	default:
		return ColorNone
	}
}

type Winner int

const (
	WinnerNone Winner = iota
	WinnerBlack
	WinnerWhite
	WinnerDraw
)

func (w Winner) String() string {
	switch w {
	case WinnerBlack:
		return "black"
	case WinnerWhite:
		return "white"
	case WinnerDraw:
		return "draw"
	default:
		return "none"
	}
}

func (w Winner) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

func (w *Winner) UnmarshalText(text []byte) error {
	switch string(text) {
	case "black":
		*w = WinnerBlack
	case "white":
		*w = WinnerWhite
	case "draw":
		*w = WinnerDraw
	default:
		*w = WinnerNone
	}
	return nil
}

// State is the turn state machine: whose move it is, or game over.
type State int

const (
	StateBlackToMove State = iota
	StateWhiteToMove
	StateGameOver
)

func (s State) String() string {
	switch s {
	case StateBlackToMove:
		return "black to move"
	case StateWhiteToMove:
		return "white to move"
	case StateGameOver:
		return "game over"
	default:
		return "unknown"
	}
}

// StateOf derives the turn state from the side to move and the game-over flag.
func StateOf(current Color, gameOver bool) State {
	if gameOver {
		return StateGameOver
	}
	if current == ColorWhite {
		return StateWhiteToMove
	}
	return StateBlackToMove
}
