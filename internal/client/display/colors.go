package display

import "fmt"

// Terminal color codes
const (
	Reset   = "\033[0m"
	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	White   = "\033[37m"
)

// Prompt returns a colored prompt string
func Prompt(text string) string {
	return Yellow + text + " > " + Reset
}

type Theme string

const (
	ThemeOff   Theme = "off"
	ThemeGreen Theme = "green"
	ThemeBlue  Theme = "blue"
	ThemeGray  Theme = "gray"
)

type themeColors struct {
	bg    string
	hint  string
	last  string
	black string
	white string
	label string
	reset string
}

var themes = map[Theme]themeColors{
	ThemeOff: {},
	ThemeGreen: {
		bg:    "\033[48;5;28m", // Felt green
		hint:  "\033[38;5;120m",
		last:  "\033[48;5;64m",
		black: "\033[30m",
		white: "\033[97m",
		label: Cyan,
		reset: Reset,
	},
	ThemeBlue: {
		bg:    "\033[48;5;24m",
		hint:  "\033[38;5;117m",
		last:  "\033[48;5;31m",
		black: "\033[30m",
		white: "\033[97m",
		label: Cyan,
		reset: Reset,
	},
	ThemeGray: {
		bg:    "\033[48;5;240m",
		hint:  "\033[38;5;250m",
		last:  "\033[48;5;244m",
		black: "\033[30m",
		white: "\033[97m",
		label: Cyan,
		reset: Reset,
	},
}

// ParseTheme validates a theme name
func ParseTheme(name string) (Theme, error) {
	t := Theme(name)
	if _, ok := themes[t]; !ok {
		return ThemeOff, fmt.Errorf("invalid theme: %s (use: off, green, blue, gray)", name)
	}
	return t, nil
}

// Paint wraps text in a color unless the theme is off
func Paint(theme Theme, color, text string) string {
	if theme == ThemeOff {
		return text
	}
	return color + text + Reset
}
