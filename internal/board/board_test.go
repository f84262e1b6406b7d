package board

import (
	"errors"
	"strings"
	"testing"

	"othello/internal/core"
)

func TestNewBoard(t *testing.T) {
	b := New()

	checks := []struct {
		row, col int
		want     core.Color
	}{
		{3, 3, core.ColorWhite},
		{4, 4, core.ColorWhite},
		{3, 4, core.ColorBlack},
		{4, 3, core.ColorBlack},
		{0, 0, core.ColorNone},
	}
	for _, c := range checks {
		if got := b.At(c.row, c.col); got != c.want {
			t.Errorf("At(%d,%d) = %v, want %v", c.row, c.col, got, c.want)
		}
	}

	black, white := b.Counts()
	if black != 2 || white != 2 {
		t.Errorf("Counts() = %d,%d, want 2,2", black, white)
	}
	if b.Empty() != 60 {
		t.Errorf("Empty() = %d, want 60", b.Empty())
	}
}

func TestBoardIsValueType(t *testing.T) {
	a := New()
	b := a
	b.Set(0, 0, core.ColorBlack)

	if a.At(0, 0) != core.ColorNone {
		t.Fatal("modifying a copy changed the original board")
	}
}

func TestAtOutOfBounds(t *testing.T) {
	b := New()
	for _, p := range [][2]int{{-1, 0}, {0, -1}, {8, 0}, {0, 8}} {
		if got := b.At(p[0], p[1]); got != core.ColorNone {
			t.Errorf("At(%d,%d) = %v, want empty", p[0], p[1], got)
		}
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	b := New()
	if got := b.Encode(); got != StartingPosition {
		t.Fatalf("Encode() = %q, want %q", got, StartingPosition)
	}

	parsed, err := Parse(StartingPosition)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if parsed != b {
		t.Fatal("parsed starting position differs from New()")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"too few rows", "......../........"},
		{"short row", strings.Replace(StartingPosition, "......../", "......./", 1)},
		{"bad character", strings.Replace(StartingPosition, "...WB...", "...WX...", 1)},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.in)
			if !errors.Is(err, ErrInvalidPosition) {
				t.Errorf("Parse(%q) error = %v, want ErrInvalidPosition", tt.in, err)
			}
		})
	}
}

func TestASCII(t *testing.T) {
	b := New()
	lines := strings.Split(b.ASCII(), "\n")
	if len(lines) != 10 {
		t.Fatalf("expected 10 lines, got %d", len(lines))
	}
	if lines[4] != "4 . . . W B . . .  4" {
		t.Errorf("row 4 = %q", lines[4])
	}
}

func TestParsePosition(t *testing.T) {
	tests := []struct {
		in      string
		want    Position
		wantErr bool
	}{
		{"d3", Position{Row: 2, Col: 3}, false},
		{"A1", Position{Row: 0, Col: 0}, false},
		{"h8", Position{Row: 7, Col: 7}, false},
		{"2 3", Position{Row: 2, Col: 3}, false},
		{"5,4", Position{Row: 5, Col: 4}, false},
		{"i1", Position{}, true},
		{"8 0", Position{}, true},
		{"x y", Position{}, true},
		{"", Position{}, true},
	}

	for _, tt := range tests {
		got, err := ParsePosition(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParsePosition(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParsePosition(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePosition(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
		if got.Name() != strings.ToLower(tt.in) && len(tt.in) == 2 {
			t.Errorf("Name() = %q, want %q", got.Name(), strings.ToLower(tt.in))
		}
	}
}
