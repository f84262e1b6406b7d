package game

import (
	"errors"
	"testing"

	"othello/internal/board"
	"othello/internal/core"
)

func TestNewGame(t *testing.T) {
	g := New()
	s := g.Snapshot()

	if s.Version != 1 {
		t.Errorf("expected version 1, got %d", s.Version)
	}
	if s.Current != core.ColorBlack || s.GameOver || s.Winner != core.WinnerNone {
		t.Errorf("unexpected initial state: %+v", s)
	}
	if s.Black != 2 || s.White != 2 {
		t.Errorf("expected 2-2, got %d-%d", s.Black, s.White)
	}
	if len(s.LegalMoves) != 4 {
		t.Errorf("expected 4 legal moves, got %d", len(s.LegalMoves))
	}
	if s.LastMove != nil {
		t.Error("expected no last move")
	}
}

func TestSelectCell(t *testing.T) {
	g := New()

	s, err := g.SelectCell(2, 3)
	if err != nil {
		t.Fatalf("SelectCell failed: %v", err)
	}
	if s.Version != 2 {
		t.Errorf("expected version 2, got %d", s.Version)
	}
	if s.Current != core.ColorWhite {
		t.Errorf("expected white to move, got %v", s.Current)
	}
	if s.Black != 4 || s.White != 1 {
		t.Errorf("expected 4-1, got %d-%d", s.Black, s.White)
	}
	if s.LastMove == nil || s.LastMove.Player != core.ColorBlack || len(s.LastMove.Flipped) != 1 {
		t.Errorf("unexpected last move: %+v", s.LastMove)
	}
}

func TestSelectCellInvalidIsNoOp(t *testing.T) {
	g := New()
	before := g.Snapshot()

	cells := [][2]int{{3, 3}, {0, 0}, {-1, 2}, {8, 1}}
	for _, c := range cells {
		s, err := g.SelectCell(c[0], c[1])
		if !errors.Is(err, ErrInvalidMove) {
			t.Errorf("SelectCell(%d,%d) error = %v, want ErrInvalidMove", c[0], c[1], err)
		}
		if s.Version != before.Version || s.Board != before.Board {
			t.Errorf("SelectCell(%d,%d) changed state", c[0], c[1])
		}
	}

	if g.Version() != before.Version {
		t.Errorf("version moved from %d to %d", before.Version, g.Version())
	}
}

func TestSelectCellAfterGameOver(t *testing.T) {
	b, err := board.Parse("BW....../......../......../......../......../......../......../........")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	g := FromBoard(b, core.ColorBlack)

	s, err := g.SelectCell(0, 2)
	if err != nil {
		t.Fatalf("SelectCell failed: %v", err)
	}
	if !s.GameOver || s.Winner != core.WinnerBlack {
		t.Fatalf("expected black win, got over=%v winner=%v", s.GameOver, s.Winner)
	}
	if len(s.LegalMoves) != 0 {
		t.Errorf("expected no legal moves after game over, got %v", s.LegalMoves)
	}

	if _, err := g.SelectCell(1, 1); !errors.Is(err, ErrGameOver) {
		t.Errorf("error = %v, want ErrGameOver", err)
	}
}

func TestFromBoardNormalisesPass(t *testing.T) {
	// White to move but only black has a move
	b, err := board.Parse("BWW...../......../......../......../......../......../......../BW......")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	g := FromBoard(b, core.ColorWhite)
	s := g.Snapshot()
	if s.Current != core.ColorBlack {
		t.Errorf("expected black to move, got %v", s.Current)
	}
	if s.GameOver {
		t.Error("game should not be over")
	}

	// Neither side can move
	b, _ = board.Parse("B......W/......../......../......../......../......../......../........")
	s = FromBoard(b, core.ColorBlack).Snapshot()
	if !s.GameOver || s.Winner != core.WinnerDraw {
		t.Errorf("expected drawn game over, got over=%v winner=%v", s.GameOver, s.Winner)
	}
}

func TestRestartIsIdempotent(t *testing.T) {
	g := New()
	if _, err := g.SelectCell(2, 3); err != nil {
		t.Fatalf("SelectCell failed: %v", err)
	}

	first := g.Restart()
	second := g.Restart()

	if first.Board != board.New() || second.Board != board.New() {
		t.Error("restart did not reset the board")
	}
	if first.Current != second.Current || first.GameOver != second.GameOver || first.Winner != second.Winner {
		t.Errorf("restart states differ: %+v vs %+v", first, second)
	}
	if first.Black != 2 || second.White != 2 {
		t.Error("restart scores differ from the starting position")
	}
	if second.Version != first.Version+1 {
		t.Errorf("expected version to advance on restart, got %d then %d", first.Version, second.Version)
	}
}

func TestSubscribe(t *testing.T) {
	g := New()

	var got []uint64
	unsubscribe := g.Subscribe(func(s Snapshot) {
		got = append(got, s.Version)
	})

	g.SelectCell(2, 3)
	g.SelectCell(0, 0) // rejected, no notification
	g.Restart()

	if len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Fatalf("unexpected notifications %v", got)
	}

	unsubscribe()
	g.Restart()
	if len(got) != 2 {
		t.Errorf("notified after unsubscribe: %v", got)
	}
}

func TestUnsubscribeDuringNotify(t *testing.T) {
	g := New()

	calls := 0
	var unsubscribe func()
	unsubscribe = g.Subscribe(func(Snapshot) {
		calls++
		unsubscribe()
	})
	other := 0
	g.Subscribe(func(Snapshot) { other++ })

	g.Restart()
	g.Restart()

	if calls != 1 {
		t.Errorf("expected self-removing listener to run once, ran %d times", calls)
	}
	if other != 2 {
		t.Errorf("expected second listener to run twice, ran %d times", other)
	}
}

func TestSnapshotsAreIndependent(t *testing.T) {
	g := New()
	before := g.Snapshot()
	g.SelectCell(2, 3)

	if before.Board != board.New() {
		t.Error("earlier snapshot changed after a move")
	}
}
