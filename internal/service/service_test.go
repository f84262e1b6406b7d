package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"othello/internal/board"
	"othello/internal/core"
	"othello/internal/game"
)

func newTestService(t *testing.T, cfg Config) *Service {
	t.Helper()
	svc := New(cfg)
	t.Cleanup(func() {
		svc.Shutdown(time.Second)
	})
	return svc
}

func TestCreateAndGetGame(t *testing.T) {
	svc := newTestService(t, Config{})

	id, snap, err := svc.CreateGame("", core.ColorNone)
	if err != nil {
		t.Fatalf("CreateGame failed: %v", err)
	}
	if id == "" {
		t.Fatal("expected a game ID")
	}
	if snap.Board != board.New() {
		t.Error("expected starting board")
	}

	got, err := svc.GetGame(id)
	if err != nil {
		t.Fatalf("GetGame failed: %v", err)
	}
	if got.Version != snap.Version {
		t.Errorf("version mismatch: %d vs %d", got.Version, snap.Version)
	}
	if svc.GameCount() != 1 {
		t.Errorf("expected 1 game, got %d", svc.GameCount())
	}
}

func TestCreateGameFromPosition(t *testing.T) {
	svc := newTestService(t, Config{})

	_, snap, err := svc.CreateGame(board.StartingPosition, core.ColorWhite)
	if err != nil {
		t.Fatalf("CreateGame failed: %v", err)
	}
	if snap.Current != core.ColorWhite {
		t.Errorf("expected white to move, got %v", snap.Current)
	}

	if _, _, err := svc.CreateGame("not a board", core.ColorBlack); !errors.Is(err, board.ErrInvalidPosition) {
		t.Errorf("error = %v, want ErrInvalidPosition", err)
	}
}

func TestGameLimit(t *testing.T) {
	svc := newTestService(t, Config{MaxGames: 2})

	for i := 0; i < 2; i++ {
		if _, _, err := svc.CreateGame("", core.ColorNone); err != nil {
			t.Fatalf("CreateGame %d failed: %v", i, err)
		}
	}
	if _, _, err := svc.CreateGame("", core.ColorNone); !errors.Is(err, ErrResourceLimit) {
		t.Errorf("error = %v, want ErrResourceLimit", err)
	}
}

func TestUnknownGame(t *testing.T) {
	svc := newTestService(t, Config{})

	if _, err := svc.GetGame("missing"); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("GetGame error = %v", err)
	}
	if _, err := svc.SelectCell("missing", 2, 3); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("SelectCell error = %v", err)
	}
	if _, err := svc.Restart("missing"); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("Restart error = %v", err)
	}
	if err := svc.DeleteGame("missing"); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("DeleteGame error = %v", err)
	}
	if _, _, err := svc.Subscribe("missing", 1); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("Subscribe error = %v", err)
	}
}

func TestSelectCellAndRestart(t *testing.T) {
	svc := newTestService(t, Config{})
	id, _, _ := svc.CreateGame("", core.ColorNone)

	snap, err := svc.SelectCell(id, 2, 3)
	if err != nil {
		t.Fatalf("SelectCell failed: %v", err)
	}
	if snap.Current != core.ColorWhite {
		t.Errorf("expected white to move, got %v", snap.Current)
	}

	rejected, err := svc.SelectCell(id, 0, 0)
	if !errors.Is(err, game.ErrInvalidMove) {
		t.Errorf("error = %v, want ErrInvalidMove", err)
	}
	if rejected.Version != snap.Version {
		t.Error("rejected move changed the version")
	}

	restarted, err := svc.Restart(id)
	if err != nil {
		t.Fatalf("Restart failed: %v", err)
	}
	if restarted.Board != board.New() || restarted.Current != core.ColorBlack {
		t.Error("restart did not reset the game")
	}
}

func TestDeleteGame(t *testing.T) {
	svc := newTestService(t, Config{})
	id, _, _ := svc.CreateGame("", core.ColorNone)

	ch, cancel, err := svc.Subscribe(id, 1)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	if err := svc.DeleteGame(id); err != nil {
		t.Fatalf("DeleteGame failed: %v", err)
	}
	if _, ok := <-ch; ok {
		t.Error("expected subscription channel to be closed")
	}
	cancel() // no panic on double close

	if _, err := svc.GetGame(id); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("GetGame after delete error = %v", err)
	}
}

func TestSubscribe(t *testing.T) {
	svc := newTestService(t, Config{})
	id, _, _ := svc.CreateGame("", core.ColorNone)

	ch, cancel, err := svc.Subscribe(id, 4)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	defer cancel()

	svc.SelectCell(id, 2, 3)
	svc.SelectCell(id, 7, 7) // rejected
	svc.Restart(id)

	first := <-ch
	if first.Version != 2 || first.LastMove == nil {
		t.Errorf("unexpected first snapshot: version=%d", first.Version)
	}
	second := <-ch
	if second.Version != 3 || second.Board != board.New() {
		t.Errorf("unexpected second snapshot: version=%d", second.Version)
	}

	select {
	case extra := <-ch:
		t.Errorf("unexpected extra snapshot version %d", extra.Version)
	default:
	}
}

func TestSubscribeLatestWins(t *testing.T) {
	svc := newTestService(t, Config{})
	id, _, _ := svc.CreateGame("", core.ColorNone)

	ch, cancel, _ := svc.Subscribe(id, 1)
	defer cancel()

	for i := 0; i < 5; i++ {
		svc.Restart(id)
	}

	snap := <-ch
	if snap.Version != 6 {
		t.Errorf("expected latest version 6, got %d", snap.Version)
	}
}

func TestCleanupExpired(t *testing.T) {
	svc := newTestService(t, Config{GameTTL: time.Hour})

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	stale, _, _ := svc.CreateGame("", core.ColorNone)
	now = now.Add(90 * time.Minute)
	fresh, _, _ := svc.CreateGame("", core.ColorNone)

	if n := svc.cleanupExpired(); n != 1 {
		t.Fatalf("expected 1 eviction, got %d", n)
	}
	if _, err := svc.GetGame(stale); !errors.Is(err, ErrGameNotFound) {
		t.Error("stale game survived cleanup")
	}
	if _, err := svc.GetGame(fresh); err != nil {
		t.Errorf("fresh game evicted: %v", err)
	}
}

func TestRegisterWaitNotified(t *testing.T) {
	svc := newTestService(t, Config{})
	id, snap, _ := svc.CreateGame("", core.ColorNone)

	notify := svc.RegisterWait(context.Background(), id, snap.Version)
	svc.SelectCell(id, 2, 3)

	select {
	case <-notify:
	case <-time.After(time.Second):
		t.Fatal("waiter was not notified")
	}
}

func TestRegisterWaitStaleVersion(t *testing.T) {
	svc := newTestService(t, Config{WaitTimeout: 2 * time.Second})
	id, snap, _ := svc.CreateGame("", core.ColorNone)

	// The move commits before the client registers with the version it saw
	if _, err := svc.SelectCell(id, 2, 3); err != nil {
		t.Fatal(err)
	}

	select {
	case <-svc.RegisterWait(context.Background(), id, snap.Version):
	case <-time.After(500 * time.Millisecond):
		t.Fatal("waiter for a stale version blocked")
	}
	if svc.waiter.Count() != 0 {
		t.Errorf("stale waiter was registered: %d", svc.waiter.Count())
	}
}

func TestRegisterWaitUnknownGame(t *testing.T) {
	svc := newTestService(t, Config{WaitTimeout: 2 * time.Second})

	select {
	case <-svc.RegisterWait(context.Background(), "missing", 1):
	case <-time.After(500 * time.Millisecond):
		t.Fatal("waiter for a missing game blocked")
	}
}

func TestRegisterWaitTimeout(t *testing.T) {
	svc := newTestService(t, Config{WaitTimeout: 20 * time.Millisecond})
	id, snap, _ := svc.CreateGame("", core.ColorNone)

	notify := svc.RegisterWait(context.Background(), id, snap.Version)

	select {
	case <-notify:
	case <-time.After(time.Second):
		t.Fatal("waiter did not time out")
	}
}

func TestRegisterWaitCancelled(t *testing.T) {
	svc := newTestService(t, Config{})
	id, snap, _ := svc.CreateGame("", core.ColorNone)

	ctx, cancel := context.WithCancel(context.Background())
	svc.RegisterWait(ctx, id, snap.Version)
	if svc.waiter.Count() != 1 {
		t.Fatalf("expected 1 waiter, got %d", svc.waiter.Count())
	}

	cancel()
	deadline := time.Now().Add(time.Second)
	for svc.waiter.Count() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("cancelled waiter was not removed")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestShutdownReleasesWaiters(t *testing.T) {
	svc := New(Config{})
	id, snap, _ := svc.CreateGame("", core.ColorNone)
	notify := svc.RegisterWait(context.Background(), id, snap.Version)

	if err := svc.Shutdown(time.Second); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}

	select {
	case <-notify:
	default:
		t.Fatal("waiter not released on shutdown")
	}
	if svc.GameCount() != 0 {
		t.Errorf("expected no games after shutdown, got %d", svc.GameCount())
	}
}
