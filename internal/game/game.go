package game

import (
	"errors"
	"time"

	"othello/internal/board"
	"othello/internal/core"
	"othello/internal/engine"
)

var (
	ErrInvalidMove = errors.New("invalid move")
	ErrGameOver    = errors.New("game is over")
)

// Snapshot is an immutable view of the game after a transition
type Snapshot struct {
	Version    uint64           `json:"version"`
	Board      board.Board      `json:"board"`
	Current    core.Color       `json:"current"`
	GameOver   bool             `json:"gameOver"`
	Winner     core.Winner      `json:"winner"`
	Black      int              `json:"black"`
	White      int              `json:"white"`
	LegalMoves []board.Position `json:"legalMoves"`
	LastMove   *engine.Result   `json:"lastMove,omitempty"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}

// State reports the turn state machine position
func (s Snapshot) State() core.State {
	return core.StateOf(s.Current, s.GameOver)
}

// IsLegal checks the cached legal-move set of the side to move
func (s Snapshot) IsLegal(row, col int) bool {
	for _, m := range s.LegalMoves {
		if m.Row == row && m.Col == col {
			return true
		}
	}
	return false
}

// Game owns one mutable GameState. It is not safe for concurrent use; callers serialise access.
type Game struct {
	state     engine.GameState
	version   uint64
	snapshot  Snapshot
	listeners []*listener
}

type listener struct {
	fn func(Snapshot)
}

// New creates a game at the standard starting position
func New() *Game {
	g := &Game{state: engine.Initialize()}
	g.commit(nil)
	return g
}

// FromBoard creates a game from an arbitrary position. If toMove cannot move the
// turn passes, and a position where neither side can move starts as game over.
func FromBoard(b board.Board, toMove core.Color) *Game {
	if toMove != core.ColorWhite {
		toMove = core.ColorBlack
	}

	state := engine.GameState{Board: b, Current: toMove}
	if !engine.HasLegalMove(&b, toMove) {
		state = engine.AdvanceTurn(state, toMove)
	}

	g := &Game{state: state}
	g.commit(nil)
	return g
}

// Snapshot returns the current immutable snapshot
func (g *Game) Snapshot() Snapshot {
	return g.snapshot
}

// Version increments on every committed transition
func (g *Game) Version() uint64 {
	return g.version
}

// SelectCell runs validate, apply and advance for the side to move. A rejected
// move leaves state and version untouched.
func (g *Game) SelectCell(row, col int) (Snapshot, error) {
	if g.state.GameOver {
		return g.snapshot, ErrGameOver
	}
	if !g.snapshot.IsLegal(row, col) {
		return g.snapshot, ErrInvalidMove
	}

	next, result, err := engine.Play(g.state, row, col)
	if err != nil {
		return g.snapshot, ErrInvalidMove
	}

	g.state = next
	g.commit(&result)
	return g.snapshot, nil
}

// Restart discards all state and returns to the starting position
func (g *Game) Restart() Snapshot {
	g.state = engine.Initialize()
	g.commit(nil)
	return g.snapshot
}

// Subscribe registers fn to receive every committed snapshot. The returned
// function removes the subscription.
func (g *Game) Subscribe(fn func(Snapshot)) func() {
	l := &listener{fn: fn}
	g.listeners = append(g.listeners, l)

	return func() {
		for i, other := range g.listeners {
			if other == l {
				g.listeners = append(g.listeners[:i:i], g.listeners[i+1:]...)
				return
			}
		}
	}
}

func (g *Game) commit(result *engine.Result) {
	g.version++

	black, white := engine.Score(&g.state.Board)
	snap := Snapshot{
		Version:   g.version,
		Board:     g.state.Board,
		Current:   g.state.Current,
		GameOver:  g.state.GameOver,
		Winner:    g.state.Winner,
		Black:     black,
		White:     white,
		LastMove:  result,
		UpdatedAt: time.Now().UTC(),
	}
	if !snap.GameOver {
		snap.LegalMoves = engine.LegalMoves(&g.state.Board, g.state.Current)
	}
	g.snapshot = snap

	// Copy so listeners may unsubscribe while being notified
	listeners := append([]*listener(nil), g.listeners...)
	for _, l := range listeners {
		l.fn(snap)
	}
}
