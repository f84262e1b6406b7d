// Package engine implements the Othello rules: move legality, flipping,
// turn advancement with forced passes, and end-of-game scoring.
// All functions are pure; boards are passed and returned by value.
package engine

import (
	"errors"

	"othello/internal/board"
	"othello/internal/core"
)

var ErrIllegalMove = errors.New("illegal move")

// GameState is a consistent snapshot of a game in progress
type GameState struct {
	Board    board.Board `json:"board"`
	Current  core.Color  `json:"current"`
	GameOver bool        `json:"gameOver"`
	Winner   core.Winner `json:"winner"`
}

// State reports the turn state machine position
func (s GameState) State() core.State {
	return core.StateOf(s.Current, s.GameOver)
}

// Result describes one applied move
type Result struct {
	Move    board.Position
	Player  core.Color
	Flipped []board.Position
	// Passed is the player skipped by a forced pass after this move
	Passed core.Color
}

// Initialize returns the standard starting state with black to move
func Initialize() GameState {
	return GameState{
		Board:   board.New(),
		Current: core.ColorBlack,
		Winner:  core.WinnerNone,
	}
}

// IsValidMove reports whether player may place at (row, col): the cell must be
// empty and at least one direction must bound a run of opponent discs.
func IsValidMove(b *board.Board, player core.Color, row, col int) bool {
	if !isPlayer(player) || !board.InBounds(row, col) || b.At(row, col) != core.ColorNone {
		return false
	}
	for _, dir := range board.Directions {
		if run(b, player, row, col, dir) > 0 {
			return true
		}
	}
	return false
}

// Flips returns every cell a placement at (row, col) would flip, nil if illegal
func Flips(b *board.Board, player core.Color, row, col int) []board.Position {
	if !isPlayer(player) || !board.InBounds(row, col) || b.At(row, col) != core.ColorNone {
		return nil
	}

	var flips []board.Position
	for _, dir := range board.Directions {
		n := run(b, player, row, col, dir)
		for i := 1; i <= n; i++ {
			flips = append(flips, board.Position{Row: row + dir.DRow*i, Col: col + dir.DCol*i})
		}
	}
	return flips
}

// ApplyMove places player's disc at (row, col) and flips every bounded run.
// The input board is never modified; an illegal move returns it with ErrIllegalMove.
func ApplyMove(b board.Board, player core.Color, row, col int) (board.Board, []board.Position, error) {
	flips := Flips(&b, player, row, col)
	if len(flips) == 0 {
		return b, nil, ErrIllegalMove
	}

	next := b
	next.Set(row, col, player)
	for _, p := range flips {
		next.Set(p.Row, p.Col, player)
	}
	return next, flips, nil
}

// LegalMoves lists the legal placements for player in row-major order
func LegalMoves(b *board.Board, player core.Color) []board.Position {
	var moves []board.Position
	for r := 0; r < board.Size; r++ {
		for f := 0; f < board.Size; f++ {
			if IsValidMove(b, player, r, f) {
				moves = append(moves, board.Position{Row: r, Col: f})
			}
		}
	}
	return moves
}

func HasLegalMove(b *board.Board, player core.Color) bool {
	for r := 0; r < board.Size; r++ {
		for f := 0; f < board.Size; f++ {
			if IsValidMove(b, player, r, f) {
				return true
			}
		}
	}
	return false
}

// AdvanceTurn decides who moves after mover has played: the opponent if it has
// a legal move, otherwise mover again, otherwise the game is over.
func AdvanceTurn(state GameState, mover core.Color) GameState {
	next := core.Opponent(mover)

	switch {
	case HasLegalMove(&state.Board, next):
		state.Current = next
	case HasLegalMove(&state.Board, mover):
		state.Current = mover
	default:
		state.Current = mover
		state.GameOver = true
		state.Winner = DecideWinner(&state.Board)
	}
	return state
}

// Play validates, applies and advances in one step. On error state is returned unchanged.
func Play(state GameState, row, col int) (GameState, Result, error) {
	if state.GameOver {
		return state, Result{}, ErrIllegalMove
	}

	mover := state.Current
	next, flips, err := ApplyMove(state.Board, mover, row, col)
	if err != nil {
		return state, Result{}, err
	}

	advanced := AdvanceTurn(GameState{Board: next, Current: mover}, mover)

	result := Result{
		Move:    board.Position{Row: row, Col: col},
		Player:  mover,
		Flipped: flips,
	}
	if !advanced.GameOver && advanced.Current == mover {
		result.Passed = core.Opponent(mover)
	}
	return advanced, result, nil
}

// Score counts discs per color
func Score(b *board.Board) (black, white int) {
	return b.Counts()
}

// DecideWinner compares disc counts; equal counts are a draw
func DecideWinner(b *board.Board) core.Winner {
	black, white := Score(b)
	switch {
	case black > white:
		return core.WinnerBlack
	case white > black:
		return core.WinnerWhite
	default:
		return core.WinnerDraw
	}
}

// run returns the length of the opponent run starting next to (row, col) in dir
// when it is closed by one of player's discs, 0 otherwise.
func run(b *board.Board, player core.Color, row, col int, dir board.Direction) int {
	opponent := core.Opponent(player)
	r, f := row+dir.DRow, col+dir.DCol
	n := 0

	for board.InBounds(r, f) && b.At(r, f) == opponent {
		r += dir.DRow
		f += dir.DCol
		n++
	}

	if n > 0 && board.InBounds(r, f) && b.At(r, f) == player {
		return n
	}
	return 0
}

func isPlayer(c core.Color) bool {
	return c == core.ColorBlack || c == core.ColorWhite
}
