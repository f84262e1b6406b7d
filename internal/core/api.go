package core

import "time"

// Request types

type CreateGameRequest struct {
	// Position is an optional starting board: 8 rows of '.', 'B', 'W' joined by '/'
	Position string `json:"position,omitempty" validate:"omitempty,max=80"`
	// ToMove selects the side to move when Position is given, defaults to black
	ToMove string `json:"toMove,omitempty" validate:"omitempty,oneof=black white"`
}

// SelectCellRequest uses pointers so that row 0 and column 0 pass "required"
type SelectCellRequest struct {
	Row *int `json:"row" validate:"required,min=0,max=7"`
	Col *int `json:"col" validate:"required,min=0,max=7"`
}

// Response types

type Cell struct {
	Row  int    `json:"row"`
	Col  int    `json:"col"`
	Name string `json:"name"`
}

type ScoreResponse struct {
	Black int `json:"black"`
	White int `json:"white"`
}

type GameResponse struct {
	GameID     string        `json:"gameId"`
	Version    uint64        `json:"version"`
	Board      [][]Color     `json:"board"`
	Position   string        `json:"position"`
	Turn       Color         `json:"turn"`
	State      string        `json:"state"`
	GameOver   bool          `json:"gameOver"`
	Winner     Winner        `json:"winner"`
	Score      ScoreResponse `json:"score"`
	LegalMoves []Cell        `json:"legalMoves"`
	LastMove   *MoveInfo     `json:"lastMove,omitempty"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}

type MoveInfo struct {
	Cell    Cell   `json:"cell"`
	Player  Color  `json:"player"`
	Flipped []Cell `json:"flipped"`
	// Passed is the player whose turn was skipped after this move, if any
	Passed Color `json:"passed,omitempty"`
}

type SelectCellResponse struct {
	Accepted bool         `json:"accepted"`
	Game     GameResponse `json:"game"`
}

type BoardResponse struct {
	Position string `json:"position"`
	Board    string `json:"board"` // ASCII representation
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

// StreamMessage is one websocket frame of the game stream
type StreamMessage struct {
	Event string         `json:"event"` // "state" or "error"
	Game  *GameResponse  `json:"game,omitempty"`
	Error *ErrorResponse `json:"error,omitempty"`
}
