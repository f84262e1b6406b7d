package processor

import (
	"othello/internal/core"
)

// CommandType defines the type of command being executed
type CommandType int

const (
	CmdCreateGame CommandType = iota
	CmdGetGame
	CmdSelectCell
	CmdRestart
	CmdDeleteGame
	CmdGetBoard
)

func (t CommandType) String() string {
	switch t {
	case CmdCreateGame:
		return "create-game"
	case CmdGetGame:
		return "get-game"
	case CmdSelectCell:
		return "select-cell"
	case CmdRestart:
		return "restart"
	case CmdDeleteGame:
		return "delete-game"
	case CmdGetBoard:
		return "get-board"
	default:
		return "unknown"
	}
}

// Command is a unified structure for all processor operations
type Command struct {
	Type   CommandType
	GameID string // For game-specific commands
	Args   any    // Command-specific arguments
}

// ProcessorResponse wraps the response with metadata
type ProcessorResponse struct {
	Success bool                `json:"success"`
	Data    any                 `json:"data,omitempty"`
	Error   *core.ErrorResponse `json:"error,omitempty"`
}

func NewCreateGameCommand(req core.CreateGameRequest) Command {
	return Command{
		Type: CmdCreateGame,
		Args: req,
	}
}

func NewGetGameCommand(gameID string) Command {
	return Command{
		Type:   CmdGetGame,
		GameID: gameID,
	}
}

func NewSelectCellCommand(gameID string, row, col int) Command {
	return Command{
		Type:   CmdSelectCell,
		GameID: gameID,
		Args:   core.SelectCellRequest{Row: &row, Col: &col},
	}
}

func NewRestartCommand(gameID string) Command {
	return Command{
		Type:   CmdRestart,
		GameID: gameID,
	}
}

func NewDeleteGameCommand(gameID string) Command {
	return Command{
		Type:   CmdDeleteGame,
		GameID: gameID,
	}
}

func NewGetBoardCommand(gameID string) Command {
	return Command{
		Type:   CmdGetBoard,
		GameID: gameID,
	}
}
