package processor

import (
	"errors"
	"log"
	"strings"

	"othello/internal/board"
	"othello/internal/core"
	"othello/internal/game"
	"othello/internal/service"
)

// Processor executes commands against the service on behalf of every transport
type Processor struct {
	svc *service.Service
}

// New creates a processor bound to a service
func New(svc *service.Service) *Processor {
	return &Processor{svc: svc}
}

// Service exposes the underlying service for transports that stream state
func (p *Processor) Service() *service.Service {
	return p.svc
}

func (p *Processor) Execute(cmd Command) ProcessorResponse {
	switch cmd.Type {
	case CmdCreateGame:
		return p.handleCreateGame(cmd)
	case CmdGetGame:
		return p.handleGetGame(cmd)
	case CmdSelectCell:
		return p.handleSelectCell(cmd)
	case CmdRestart:
		return p.handleRestart(cmd)
	case CmdDeleteGame:
		return p.handleDeleteGame(cmd)
	case CmdGetBoard:
		return p.handleGetBoard(cmd)
	default:
		return p.errorResponse("unknown command", core.ErrInvalidRequest)
	}
}

// handleCreateGame creates a new game, optionally from a position
func (p *Processor) handleCreateGame(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.CreateGameRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	var toMove core.Color
	toMove.UnmarshalText([]byte(args.ToMove))

	gameID, snap, err := p.svc.CreateGame(strings.TrimSpace(args.Position), toMove)
	if err != nil {
		return p.serviceError(err)
	}

	log.Printf("game %s created (%s)", gameID, snap.State())

	return ProcessorResponse{
		Success: true,
		Data:    BuildGameResponse(gameID, snap),
	}
}

// handleGetGame retrieves game state
func (p *Processor) handleGetGame(cmd Command) ProcessorResponse {
	snap, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.serviceError(err)
	}

	return ProcessorResponse{
		Success: true,
		Data:    BuildGameResponse(cmd.GameID, snap),
	}
}

// handleSelectCell forwards a cell selection. Illegal cells are not errors:
// the response reports accepted=false with the unchanged game.
func (p *Processor) handleSelectCell(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.SelectCellRequest)
	if !ok || args.Row == nil || args.Col == nil {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	snap, err := p.svc.SelectCell(cmd.GameID, *args.Row, *args.Col)
	accepted := err == nil
	if err != nil && !errors.Is(err, game.ErrInvalidMove) && !errors.Is(err, game.ErrGameOver) {
		return p.serviceError(err)
	}

	if accepted && snap.GameOver {
		log.Printf("game %s over: winner %s (%d-%d)", cmd.GameID, snap.Winner, snap.Black, snap.White)
	}

	return ProcessorResponse{
		Success: true,
		Data: core.SelectCellResponse{
			Accepted: accepted,
			Game:     BuildGameResponse(cmd.GameID, snap),
		},
	}
}

// handleRestart resets a game to the opening position
func (p *Processor) handleRestart(cmd Command) ProcessorResponse {
	snap, err := p.svc.Restart(cmd.GameID)
	if err != nil {
		return p.serviceError(err)
	}

	return ProcessorResponse{
		Success: true,
		Data:    BuildGameResponse(cmd.GameID, snap),
	}
}

// handleDeleteGame removes a game
func (p *Processor) handleDeleteGame(cmd Command) ProcessorResponse {
	if err := p.svc.DeleteGame(cmd.GameID); err != nil {
		return p.serviceError(err)
	}

	return ProcessorResponse{
		Success: true,
	}
}

// handleGetBoard returns board visualization
func (p *Processor) handleGetBoard(cmd Command) ProcessorResponse {
	snap, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.serviceError(err)
	}

	return ProcessorResponse{
		Success: true,
		Data: core.BoardResponse{
			Position: snap.Board.Encode(),
			Board:    snap.Board.ASCII(),
		},
	}
}

// BuildGameResponse constructs the standard game response from a snapshot
func BuildGameResponse(gameID string, snap game.Snapshot) core.GameResponse {
	resp := core.GameResponse{
		GameID:     gameID,
		Version:    snap.Version,
		Board:      snap.Board.Grid(),
		Position:   snap.Board.Encode(),
		Turn:       snap.Current,
		State:      snap.State().String(),
		GameOver:   snap.GameOver,
		Winner:     snap.Winner,
		Score:      core.ScoreResponse{Black: snap.Black, White: snap.White},
		LegalMoves: cells(snap.LegalMoves),
		UpdatedAt:  snap.UpdatedAt,
	}

	if m := snap.LastMove; m != nil {
		resp.LastMove = &core.MoveInfo{
			Cell:    cell(m.Move),
			Player:  m.Player,
			Flipped: cells(m.Flipped),
			Passed:  m.Passed,
		}
	}

	return resp
}

func cell(p board.Position) core.Cell {
	return core.Cell{Row: p.Row, Col: p.Col, Name: p.Name()}
}

func cells(ps []board.Position) []core.Cell {
	out := make([]core.Cell, 0, len(ps))
	for _, p := range ps {
		out = append(out, cell(p))
	}
	return out
}

// serviceError maps service and board errors onto API error codes
func (p *Processor) serviceError(err error) ProcessorResponse {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return p.errorResponse("game not found", core.ErrGameNotFound)
	case errors.Is(err, service.ErrResourceLimit):
		return p.errorResponse(err.Error(), core.ErrResourceLimit)
	case errors.Is(err, board.ErrInvalidPosition):
		return p.errorResponse(err.Error(), core.ErrInvalidPosition)
	default:
		log.Printf("processor: unexpected error: %v", err)
		return p.errorResponse("internal error", core.ErrInternalError)
	}
}

// errorResponse creates error response
func (p *Processor) errorResponse(message, code string) ProcessorResponse {
	return ProcessorResponse{
		Success: false,
		Error: &core.ErrorResponse{
			Error: message,
			Code:  code,
		},
	}
}
