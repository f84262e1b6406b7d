package mcp

import (
	"context"
	"strings"
	"testing"
	"time"

	"othello/internal/processor"
	"othello/internal/service"

	"github.com/mark3labs/mcp-go/mcp"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	svc := service.New(service.Config{MaxGames: 5})
	t.Cleanup(func() { svc.Shutdown(time.Second) })
	return NewServer(processor.New(svc), "test")
}

type toolHandler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

func call(t *testing.T, handler toolHandler, name string, args map[string]interface{}) (string, bool) {
	t.Helper()
	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}

	result, err := handler(context.Background(), request)
	if err != nil {
		t.Fatalf("%s failed: %v", name, err)
	}
	if result == nil || len(result.Content) == 0 {
		t.Fatalf("%s: empty result", name)
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("%s: expected text content", name)
	}
	return text.Text, result.IsError
}

func TestNoGameYet(t *testing.T) {
	s := newTestServer(t)

	text, isErr := call(t, s.handleGameState, "game_state", map[string]interface{}{})
	if !isErr || !strings.Contains(text, "new_game") {
		t.Errorf("game_state without game = %q (error %v)", text, isErr)
	}
}

func TestNewGameAndLegalMoves(t *testing.T) {
	s := newTestServer(t)

	text, isErr := call(t, s.handleNewGame, "new_game", map[string]interface{}{})
	if isErr {
		t.Fatalf("new_game error: %s", text)
	}
	if !strings.Contains(text, "Created game:") || !strings.Contains(text, "To move: black") {
		t.Errorf("new_game = %q", text)
	}

	text, _ = call(t, s.handleLegalMoves, "legal_moves", nil)
	if !strings.Contains(text, "d3, c4, f5, e6") {
		t.Errorf("legal_moves = %q", text)
	}
}

func TestNewGameBadPosition(t *testing.T) {
	s := newTestServer(t)

	_, isErr := call(t, s.handleNewGame, "new_game", map[string]interface{}{"position": "nope"})
	if !isErr {
		t.Error("expected error for malformed position")
	}
}

func TestSelectCell(t *testing.T) {
	s := newTestServer(t)
	call(t, s.handleNewGame, "new_game", nil)

	text, isErr := call(t, s.handleSelectCell, "select_cell", map[string]interface{}{"cell": "d3"})
	if isErr {
		t.Fatalf("select_cell error: %s", text)
	}
	if !strings.Contains(text, "black played d3, flipping 1: d4") {
		t.Errorf("select_cell = %q", text)
	}
	if !strings.Contains(text, "To move: white") {
		t.Errorf("expected white to move: %q", text)
	}

	text, isErr = call(t, s.handleSelectCell, "select_cell", map[string]interface{}{"row": float64(0), "col": float64(0)})
	if isErr || !strings.Contains(text, "a1 is not a legal move") {
		t.Errorf("illegal select_cell = %q (error %v)", text, isErr)
	}

	_, isErr = call(t, s.handleSelectCell, "select_cell", map[string]interface{}{"row": float64(9), "col": float64(0)})
	if !isErr {
		t.Error("expected error for off-board row")
	}

	text, isErr = call(t, s.handleSelectCell, "select_cell", map[string]interface{}{"row": 2.9, "col": float64(3)})
	if !isErr || !strings.Contains(text, "whole numbers") {
		t.Errorf("fractional row = %q (error %v)", text, isErr)
	}

	_, isErr = call(t, s.handleSelectCell, "select_cell", map[string]interface{}{})
	if !isErr {
		t.Error("expected error without a cell")
	}
}

func TestForcedPassAndGameOver(t *testing.T) {
	s := newTestServer(t)

	// White has no reply after black takes c1, so the game ends 3-0
	call(t, s.handleNewGame, "new_game", map[string]interface{}{
		"position": "BW....../......../......../......../......../......../......../........",
	})
	text, _ := call(t, s.handleSelectCell, "select_cell", map[string]interface{}{"cell": "c1"})
	if !strings.Contains(text, "Game over: black wins") {
		t.Errorf("select_cell = %q", text)
	}

	text, _ = call(t, s.handleLegalMoves, "legal_moves", nil)
	if !strings.Contains(text, "Game over") {
		t.Errorf("legal_moves = %q", text)
	}
}

func TestRestartAndExplicitGameID(t *testing.T) {
	s := newTestServer(t)
	call(t, s.handleNewGame, "new_game", nil)
	first := s.current
	call(t, s.handleSelectCell, "select_cell", map[string]interface{}{"cell": "d3"})

	// A second game becomes current; the first stays addressable
	call(t, s.handleNewGame, "new_game", nil)
	if s.current == first {
		t.Fatal("current game not updated")
	}

	text, isErr := call(t, s.handleRestart, "restart_game", map[string]interface{}{"game_id": first})
	if isErr || !strings.Contains(text, "Score: black 2, white 2") {
		t.Errorf("restart_game = %q", text)
	}

	_, isErr = call(t, s.handleGameState, "game_state", map[string]interface{}{"game_id": "missing"})
	if !isErr {
		t.Error("expected error for unknown game")
	}
}
