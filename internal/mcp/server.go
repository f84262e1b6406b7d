package mcp

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"othello/internal/board"
	"othello/internal/core"
	"othello/internal/processor"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server exposes the processor as MCP tools. Tools that take a game_id fall
// back to the most recently created game when it is omitted.
type Server struct {
	proc      *processor.Processor
	mcpServer *server.MCPServer

	mu      sync.Mutex
	current string
}

// NewServer creates an MCP server bound to an in-process processor
func NewServer(proc *processor.Processor, version string) *Server {
	s := &Server{proc: proc}

	s.mcpServer = server.NewMCPServer(
		"Othello",
		version,
		server.WithToolCapabilities(true),
		server.WithInstructions(`Othello - MCP Interface

Two players, black and white, place discs on an 8x8 board. A disc must
outflank at least one line of opponent discs, which then flip. Black moves
first. A player with no legal move passes; the game ends when neither side
can move and the player with more discs wins.

Cells are named by column letter and row number ("d3" is row 2, column 3,
zero-based). Illegal cells are ignored and leave the game unchanged.

AVAILABLE TOOLS:
- new_game: Start a new game (optionally from a position)
- game_state: Board, side to move, score and legal moves
- select_cell: Place a disc for the side to move
- legal_moves: List legal cells for the side to move
- restart_game: Reset a game to the opening position`),
	)

	s.registerTools()
	return s
}

// ServeStdio serves MCP over stdin/stdout until stdin closes
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func gameIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Game ID (optional, defaults to the last game created)",
	}
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "new_game",
		Description: "Start a new game from the standard opening or from a position",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"position": map[string]interface{}{
					"type":        "string",
					"description": "Optional board: 8 rows of '.', 'B', 'W' joined by '/'",
				},
				"to_move": map[string]interface{}{
					"type":        "string",
					"description": "Side to move when position is given",
					"enum":        []string{"black", "white"},
				},
			},
		},
	}, s.handleNewGame)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the board, side to move, score and legal moves",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": gameIDProperty(),
			},
		},
	}, s.handleGameState)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "select_cell",
		Description: "Place a disc for the side to move. Give either cell (\"d3\") or row and col (0-7).",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": gameIDProperty(),
				"cell": map[string]interface{}{
					"type":        "string",
					"description": "Cell name such as d3",
				},
				"row": map[string]interface{}{
					"type":        "number",
					"description": "Zero-based row",
				},
				"col": map[string]interface{}{
					"type":        "number",
					"description": "Zero-based column",
				},
			},
		},
	}, s.handleSelectCell)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "legal_moves",
		Description: "List the legal cells for the side to move",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": gameIDProperty(),
			},
		},
	}, s.handleLegalMoves)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "restart_game",
		Description: "Reset a game to the opening position",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": gameIDProperty(),
			},
		},
	}, s.handleRestart)
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		args = map[string]interface{}{}
	}
	return args
}

// gameID resolves the game_id argument or the current game
func (s *Server) gameID(args map[string]interface{}) (string, error) {
	if id, _ := args["game_id"].(string); id != "" {
		return id, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == "" {
		return "", fmt.Errorf("no game: call new_game first or pass game_id")
	}
	return s.current, nil
}

func (s *Server) handleNewGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	position, _ := args["position"].(string)
	toMove, _ := args["to_move"].(string)

	resp := s.proc.Execute(processor.NewCreateGameCommand(core.CreateGameRequest{
		Position: position,
		ToMove:   toMove,
	}))
	if !resp.Success {
		return mcp.NewToolResultError(resp.Error.Error), nil
	}

	game := resp.Data.(core.GameResponse)
	s.mu.Lock()
	s.current = game.GameID
	s.mu.Unlock()

	return mcp.NewToolResultText(fmt.Sprintf("Created game: %s\n\n%s", game.GameID, formatGame(game))), nil
}

func (s *Server) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	game, err := s.fetch(arguments(request))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatGame(game)), nil
}

func (s *Server) handleSelectCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	gameID, err := s.gameID(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	pos, err := cellArgument(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resp := s.proc.Execute(processor.NewSelectCellCommand(gameID, pos.Row, pos.Col))
	if !resp.Success {
		return mcp.NewToolResultError(resp.Error.Error), nil
	}

	result := resp.Data.(core.SelectCellResponse)
	var sb strings.Builder
	if result.Accepted {
		sb.WriteString(formatMove(result.Game.LastMove))
	} else {
		fmt.Fprintf(&sb, "%s is not a legal move; game unchanged.\n", pos.Name())
	}
	sb.WriteString("\n")
	sb.WriteString(formatGame(result.Game))

	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) handleLegalMoves(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	game, err := s.fetch(arguments(request))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if game.GameOver {
		return mcp.NewToolResultText("Game over: no legal moves."), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Legal moves for %s: %s", game.Turn, cellNames(game.LegalMoves))), nil
}

func (s *Server) handleRestart(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	gameID, err := s.gameID(arguments(request))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resp := s.proc.Execute(processor.NewRestartCommand(gameID))
	if !resp.Success {
		return mcp.NewToolResultError(resp.Error.Error), nil
	}
	return mcp.NewToolResultText("Game restarted.\n\n" + formatGame(resp.Data.(core.GameResponse))), nil
}

func (s *Server) fetch(args map[string]interface{}) (core.GameResponse, error) {
	gameID, err := s.gameID(args)
	if err != nil {
		return core.GameResponse{}, err
	}

	resp := s.proc.Execute(processor.NewGetGameCommand(gameID))
	if !resp.Success {
		return core.GameResponse{}, fmt.Errorf("%s", resp.Error.Error)
	}
	return resp.Data.(core.GameResponse), nil
}

// cellArgument reads either "cell" or numeric "row" and "col"
func cellArgument(args map[string]interface{}) (board.Position, error) {
	if name, _ := args["cell"].(string); name != "" {
		return board.ParsePosition(name)
	}

	row, rowOK := args["row"].(float64)
	col, colOK := args["col"].(float64)
	if !rowOK || !colOK {
		return board.Position{}, fmt.Errorf("cell or row and col required")
	}
	if row != math.Trunc(row) || col != math.Trunc(col) {
		return board.Position{}, fmt.Errorf("row and col must be whole numbers")
	}
	pos := board.Position{Row: int(row), Col: int(col)}
	if !board.InBounds(pos.Row, pos.Col) {
		return board.Position{}, fmt.Errorf("row and col must be between 0 and %d", board.Size-1)
	}
	return pos, nil
}
