package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"othello/internal/board"
	"othello/internal/client/display"
	"othello/internal/core"

	"github.com/chzyer/readline"
)

type CommandType int

const (
	CmdNone CommandType = iota
	CmdCell
	CmdRestart
	CmdMoves
	CmdBoard
	CmdTheme
	CmdWait
	CmdPosition
	CmdClose
	CmdHelp
	CmdQuit
	CmdUnknown
)

type Command struct {
	Type CommandType
	Cell board.Position
	Args []string
	Raw  string
}

// LineReader is the subset of *readline.Instance the loop needs
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

type CLI struct {
	backend Backend
	input   LineReader
	output  io.Writer
	theme   display.Theme
	game    core.GameResponse
}

func New(backend Backend, input LineReader, output io.Writer) *CLI {
	return &CLI{
		backend: backend,
		input:   input,
		output:  output,
		theme:   display.ThemeOff,
	}
}

func (c *CLI) SetTheme(theme display.Theme) {
	c.theme = theme
}

// Run opens the table and reads commands until quit or end of input
func (c *CLI) Run() error {
	g, err := c.backend.Open()
	if err != nil {
		return fmt.Errorf("open game: %w", err)
	}
	c.game = g

	c.ShowWelcome()
	c.DisplayGame()

	for {
		c.input.SetPrompt(c.prompt())
		line, err := c.input.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if quit := c.handle(parseCommand(line)); quit {
			return nil
		}
	}
}

func (c *CLI) handle(cmd *Command) bool {
	switch cmd.Type {
	case CmdNone:
	case CmdQuit:
		return true
	case CmdHelp:
		c.ShowHelp()
	case CmdCell:
		resp, err := c.backend.SelectCell(cmd.Cell.Row, cmd.Cell.Col)
		if err != nil {
			c.ShowError(err)
			return false
		}
		c.game = resp.Game
		if resp.Accepted {
			c.ShowMessage(display.Move(resp.Game.LastMove, c.theme))
		}
		c.DisplayGame()
	case CmdRestart:
		g, err := c.backend.Restart()
		if err != nil {
			c.ShowError(err)
			return false
		}
		c.game = g
		c.DisplayGame()
	case CmdBoard:
		g, err := c.backend.State()
		if err != nil {
			c.ShowError(err)
			return false
		}
		c.game = g
		c.DisplayGame()
	case CmdWait:
		g, err := c.backend.Wait(c.game.Version)
		if err != nil {
			c.ShowError(err)
			return false
		}
		if g.Version == c.game.Version {
			c.ShowMessage("No change on the table")
			return false
		}
		c.game = g
		if g.LastMove != nil {
			c.ShowMessage(display.Move(g.LastMove, c.theme))
		}
		c.DisplayGame()
	case CmdPosition:
		pos, err := c.backend.Position()
		if err != nil {
			c.ShowError(err)
			return false
		}
		c.ShowMessage(pos)
	case CmdClose:
		if err := c.backend.Close(); err != nil {
			c.ShowError(err)
			return false
		}
		c.ShowMessage("Table closed")
		return true
	case CmdMoves:
		if c.game.GameOver {
			c.ShowMessage("Game over: no legal moves")
		} else {
			c.ShowMessage(fmt.Sprintf("Legal moves: %s", display.Cells(c.game.LegalMoves)))
		}
	case CmdTheme:
		if len(cmd.Args) != 1 {
			c.ShowMessage("Usage: theme <off|green|blue|gray>")
			return false
		}
		theme, err := display.ParseTheme(cmd.Args[0])
		if err != nil {
			c.ShowError(err)
			return false
		}
		c.theme = theme
		c.DisplayGame()
	default:
		c.ShowMessage(fmt.Sprintf("Unknown command %q. Enter a cell such as d3, or 'help'.", cmd.Raw))
	}
	return false
}

func parseCommand(input string) *Command {
	input = strings.TrimSpace(input)
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return &Command{Type: CmdNone}
	}

	args := parts[1:]
	switch strings.ToLower(parts[0]) {
	case "quit", "exit", "q":
		return &Command{Type: CmdQuit, Raw: input}
	case "help", "?":
		return &Command{Type: CmdHelp, Raw: input}
	case "restart", "reset":
		return &Command{Type: CmdRestart, Raw: input}
	case "moves":
		return &Command{Type: CmdMoves, Raw: input}
	case "board", "refresh":
		return &Command{Type: CmdBoard, Raw: input}
	case "wait", "w":
		return &Command{Type: CmdWait, Raw: input}
	case "position", "pos":
		return &Command{Type: CmdPosition, Raw: input}
	case "close":
		return &Command{Type: CmdClose, Raw: input}
	case "theme", "color":
		return &Command{Type: CmdTheme, Args: args, Raw: input}
	}

	pos, err := board.ParsePosition(input)
	if err != nil {
		return &Command{Type: CmdUnknown, Raw: input}
	}
	return &Command{Type: CmdCell, Cell: pos, Raw: input}
}

func (c *CLI) prompt() string {
	text := "othello [game over]"
	if !c.game.GameOver {
		text = fmt.Sprintf("othello [%s]", c.game.Turn)
	}
	if c.theme == display.ThemeOff {
		return text + " > "
	}
	return display.Prompt(text)
}

func (c *CLI) ShowMessage(msg string) {
	fmt.Fprintln(c.output, msg)
}

func (c *CLI) ShowError(err error) {
	c.ShowMessage(display.Paint(c.theme, display.Red, fmt.Sprintf("Error: %v", err)))
}

func (c *CLI) DisplayGame() {
	fmt.Fprintln(c.output)
	fmt.Fprint(c.output, display.RenderBoard(c.game, c.theme))
	c.ShowMessage(display.Status(c.game, c.theme))
}

func (c *CLI) ShowHelp() {
	help := `Commands:
  <cell>           - Place a disc (e.g., d3, or zero-based "2 3")
  moves            - List legal cells for the side to move
  board            - Refresh and redraw the board
  wait             - Wait for the other side to move on a shared table
  position         - Print the board as B/W/. rows
  close            - Remove the table and exit
  restart          - Start over from the opening position
  theme <name>     - Set board color theme (off|green|blue|gray)
  quit/exit        - Exit the program
  help/?           - Show this help message

Cells marked * are legal. Other cells are ignored.`

	c.ShowMessage(help)
}

func (c *CLI) ShowWelcome() {
	c.ShowMessage("Welcome to Othello!")
	c.ShowMessage("Black moves first. Enter a cell such as d3, or 'help' for commands.")
}
