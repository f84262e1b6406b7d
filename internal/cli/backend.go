package cli

import (
	"fmt"

	"othello/internal/client/api"
	"othello/internal/core"
	"othello/internal/processor"
)

// Backend drives one table, either in-process or through the HTTP API
type Backend interface {
	// Open starts or joins the table and returns its state
	Open() (core.GameResponse, error)
	State() (core.GameResponse, error)
	SelectCell(row, col int) (core.SelectCellResponse, error)
	Restart() (core.GameResponse, error)
	// Wait returns once the table moves past version or the wait times out
	Wait(version uint64) (core.GameResponse, error)
	// Position returns the board in '.', 'B', 'W' row notation
	Position() (string, error)
	// Close removes the table
	Close() error
}

// LocalBackend executes commands on an in-process processor
type LocalBackend struct {
	proc   *processor.Processor
	gameID string
}

func NewLocalBackend(proc *processor.Processor) *LocalBackend {
	return &LocalBackend{proc: proc}
}

func (b *LocalBackend) execute(cmd processor.Command) (interface{}, error) {
	resp := b.proc.Execute(cmd)
	if !resp.Success {
		return nil, fmt.Errorf("%s (%s)", resp.Error.Error, resp.Error.Code)
	}
	return resp.Data, nil
}

func (b *LocalBackend) Open() (core.GameResponse, error) {
	data, err := b.execute(processor.NewCreateGameCommand(core.CreateGameRequest{}))
	if err != nil {
		return core.GameResponse{}, err
	}
	g := data.(core.GameResponse)
	b.gameID = g.GameID
	return g, nil
}

func (b *LocalBackend) State() (core.GameResponse, error) {
	data, err := b.execute(processor.NewGetGameCommand(b.gameID))
	if err != nil {
		return core.GameResponse{}, err
	}
	return data.(core.GameResponse), nil
}

func (b *LocalBackend) SelectCell(row, col int) (core.SelectCellResponse, error) {
	data, err := b.execute(processor.NewSelectCellCommand(b.gameID, row, col))
	if err != nil {
		return core.SelectCellResponse{}, err
	}
	return data.(core.SelectCellResponse), nil
}

func (b *LocalBackend) Restart() (core.GameResponse, error) {
	data, err := b.execute(processor.NewRestartCommand(b.gameID))
	if err != nil {
		return core.GameResponse{}, err
	}
	return data.(core.GameResponse), nil
}

// Wait returns the current state: a local table has no other players to wait for
func (b *LocalBackend) Wait(version uint64) (core.GameResponse, error) {
	return b.State()
}

func (b *LocalBackend) Position() (string, error) {
	data, err := b.execute(processor.NewGetBoardCommand(b.gameID))
	if err != nil {
		return "", err
	}
	return data.(core.BoardResponse).Position, nil
}

func (b *LocalBackend) Close() error {
	_, err := b.execute(processor.NewDeleteGameCommand(b.gameID))
	return err
}

// RemoteBackend plays a table hosted by othello-server
type RemoteBackend struct {
	client *api.Client
	gameID string
}

// NewRemoteBackend joins gameID, or creates a table on Open when gameID is empty
func NewRemoteBackend(client *api.Client, gameID string) *RemoteBackend {
	return &RemoteBackend{client: client, gameID: gameID}
}

func (b *RemoteBackend) Open() (core.GameResponse, error) {
	if b.gameID != "" {
		return b.State()
	}
	g, err := b.client.CreateGame(core.CreateGameRequest{})
	if err != nil {
		return core.GameResponse{}, err
	}
	b.gameID = g.GameID
	return *g, nil
}

func (b *RemoteBackend) State() (core.GameResponse, error) {
	g, err := b.client.GetGame(b.gameID)
	if err != nil {
		return core.GameResponse{}, err
	}
	return *g, nil
}

func (b *RemoteBackend) SelectCell(row, col int) (core.SelectCellResponse, error) {
	r, err := b.client.SelectCell(b.gameID, row, col)
	if err != nil {
		return core.SelectCellResponse{}, err
	}
	return *r, nil
}

func (b *RemoteBackend) Restart() (core.GameResponse, error) {
	g, err := b.client.Restart(b.gameID)
	if err != nil {
		return core.GameResponse{}, err
	}
	return *g, nil
}

func (b *RemoteBackend) Wait(version uint64) (core.GameResponse, error) {
	g, err := b.client.WaitForUpdate(b.gameID, version)
	if err != nil {
		return core.GameResponse{}, err
	}
	return *g, nil
}

func (b *RemoteBackend) Position() (string, error) {
	r, err := b.client.GetBoard(b.gameID)
	if err != nil {
		return "", err
	}
	return r.Position, nil
}

func (b *RemoteBackend) Close() error {
	return b.client.DeleteGame(b.gameID)
}
