package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"othello/internal/client/display"
	"othello/internal/core"
)

// Error is a non-2xx API response
type Error struct {
	Status int
	Body   core.ErrorResponse
}

func (e *Error) Error() string {
	if e.Body.Details != "" {
		return fmt.Sprintf("%s (%s): %s", e.Body.Error, e.Body.Code, e.Body.Details)
	}
	if e.Body.Code != "" {
		return fmt.Sprintf("%s (%s)", e.Body.Error, e.Body.Code)
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Verbose    bool
	// Trace receives request and response lines when Verbose is set
	Trace io.Writer
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		Trace: io.Discard,
	}
}

func (c *Client) SetVerbose(v bool) {
	c.Verbose = v
}

func (c *Client) tracef(format string, args ...interface{}) {
	if c.Verbose && c.Trace != nil {
		fmt.Fprintf(c.Trace, format, args...)
	}
}

func (c *Client) doRequest(method, path string, body interface{}, result interface{}) error {
	url := c.BaseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(jsonData)
		c.tracef("%s[API] %s %s%s\n%s%s%s\n", display.Blue, method, path, display.Reset, display.Blue, jsonData, display.Reset)
	} else {
		c.tracef("%s[API] %s %s%s\n", display.Blue, method, path, display.Reset)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	statusColor := display.Green
	if resp.StatusCode >= 400 {
		statusColor = display.Red
	}
	c.tracef("%s[%d %s]%s\n", statusColor, resp.StatusCode, http.StatusText(resp.StatusCode), display.Reset)

	if resp.StatusCode >= 400 {
		apiErr := &Error{Status: resp.StatusCode}
		json.Unmarshal(respBody, &apiErr.Body)
		return apiErr
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decode %s %s: %w", method, path, err)
		}
	}

	return nil
}

// API Methods

func (c *Client) Health() (map[string]interface{}, error) {
	var resp map[string]interface{}
	err := c.doRequest("GET", "/health", nil, &resp)
	return resp, err
}

func (c *Client) CreateGame(req core.CreateGameRequest) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.doRequest("POST", "/api/v1/games", req, &resp)
	return &resp, err
}

func (c *Client) GetGame(gameID string) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.doRequest("GET", "/api/v1/games/"+gameID, nil, &resp)
	return &resp, err
}

// WaitForUpdate long-polls until the game moves past version or the server times out
func (c *Client) WaitForUpdate(gameID string, version uint64) (*core.GameResponse, error) {
	var resp core.GameResponse
	path := fmt.Sprintf("/api/v1/games/%s?wait=true&version=%d", gameID, version)
	err := c.doRequest("GET", path, nil, &resp)
	return &resp, err
}

func (c *Client) DeleteGame(gameID string) error {
	return c.doRequest("DELETE", "/api/v1/games/"+gameID, nil, nil)
}

func (c *Client) SelectCell(gameID string, row, col int) (*core.SelectCellResponse, error) {
	req := core.SelectCellRequest{Row: &row, Col: &col}
	var resp core.SelectCellResponse
	err := c.doRequest("POST", "/api/v1/games/"+gameID+"/cells", req, &resp)
	return &resp, err
}

func (c *Client) Restart(gameID string) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.doRequest("POST", "/api/v1/games/"+gameID+"/restart", nil, &resp)
	return &resp, err
}

func (c *Client) GetBoard(gameID string) (*core.BoardResponse, error) {
	var resp core.BoardResponse
	err := c.doRequest("GET", "/api/v1/games/"+gameID+"/board", nil, &resp)
	return &resp, err
}
