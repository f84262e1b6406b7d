package http

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"othello/internal/core"
	"othello/internal/processor"
	"othello/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
)

const rateLimitRate = 10 // req/sec

// Config tunes the fiber app
type Config struct {
	DevMode bool
	// RateLimit overrides the per-IP request rate, 0 keeps the default
	RateLimit int
}

// HTTPHandler handles HTTP requests and routes them to the processor
type HTTPHandler struct {
	proc *processor.Processor
	svc  *service.Service
}

func NewHTTPHandler(proc *processor.Processor, svc *service.Service) *HTTPHandler {
	return &HTTPHandler{proc: proc, svc: svc}
}

func NewFiberApp(proc *processor.Processor, svc *service.Service, cfg Config) *fiber.App {
	h := NewHTTPHandler(proc, svc)

	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  60 * time.Second,
	})

	// Global middleware (order matters)
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	// Health check (no rate limit)
	app.Get("/health", h.Health)

	api := app.Group("/api/v1")

	maxReq := cfg.RateLimit
	if maxReq <= 0 {
		maxReq = rateLimitRate
	}
	if cfg.DevMode {
		maxReq *= 2
	}
	api.Use(limiter.New(limiter.Config{
		Max:        maxReq,
		Expiration: 1 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			if xff := c.Get("X-Forwarded-For"); xff != "" {
				if idx := strings.Index(xff, ","); idx != -1 {
					return strings.TrimSpace(xff[:idx])
				}
				return xff
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(core.ErrorResponse{
				Error:   "rate limit exceeded",
				Code:    core.ErrRateLimitExceeded,
				Details: fmt.Sprintf("%d requests per second allowed", maxReq),
			})
		},
	}))

	api.Use(contentTypeValidator)
	api.Use(validationMiddleware)

	api.Post("/games", h.CreateGame)
	api.Get("/games/:gameId", h.GetGame)
	api.Delete("/games/:gameId", h.DeleteGame)
	api.Post("/games/:gameId/cells", h.SelectCell)
	api.Post("/games/:gameId/restart", h.Restart)
	api.Get("/games/:gameId/board", h.GetBoard)
	api.Get("/games/:gameId/ws", h.upgradeRequired, websocket.New(h.Stream))

	return app
}

// customErrorHandler provides consistent error responses
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	response := core.ErrorResponse{
		Error: "internal server error",
		Code:  core.ErrInternalError,
	}

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		response.Error = e.Message

		switch code {
		case fiber.StatusNotFound:
			response.Code = core.ErrGameNotFound
		case fiber.StatusBadRequest, fiber.StatusUpgradeRequired, fiber.StatusMethodNotAllowed:
			response.Code = core.ErrInvalidRequest
		case fiber.StatusTooManyRequests:
			response.Code = core.ErrRateLimitExceeded
		}
	}

	return c.Status(code).JSON(response)
}

// statusFor maps processor error codes onto HTTP status codes
func statusFor(code string) int {
	switch code {
	case core.ErrGameNotFound:
		return fiber.StatusNotFound
	case core.ErrResourceLimit:
		return fiber.StatusServiceUnavailable
	case core.ErrInternalError:
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusBadRequest
	}
}

func invalidGameID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
		Error:   "invalid game ID format",
		Code:    core.ErrInvalidRequest,
		Details: "game ID must be a valid UUID",
	})
}

func validationBypass(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
		Error: "validation bypass detected",
		Code:  core.ErrInternalError,
	})
}

// respond writes a processor response with the matching status
func respond(c *fiber.Ctx, resp processor.ProcessorResponse, okStatus int) error {
	if !resp.Success {
		return c.Status(statusFor(resp.Error.Code)).JSON(resp.Error)
	}
	return c.Status(okStatus).JSON(resp.Data)
}

// Health check endpoint
func (h *HTTPHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "healthy",
		"time":   time.Now().Unix(),
		"games":  h.svc.GameCount(),
	})
}

// CreateGame hosts a new game, optionally from a position
func (h *HTTPHandler) CreateGame(c *fiber.Ctx) error {
	req, ok := validatedBody[core.CreateGameRequest](c)
	if !ok {
		return validationBypass(c)
	}

	resp := h.proc.Execute(processor.NewCreateGameCommand(req))
	return respond(c, resp, fiber.StatusCreated)
}

// GetGame retrieves current game state. With wait=true it long-polls until
// the game version moves past the given version or the wait times out.
func (h *HTTPHandler) GetGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if !isValidUUID(gameID) {
		return invalidGameID(c)
	}

	if c.Query("wait", "false") != "true" {
		return respond(c, h.proc.Execute(processor.NewGetGameCommand(gameID)), fiber.StatusOK)
	}

	snap, err := h.svc.GetGame(gameID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(core.ErrorResponse{
			Error: "game not found",
			Code:  core.ErrGameNotFound,
		})
	}

	// A missing or malformed version returns the current state immediately
	version, err := strconv.ParseUint(c.Query("version"), 10, 64)
	if err != nil || version != snap.Version {
		return c.JSON(processor.BuildGameResponse(gameID, snap))
	}

	ctx := c.Context()
	notify := h.svc.RegisterWait(ctx, gameID, version)

	select {
	case <-notify:
		// State changed, timed out or game deleted
		return respond(c, h.proc.Execute(processor.NewGetGameCommand(gameID)), fiber.StatusOK)
	case <-ctx.Done():
		return nil
	}
}

// SelectCell forwards a cell selection. Illegal cells answer 200 with accepted=false.
func (h *HTTPHandler) SelectCell(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if !isValidUUID(gameID) {
		return invalidGameID(c)
	}

	req, ok := validatedBody[core.SelectCellRequest](c)
	if !ok {
		return validationBypass(c)
	}

	resp := h.proc.Execute(processor.NewSelectCellCommand(gameID, *req.Row, *req.Col))
	return respond(c, resp, fiber.StatusOK)
}

// Restart resets a game to the opening position
func (h *HTTPHandler) Restart(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if !isValidUUID(gameID) {
		return invalidGameID(c)
	}

	return respond(c, h.proc.Execute(processor.NewRestartCommand(gameID)), fiber.StatusOK)
}

// DeleteGame ends and cleans up a game
func (h *HTTPHandler) DeleteGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if !isValidUUID(gameID) {
		return invalidGameID(c)
	}

	resp := h.proc.Execute(processor.NewDeleteGameCommand(gameID))
	if !resp.Success {
		return c.Status(statusFor(resp.Error.Code)).JSON(resp.Error)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetBoard returns ASCII representation of the board
func (h *HTTPHandler) GetBoard(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if !isValidUUID(gameID) {
		return invalidGameID(c)
	}

	return respond(c, h.proc.Execute(processor.NewGetBoardCommand(gameID)), fiber.StatusOK)
}
