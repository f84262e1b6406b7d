package webserver

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

//go:embed web
var webFS embed.FS

// New builds the web UI app. apiURL is handed to the page through /config.
func New(apiURL string) (*fiber.App, error) {
	webContent, err := fs.Sub(webFS, "web")
	if err != nil {
		return nil, fmt.Errorf("failed to create web sub-filesystem: %w", err)
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	})

	app.Use(logger.New(logger.Config{
		Format: "${time} WEB ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(cors.New())

	// API config endpoint, served before the static file handler
	app.Get("/config", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"apiUrl": apiURL,
		})
	})

	app.Get("*", func(c *fiber.Ctx) error {
		path := c.Path()
		if path == "/" {
			path = "/index.html"
		}
		fsPath := strings.TrimPrefix(path, "/")

		data, err := fs.ReadFile(webContent, fsPath)
		if err != nil {
			// Unknown paths fall back to the page itself
			data, err = fs.ReadFile(webContent, "index.html")
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).SendString("index.html not found")
			}
			fsPath = "index.html"
		}

		c.Set(fiber.HeaderContentType, contentType(fsPath))
		return c.Send(data)
	})

	return app, nil
}

// Start serves the web UI on addr until the listener fails
func Start(addr, apiURL string) error {
	app, err := New(apiURL)
	if err != nil {
		return err
	}
	return app.Listen(addr)
}

func contentType(name string) string {
	switch {
	case strings.HasSuffix(name, ".html"):
		return "text/html; charset=utf-8"
	case strings.HasSuffix(name, ".js"):
		return "application/javascript; charset=utf-8"
	case strings.HasSuffix(name, ".css"):
		return "text/css; charset=utf-8"
	case strings.HasSuffix(name, ".svg"):
		return "image/svg+xml"
	default:
		return "application/octet-stream"
	}
}
