// Package main implements the Othello table server: a REST and websocket API,
// an optional browser UI and an MCP stdio mode.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"othello/internal/http"
	"othello/internal/mcp"
	"othello/internal/processor"
	"othello/internal/service"
	"othello/internal/webserver"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
)

const (
	Version = "1.0.0"

	gracefulShutdownTimeout = time.Second * 5
)

// envVar maps a flag name onto its OTHELLO_* environment variable
func envVar(flag string) string {
	return "OTHELLO_" + strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))
}

var serverFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "addr",
		Value:   "localhost:8080",
		Usage:   "API server listen address",
		Sources: cli.EnvVars(envVar("addr")),
	},
	&cli.BoolFlag{
		Name:    "dev",
		Usage:   "Development mode (relaxed rate limits)",
		Sources: cli.EnvVars(envVar("dev")),
	},
	&cli.BoolFlag{
		Name:    "serve",
		Usage:   "Enable web UI server",
		Sources: cli.EnvVars(envVar("serve")),
	},
	&cli.StringFlag{
		Name:    "web-addr",
		Value:   "localhost:9090",
		Usage:   "Web UI server listen address",
		Sources: cli.EnvVars(envVar("web-addr")),
	},
	&cli.StringFlag{
		Name:    "pid",
		Usage:   "Optional path to write PID file",
		Sources: cli.EnvVars(envVar("pid")),
	},
	&cli.BoolFlag{
		Name:    "pid-lock",
		Usage:   "Lock PID file to allow only one instance (requires --pid)",
		Sources: cli.EnvVars(envVar("pid-lock")),
	},
	&cli.StringFlag{
		Name:  "env-file",
		Value: ".env",
		Usage: "Environment file loaded before flags are resolved",
	},
}

func main() {
	cmd := &cli.Command{
		Name:    "othello-server",
		Usage:   "Host Othello tables over HTTP, websocket and MCP",
		Version: Version,
		Flags:   serverFlags,
		Before:  loadEnvFile,
		Action:  runServer,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API (default)",
				Action: runServer,
			},
			{
				Name:   "mcp",
				Usage:  "Run an MCP stdio server with in-process tables",
				Action: runMCP,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

// loadEnvFile applies the env file to flags not given on the command line.
// Variables already present in the environment take precedence over the file.
func loadEnvFile(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	path := cmd.String("env-file")
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ctx, nil
		}
		return ctx, fmt.Errorf("load %s: %w", path, err)
	}

	for _, f := range serverFlags {
		name := f.Names()[0]
		if name == "env-file" || cmd.IsSet(name) {
			continue
		}
		if v, ok := os.LookupEnv(envVar(name)); ok {
			if err := cmd.Set(name, v); err != nil {
				return ctx, fmt.Errorf("%s from %s: %w", envVar(name), path, err)
			}
		}
	}
	log.Printf("Loaded environment variables from %s", path)
	return ctx, nil
}

func runServer(ctx context.Context, cmd *cli.Command) error {
	var (
		addr    = cmd.String("addr")
		dev     = cmd.Bool("dev")
		serve   = cmd.Bool("serve")
		webAddr = cmd.String("web-addr")
		pidPath = cmd.String("pid")
		pidLock = cmd.Bool("pid-lock")
	)

	if pidLock && pidPath == "" {
		return fmt.Errorf("--pid-lock requires --pid to be set")
	}

	if pidPath != "" {
		cleanup, err := managePIDFile(pidPath, pidLock)
		if err != nil {
			return fmt.Errorf("failed to manage PID file: %w", err)
		}
		defer cleanup()
		log.Printf("PID file created at: %s (lock: %v)", pidPath, pidLock)
	}

	svc := service.New(service.Config{})

	cleanupCtx, cleanupCancel := context.WithCancel(ctx)
	defer cleanupCancel()
	go svc.RunCleanupJob(cleanupCtx, service.CleanupJobInterval)

	proc := processor.New(svc)
	app := http.NewFiberApp(proc, svc, http.Config{DevMode: dev})

	go func() {
		log.Printf("Othello API Server %s starting...", Version)
		log.Printf("API Listening on: http://%s", addr)
		if dev {
			log.Printf("Rate Limit: 20 requests/second per IP (DEV MODE)")
		} else {
			log.Printf("Rate Limit: 10 requests/second per IP")
		}
		log.Printf("API Endpoints: http://%s/api/v1/games", addr)
		log.Printf("Health: http://%s/health", addr)

		if err := app.Listen(addr); err != nil {
			log.Printf("API server listen error: %v", err)
		}
	}()

	if serve {
		apiURL := "http://" + addr
		go func() {
			log.Printf("Web UI Listening on: http://%s", webAddr)
			log.Printf("Web UI API target: %s", apiURL)

			if err := webserver.Start(webAddr, apiURL); err != nil {
				log.Printf("Web UI server error: %v", err)
			}
		}()
	}

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-sigCtx.Done()

	log.Println("Shutting down servers...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer shutdownCancel()

	var errs []error
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("api server: %w", err))
	}

	cleanupCancel()

	if err := svc.Shutdown(gracefulShutdownTimeout); err != nil {
		errs = append(errs, fmt.Errorf("service: %w", err))
	}

	log.Println("Servers exited")
	return errors.Join(errs...)
}

func runMCP(ctx context.Context, cmd *cli.Command) error {
	// stdout carries the protocol
	log.SetOutput(os.Stderr)

	svc := service.New(service.Config{})
	defer svc.Shutdown(gracefulShutdownTimeout)

	cleanupCtx, cleanupCancel := context.WithCancel(ctx)
	defer cleanupCancel()
	go svc.RunCleanupJob(cleanupCtx, service.CleanupJobInterval)

	log.Printf("Othello MCP server %s on stdio", Version)
	return mcp.NewServer(processor.New(svc), Version).ServeStdio()
}
