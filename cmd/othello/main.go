// Package main implements the Othello terminal client. It plays an in-process
// table by default, or a table hosted by othello-server with -api.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"othello/internal/cli"
	"othello/internal/client/api"
	"othello/internal/client/display"
	"othello/internal/processor"
	"othello/internal/service"

	"github.com/chzyer/readline"
	"golang.org/x/term"
)

func main() {
	var (
		apiURL  = flag.String("api", "", "othello-server base URL (empty plays locally)")
		gameID  = flag.String("game", "", "Join an existing game on the server (requires -api)")
		theme   = flag.String("theme", "green", "Board color theme (off|green|blue|gray)")
		history = flag.String("history", ".othello_history", "Readline history file")
		verbose = flag.Bool("v", false, "Log API traffic and service events")
	)
	flag.Parse()

	boardTheme, err := display.ParseTheme(*theme)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		boardTheme = display.ThemeOff
	}

	if !*verbose {
		log.SetOutput(io.Discard)
	}

	var backend cli.Backend
	if *apiURL != "" {
		client := api.New(*apiURL)
		client.SetVerbose(*verbose)
		client.Trace = os.Stderr
		if _, err := client.Health(); err != nil {
			fmt.Fprintf(os.Stderr, "server %s unreachable: %v\n", *apiURL, err)
			os.Exit(1)
		}
		backend = cli.NewRemoteBackend(client, *gameID)
	} else {
		if *gameID != "" {
			fmt.Fprintln(os.Stderr, "-game requires -api")
			os.Exit(2)
		}
		svc := service.New(service.Config{MaxGames: 1})
		defer svc.Shutdown(time.Second)
		backend = cli.NewLocalBackend(processor.New(svc))
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "othello > ",
		HistoryFile:     *history,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer rl.Close()

	view := cli.New(backend, rl, rl.Stdout())
	view.SetTheme(boardTheme)

	if err := view.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s%v%s\n", display.Red, err, display.Reset)
		os.Exit(1)
	}
}
