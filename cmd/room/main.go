package main

import (
	"bufio"
	"chat-notify/domain"
	"chat-notify/infrastructure/chatkit"
	"chat-notify/session"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Room terminated with error: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	_ = godotenv.Load()
	config, err := LoadConfig()
	if err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	logger := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpClient := &http.Client{Timeout: 15 * time.Second}
	token, err := fetchToken(ctx, httpClient, config.NotifierURL, config.UserID)
	if err != nil {
		return exitRuntime, fmt.Errorf("authentication failed: %w", err)
	}

	client := chatkit.NewClient(config.ChatAPIURL, chatkit.StaticToken(token.AccessToken), httpClient, logger)
	transport := chatkit.NewTransport(client, domain.UserID(config.UserID), logger)

	console := NewConsole(os.Stdout, domain.UserID(config.UserID), config.Colours)
	confirmer := newLineConfirmer(os.Stdout)
	room := domain.RoomID(config.RoomID)

	s := session.NewSession(logger, room, transport, confirmer,
		session.NewStager(logger, 0, config.MaxAttachmentSize))
	s.OnChange(console.Render)

	commands := make(chan domain.Command, 16)
	go readInput(ctx, os.Stdin, room, commands, confirmer, console, stop)

	console.Println("Type /help for the list of commands")
	err = s.Run(ctx, commands)
	switch {
	case err == nil, errors.Is(err, context.Canceled):
		if s.State() == session.Left {
			console.Println("You left the room")
		}
		return exitOK, nil
	default:
		return exitRuntime, err
	}
}

// readInput feeds the session with the commands typed on in.
// It closes commands when the input ends and calls quit on /quit.
func readInput(ctx context.Context, in io.Reader, room domain.RoomID, commands chan<- domain.Command,
	confirmer *lineConfirmer, console *Console, quit func()) {
	defer close(commands)

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()
		if confirmer.answer(line) {
			continue
		}

		act, cmds := parseLine(room, line)
		switch act {
		case actionUsers:
			console.Users()
		case actionHelp:
			console.Println(help)
		case actionQuit:
			quit()
			return
		case actionCommand:
			for _, cmd := range cmds {
				select {
				case commands <- cmd:
				case <-ctx.Done():
					return
				}
			}
		}
	}
}
