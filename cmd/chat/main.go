package main

import (
	"context"
	"cool-chat/client"
	"cool-chat/ui"
	"cool-chat/ws"
	"fmt"
	"os"
	"time"

	"github.com/Netflix/go-env"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

type Config struct {
	URL         string        `env:"CHAT_URL,default=ws://localhost:8080/ws"`
	Token       string        `env:"CHAT_TOKEN"`
	Offline     bool          `env:"CHAT_OFFLINE,default=false"`
	DialTimeout time.Duration `env:"CHAT_DIAL_TIMEOUT,default=3s"`
	MaxLength   int           `env:"CHAT_MAX_CONTENT_LENGTH,default=2000"`
	LogLevel    string        `env:"LOG_LEVEL,default=WARN"`
}

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Chat error: %v\n", err)
	}
	os.Exit(code)
}

// run starts the terminal UI. Without a reachable server the UI still works locally.
func run() (int, error) {
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	var sender ui.Sender
	var incoming <-chan ws.ServerFrame
	if !config.Offline {
		ctx, cancel := context.WithTimeout(context.Background(), config.DialTimeout)
		conn, err := client.DialChat(ctx, config.URL, config.Token)
		cancel()
		if err != nil {
			log.Warn("Server unreachable, running offline", "url", config.URL, "error", err)
		} else {
			defer func() { _ = conn.Close() }()
			sender = conn
			incoming = conn.Incoming()
		}
	}

	program := tea.NewProgram(ui.NewModel(ui.DefaultChats(), sender, incoming).WithMaxLength(config.MaxLength), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return exitRuntime, fmt.Errorf("terminal UI failed: %w", err)
	}
	return exitOK, nil
}
