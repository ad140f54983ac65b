package main

import (
	"context"
	"cool-chat/client"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes for the smoke client.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

// Config defines the smoke client environment variables.
// The greeting has no tag default because go-env splits tag options on commas.
type Config struct {
	URL      string        `env:"SMOKE_URL,default=ws://localhost:8080"`
	Greeting string        `env:"SMOKE_GREETING"`
	Timeout  time.Duration `env:"SMOKE_TIMEOUT,default=0s"`
	LogLevel string        `env:"LOG_LEVEL,default=INFO"`
}

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Smoke client error: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.Timeout)
		defer cancel()
	}

	smoke := client.NewSmokeClient(config.URL, config.Greeting, os.Stdout, log)
	if err := smoke.Run(ctx); err != nil {
		return exitRuntime, err
	}
	return exitOK, nil
}
