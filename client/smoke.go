package client

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/gookit/color"
	"github.com/gorilla/websocket"
)

const (
	DefaultURL      = "ws://localhost:8080"
	DefaultGreeting = "Привет, сервер!"
	replyPrefix     = "Ответ сервера: "
)

// SmokeClient opens one connection, sends a greeting and prints every text reply.
type SmokeClient struct {
	url      string
	greeting string
	out      io.Writer
	log      *slog.Logger
	dialer   *websocket.Dialer
}

func NewSmokeClient(url, greeting string, out io.Writer, log *slog.Logger) *SmokeClient {
	if url == "" {
		url = DefaultURL
	}
	if greeting == "" {
		greeting = DefaultGreeting
	}
	return &SmokeClient{
		url:      url,
		greeting: greeting,
		out:      out,
		log:      log,
		dialer:   websocket.DefaultDialer,
	}
}

// Run returns when the server closes the connection or ctx is done.
// There is no reconnection.
func (c *SmokeClient) Run(ctx context.Context) error {
	conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("could not connect to %s: %w", c.url, err)
	}
	defer func() { _ = conn.Close() }()

	header := color.New(color.BgBlack, color.FgGreen).Render("Connected to " + c.url)
	_, _ = fmt.Fprintln(c.out, header)
	c.log.Info("Connection opened", "url", c.url)

	if err := conn.WriteMessage(websocket.TextMessage, []byte(c.greeting)); err != nil {
		return fmt.Errorf("could not send greeting: %w", err)
	}

	stop := context.AfterFunc(ctx, func() {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		_ = conn.Close()
	})
	defer stop()

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.log.Info("Connection closed")
				return nil
			}
			return fmt.Errorf("connection lost: %w", err)
		}
		if messageType != websocket.TextMessage {
			continue
		}
		_, _ = fmt.Fprintln(c.out, color.FgCyan.Render(replyPrefix+string(data)))
	}
}
