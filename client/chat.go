package client

import (
	"context"
	"cool-chat/ws"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// ChatConn is a chat endpoint connection speaking JSON frames.
type ChatConn struct {
	conn      *websocket.Conn
	writeMu   sync.Mutex
	incoming  chan ws.ServerFrame
	done      chan struct{}
	closeOnce sync.Once
}

const incomingBuffer = 64

// DialChat connects to the chat endpoint, authenticating with token when set.
func DialChat(ctx context.Context, url, token string) (*ChatConn, error) {
	header := http.Header{}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		return nil, fmt.Errorf("could not connect to %s: %w", url, err)
	}
	c := &ChatConn{
		conn:     conn,
		incoming: make(chan ws.ServerFrame, incomingBuffer),
		done:     make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

func (c *ChatConn) readLoop() {
	defer close(c.incoming)
	for {
		var frame ws.ServerFrame
		if err := c.conn.ReadJSON(&frame); err != nil {
			return
		}
		select {
		case c.incoming <- frame:
		case <-c.done:
			return
		}
	}
}

// Incoming is closed when the connection ends.
func (c *ChatConn) Incoming() <-chan ws.ServerFrame {
	return c.incoming
}

func (c *ChatConn) Send(frame ws.ClientFrame) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(frame)
}

// Close also releases the reader when nobody consumes Incoming anymore. Safe to call several times.
func (c *ChatConn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		c.writeMu.Lock()
		_ = c.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.writeMu.Unlock()
		err = c.conn.Close()
	})
	return err
}
