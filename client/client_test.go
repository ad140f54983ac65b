package client

import (
	"bytes"
	"context"
	"cool-chat/ws"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func TestSmokeClient_LogsEchoReplies(t *testing.T) {
	req := require.New(t)
	echo := ws.NewHandler(nil, nil, ws.Config{}, slog.Default())
	server := httptest.NewServer(http.HandlerFunc(echo.Echo))
	defer server.Close()

	out := &syncBuffer{}
	smoke := NewSmokeClient(wsURL(server), "", out, slog.Default())

	ctx, cancel := context.WithCancel(context.Background())
	errChan := make(chan error, 1)
	go func() { errChan <- smoke.Run(ctx) }()

	req.Eventually(func() bool {
		return strings.Contains(out.String(), "Ответ сервера: Echo: Привет, сервер!")
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-errChan:
		req.NoError(err)
	case <-time.After(2 * time.Second):
		req.Fail("smoke client did not stop")
	}
	req.Equal(1, strings.Count(out.String(), "Ответ сервера:"))
}

func TestSmokeClient_ServerClosesConnection(t *testing.T) {
	req := require.New(t)
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_, greeting, _ := conn.ReadMessage()
		_ = conn.WriteMessage(websocket.TextMessage, []byte("got "+string(greeting)))
		_ = conn.WriteMessage(websocket.BinaryMessage, []byte{1, 2})
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
	}))
	defer server.Close()

	out := &syncBuffer{}
	err := NewSmokeClient(wsURL(server), "hi", out, slog.Default()).Run(context.Background())
	req.NoError(err)
	req.Contains(out.String(), "Ответ сервера: got hi")
	req.Equal(1, strings.Count(out.String(), "Ответ сервера:"))
}

func TestSmokeClient_DialError(t *testing.T) {
	err := NewSmokeClient("ws://127.0.0.1:1", "", &syncBuffer{}, slog.Default()).Run(context.Background())
	require.Error(t, err)
}

func TestChatConn(t *testing.T) {
	req := require.New(t)
	upgrader := websocket.Upgrader{}
	received := make(chan ws.ClientFrame, 1)
	authorization := make(chan string, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authorization <- r.Header.Get("Authorization")
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_ = conn.WriteJSON(ws.ServerFrame{Type: ws.FrameWelcome, Text: "Welcome, bob!"})
		var frame ws.ClientFrame
		if err := conn.ReadJSON(&frame); err == nil {
			received <- frame
		}
		_, _, _ = conn.ReadMessage()
	}))
	defer server.Close()

	conn, err := DialChat(context.Background(), wsURL(server), "secret")
	req.NoError(err)
	req.Equal("Bearer secret", <-authorization)

	frame := <-conn.Incoming()
	req.Equal("Welcome, bob!", frame.Text)

	req.NoError(conn.Send(ws.ClientFrame{Type: ws.FrameMessage, Room: 2, Text: "hello"}))
	req.Equal(ws.ClientFrame{Type: ws.FrameMessage, Room: 2, Text: "hello"}, <-received)

	req.NoError(conn.Close())
	_, open := <-conn.Incoming()
	req.False(open)
}

func TestChatConn_CloseReleasesBlockedReader(t *testing.T) {
	req := require.New(t)
	upgrader := websocket.Upgrader{}
	flooded := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for i := 0; i < incomingBuffer*2; i++ {
			if err := conn.WriteJSON(ws.ServerFrame{Type: ws.FrameSystem, Text: "flood"}); err != nil {
				return
			}
		}
		close(flooded)
		_, _, _ = conn.ReadMessage()
	}))
	defer server.Close()

	conn, err := DialChat(context.Background(), wsURL(server), "")
	req.NoError(err)
	<-flooded

	// Nobody reads Incoming: the buffer fills up and the reader waits
	req.Eventually(func() bool { return len(conn.Incoming()) == incomingBuffer }, time.Second, 5*time.Millisecond)

	req.NoError(conn.Close())
	req.NoError(conn.Close())

	drained := make(chan struct{})
	go func() {
		for range conn.Incoming() {
		}
		close(drained)
	}()
	select {
	case <-drained:
	case <-time.After(2 * time.Second):
		req.Fail("incoming channel never closed")
	}
}
