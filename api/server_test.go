package api

import (
	"bytes"
	"context"
	"cool-chat/auth"
	"cool-chat/domain"
	"cool-chat/mocks"
	"cool-chat/observability"
	"cool-chat/projection"
	"cool-chat/repositories"
	"cool-chat/services"
	"cool-chat/ws"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var testHashParams = auth.Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

type apiFixture struct {
	server       *Server
	orchestrator *mocks.MockIOrchestrator
	messages     repositories.MessageRepository
	search       repositories.SearchRepository
}

func newAPIFixture(t *testing.T) apiFixture {
	t.Helper()
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelError)

	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	t.Cleanup(func() { _ = db.Close() })
	writer, err := bluge.OpenWriter(bluge.DefaultConfig(t.TempDir()))
	req.NoError(err)
	t.Cleanup(func() { _ = writer.Close() })

	limit := 2
	messages := repositories.NewMessageRepository(db, log, &limit)
	search := repositories.NewSearchRepository(writer, log)

	issuer, err := auth.NewTokenIssuer("api-secret", time.Hour)
	req.NoError(err)
	authService := services.NewAuthService(repositories.NewUserRepository(db), issuer, testHashParams)
	orchestrator := mocks.NewMockIOrchestrator(gomock.NewController(t))
	chat := services.NewChatService(orchestrator, messages, search, projection.NewTimeline(10), 100, 10)

	health, err := observability.NewHealthMonitor()
	req.NoError(err)

	server := NewServer(Config{
		Addr:        ":0",
		Auth:        authService,
		Chat:        chat,
		WS:          ws.NewHandler(chat, authService, ws.Config{}, log),
		Metrics:     observability.NewMetrics(),
		Health:      health,
		Connections: func() int { return 4 },
		Logger:      log,
	})
	return apiFixture{server: server, orchestrator: orchestrator, messages: messages, search: search}
}

func (f apiFixture) do(method, path, body, token string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(recorder, request)
	return recorder
}

func decode[T any](t *testing.T, recorder *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(bytes.NewReader(recorder.Body.Bytes())).Decode(&v))
	return v
}

func (f apiFixture) register(t *testing.T, login string) string {
	t.Helper()
	rec := f.do(http.MethodPost, "/auth/register", `{"login":"`+login+`","password":"Str0ng!Passw0rd"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[TokenResponse](t, rec).Token
}

func TestAuthRoutes(t *testing.T) {
	req := require.New(t)
	f := newAPIFixture(t)

	req.NotEmpty(f.register(t, "alice"))

	rec := f.do(http.MethodPost, "/auth/register", `{"login":"alice","password":"Str0ng!Passw0rd"}`, "")
	req.Equal(http.StatusConflict, rec.Code)
	req.Equal("ALREADY_EXISTS", decode[ErrorResponse](t, rec).Error.Code)

	rec = f.do(http.MethodPost, "/auth/register", `{"login":"bo","password":"Str0ng!Passw0rd"}`, "")
	req.Equal(http.StatusBadRequest, rec.Code)
	rec = f.do(http.MethodPost, "/auth/register", `{"login":"bob","password":"password"}`, "")
	req.Equal(http.StatusBadRequest, rec.Code)
	rec = f.do(http.MethodPost, "/auth/register", `not json`, "")
	req.Equal(http.StatusBadRequest, rec.Code)

	rec = f.do(http.MethodPost, "/auth/login", `{"login":"alice","password":"Str0ng!Passw0rd"}`, "")
	req.Equal(http.StatusOK, rec.Code)
	req.NotEmpty(decode[TokenResponse](t, rec).Token)

	rec = f.do(http.MethodPost, "/auth/login", `{"login":"alice","password":"Wr0ng!Passw0rd"}`, "")
	req.Equal(http.StatusUnauthorized, rec.Code)
	wrongPassword := decode[ErrorResponse](t, rec).Error.Message
	rec = f.do(http.MethodPost, "/auth/login", `{"login":"ghost","password":"Str0ng!Passw0rd"}`, "")
	req.Equal(http.StatusUnauthorized, rec.Code)
	req.Equal(wrongPassword, decode[ErrorResponse](t, rec).Error.Message)
}

func TestRoomRoutes(t *testing.T) {
	req := require.New(t)
	f := newAPIFixture(t)
	token := f.register(t, "alice")

	base := time.Date(2026, 2, 3, 14, 7, 0, 0, time.Local).UTC()
	for i, text := range []string{"deploy started", "lunch time", "deploy done"} {
		m := repositories.DiskMessage{ID: uuid.New(), Room: 1, Author: "bob", Content: text, At: base.Add(time.Duration(i) * time.Minute)}
		req.NoError(f.messages.StoreMessage(m))
		req.NoError(f.search.Index(m))
	}

	rec := f.do(http.MethodGet, "/rooms/1/messages", "", "")
	req.Equal(http.StatusUnauthorized, rec.Code)
	rec = f.do(http.MethodGet, "/rooms/1/messages", "", "forged")
	req.Equal(http.StatusUnauthorized, rec.Code)

	rec = f.do(http.MethodGet, "/rooms/1/messages", "", token)
	req.Equal(http.StatusOK, rec.Code)
	page := decode[MessagesResponse](t, rec)
	req.Len(page.Messages, 2)
	req.Equal("deploy done", page.Messages[0].Text)
	req.Equal("14:09", page.Messages[0].Time)
	req.NotNil(page.Cursor)

	rec = f.do(http.MethodGet, "/rooms/1/messages?cursor="+*page.Cursor, "", token)
	req.Equal(http.StatusOK, rec.Code)
	page = decode[MessagesResponse](t, rec)
	req.Len(page.Messages, 1)
	req.Equal("deploy started", page.Messages[0].Text)
	req.Nil(page.Cursor)

	rec = f.do(http.MethodGet, "/rooms/1/search?q=deploy", "", token)
	req.Equal(http.StatusOK, rec.Code)
	req.Len(decode[MessagesResponse](t, rec).Messages, 2)

	rec = f.do(http.MethodGet, "/rooms/1/search", "", token)
	req.Equal(http.StatusBadRequest, rec.Code)
	rec = f.do(http.MethodGet, "/rooms/abc/messages", "", token)
	req.Equal(http.StatusBadRequest, rec.Code)
}

func TestListRooms(t *testing.T) {
	req := require.New(t)
	f := newAPIFixture(t)
	token := f.register(t, "alice")

	general := domain.NewRoom(1, "general")
	general.Join("p1")
	f.orchestrator.EXPECT().Rooms().Return([]*domain.Room{general, domain.NewRoom(7, "room-7")})

	rec := f.do(http.MethodGet, "/rooms", "", token)
	req.Equal(http.StatusOK, rec.Code)
	rooms := decode[[]RoomResponse](t, rec)
	req.Equal([]RoomResponse{
		{ID: 1, Name: "general", Participants: 1},
		{ID: 7, Name: "room-7", Participants: 0},
	}, rooms)
}

func TestHealthAndMetrics(t *testing.T) {
	req := require.New(t)
	f := newAPIFixture(t)

	rec := f.do(http.MethodGet, "/healthz", "", "")
	req.Equal(http.StatusOK, rec.Code)
	health := decode[observability.HealthStats](t, rec)
	req.Equal("ok", health.Status)
	req.Equal(4, health.Connections)

	rec = f.do(http.MethodGet, "/metrics", "", "")
	req.Equal(http.StatusOK, rec.Code)
	req.Contains(rec.Body.String(), "chat_connections")
}

func TestWebSocketRoutes(t *testing.T) {
	req := require.New(t)
	f := newAPIFixture(t)
	httpServer := httptest.NewServer(f.server.Handler())
	defer httpServer.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(httpServer.URL, "http")+"/", nil)
	req.NoError(err)
	defer conn.Close()
	req.NoError(conn.WriteMessage(websocket.TextMessage, []byte("ping")))
	_, data, err := conn.ReadMessage()
	req.NoError(err)
	req.Equal("Echo: ping", string(data))

	// Anonymous chat is disabled in this configuration
	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(httpServer.URL, "http")+"/ws", nil)
	req.ErrorIs(err, websocket.ErrBadHandshake)
	req.Equal(http.StatusUnauthorized, resp.StatusCode)

	req.NoError(f.server.Shutdown(context.Background()))
}
