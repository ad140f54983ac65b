package ws

import (
	"context"
	"cool-chat/auth"
	"cool-chat/domain"
	"cool-chat/services"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	defaultMaxFrameSize = 16 << 20
	defaultPongWait     = 60 * time.Second
	defaultWriteWait    = 10 * time.Second
	defaultBufferSize   = 256
)

type Config struct {
	AllowAnonymous bool
	MaxFrameSize   int64
	PongWait       time.Duration
	// PingInterval defaults to 9/10 of PongWait.
	PingInterval time.Duration
	WriteWait    time.Duration
	BufferSize   int
}

func (c Config) withDefaults() Config {
	if c.MaxFrameSize <= 0 {
		c.MaxFrameSize = defaultMaxFrameSize
	}
	if c.PongWait <= 0 {
		c.PongWait = defaultPongWait
	}
	if c.PingInterval <= 0 || c.PingInterval >= c.PongWait {
		c.PingInterval = c.PongWait * 9 / 10
	}
	if c.WriteWait <= 0 {
		c.WriteWait = defaultWriteWait
	}
	if c.BufferSize <= 0 {
		c.BufferSize = defaultBufferSize
	}
	return c
}

// Authenticator validates bearer tokens.
type Authenticator interface {
	Authenticate(token string) (*auth.CustomClaims, error)
}

// Handler serves the echo and chat endpoints and keeps track of live sessions.
type Handler struct {
	chat     services.IChatService
	authn    Authenticator
	cfg      Config
	log      *slog.Logger
	upgrader websocket.Upgrader

	mu       sync.Mutex
	sessions map[*Session]struct{}
	wg       sync.WaitGroup
}

func NewHandler(chat services.IChatService, authn Authenticator, cfg Config, log *slog.Logger) *Handler {
	return &Handler{
		chat:  chat,
		authn: authn,
		cfg:   cfg.withDefaults(),
		log:   log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		sessions: make(map[*Session]struct{}),
	}
}

// Echo answers every text frame m with "Echo: m" and echoes binary frames unchanged.
func (h *Handler) Echo(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("Failed to upgrade connection", "error", err)
		return
	}
	defer func() { _ = conn.Close() }()
	conn.SetReadLimit(h.cfg.MaxFrameSize)
	h.log.Debug("Echo connection established", "remote", r.RemoteAddr)

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug("Echo connection closed unexpectedly", "error", err)
			}
			return
		}
		if messageType == websocket.TextMessage {
			data = append([]byte("Echo: "), data...)
		}
		_ = conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteWait))
		if err := conn.WriteMessage(messageType, data); err != nil {
			h.log.Debug("Echo write failed", "error", err)
			return
		}
	}
}

// Chat authenticates the request, upgrades it and serves the chat session.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	participant, ok := h.participantFor(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("Failed to upgrade connection", "error", err)
		return
	}

	session := newSession(conn, participant, h.chat, h.cfg, h.log)
	h.track(session)
	defer h.untrack(session)

	h.log.Info("Chat connection established",
		"participant", participant.ID,
		"authenticated", participant.UserID != "",
		"remote", r.RemoteAddr)
	// The request context ends with the handler, the session outlives the hijack.
	session.Run(context.Background())
}

func (h *Handler) participantFor(r *http.Request) (*domain.Participant, bool) {
	id := uuid.NewString()
	token := auth.TokenFromRequest(r)
	if token == "" {
		if !h.cfg.AllowAnonymous {
			return nil, false
		}
		return domain.NewAnonymousParticipant(id), true
	}
	claims, err := h.authn.Authenticate(token)
	if err != nil {
		h.log.Debug("Rejected chat connection", "error", err)
		return nil, false
	}
	return domain.NewAuthenticatedParticipant(id, claims.UserID, claims.Login), true
}

func (h *Handler) track(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessions[s] = struct{}{}
	h.wg.Add(1)
}

func (h *Handler) untrack(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sessions, s)
	h.wg.Done()
}

// Sessions is the number of live chat connections.
func (h *Handler) Sessions() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// Close ends every live session and waits for their cleanup.
func (h *Handler) Close() {
	h.mu.Lock()
	sessions := make([]*Session, 0, len(h.sessions))
	for s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
	h.wg.Wait()
}
