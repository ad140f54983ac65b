package ws

import (
	"context"
	"cool-chat/contract"
	"cool-chat/domain"
	"cool-chat/domain/event"
	"cool-chat/errors"
	"cool-chat/services"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var _ contract.EventSink = (*Session)(nil)

// Session is one chat connection. The read loop drives the participant's
// state machine, a single writer goroutine owns every data write.
type Session struct {
	conn        *websocket.Conn
	participant *domain.Participant
	chat        services.IChatService
	cfg         Config
	log         *slog.Logger

	outbound  chan ServerFrame
	closed    chan struct{}
	closeOnce sync.Once

	// read loop only
	activeRoom domain.RoomID
}

func newSession(conn *websocket.Conn, participant *domain.Participant,
	chat services.IChatService, cfg Config, log *slog.Logger) *Session {
	return &Session{
		conn:        conn,
		participant: participant,
		chat:        chat,
		cfg:         cfg,
		log:         log.With("participant", participant.ID),
		outbound:    make(chan ServerFrame, cfg.BufferSize),
		closed:      make(chan struct{}),
		activeRoom:  domain.DefaultRoom,
	}
}

func (s *Session) Name() string { return "session" }

// Consume queues the event for the writer. It never blocks the fanout.
func (s *Session) Consume(_ context.Context, e event.DomainEvent) error {
	frame, ok := toFrame(e)
	if !ok {
		return nil
	}
	return s.send(frame)
}

func (s *Session) send(frame ServerFrame) error {
	select {
	case <-s.closed:
		return nil
	default:
	}
	select {
	case s.outbound <- frame:
		return nil
	default:
		s.log.Warn("Outbound queue full, dropping frame", "type", frame.Type)
		return fmt.Errorf("%w: participant %s", errors.ErrOutboundQueueFull, s.participant.ID)
	}
}

// Run serves the connection until the peer goes away or Close is called.
func (s *Session) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writePump(ctx)
	}()

	s.greet()
	s.readPump()

	cancel()
	<-writerDone
	// The close handshake already happened (peer close, read limit, protocol error)
	// or the peer is gone, so no close frame is written here.
	s.shutdown(false)

	rooms := s.chat.Disconnect(s.participant)
	s.log.Info("Participant disconnected", "nickname", s.participant.Nickname, "rooms", len(rooms))
}

// Close sends a going-away close frame and tears the connection down. Safe to call several times.
func (s *Session) Close() {
	s.shutdown(true)
}

func (s *Session) shutdown(goingAway bool) {
	s.closeOnce.Do(func() {
		close(s.closed)
		if goingAway {
			_ = s.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
				time.Now().Add(s.cfg.WriteWait))
		}
		_ = s.conn.Close()
	})
}

func (s *Session) greet() {
	if !s.participant.InChat() {
		_ = s.send(promptFrame())
		return
	}
	s.enterChat()
}

func (s *Session) enterChat() {
	_ = s.send(welcomeFrame(s.participant.Nickname))
	s.join(domain.DefaultRoom)
}

func (s *Session) join(room domain.RoomID) {
	if recent := s.chat.Recent(room); len(recent) > 0 {
		_ = s.send(historyFrame(room, recent, nil))
	}
	if err := s.chat.JoinRoom(s.participant, room, s); err != nil {
		_ = s.send(errorFrame(err))
		return
	}
	s.activeRoom = room
}

func (s *Session) readPump() {
	s.conn.SetReadLimit(s.cfg.MaxFrameSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(s.cfg.PongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(s.cfg.PongWait))
	})

	for {
		messageType, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Debug("Connection closed unexpectedly", "error", err)
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		frame, err := ParseClientFrame(data)
		if err != nil {
			_ = s.send(errorFrame(err))
			continue
		}
		s.handle(frame)
	}
}

func (s *Session) handle(frame ClientFrame) {
	if !s.participant.InChat() {
		s.handleAwaitingNickname(frame)
		return
	}

	room := s.activeRoom
	if frame.Room != 0 {
		room = domain.RoomID(frame.Room)
	}

	var err error
	switch frame.Type {
	case FrameNick:
		// the nickname is chosen once
	case FrameJoin:
		s.join(room)
	case FrameLeave:
		err = s.chat.LeaveRoom(s.participant, room)
		if err == nil && room == s.activeRoom {
			s.activeRoom = domain.DefaultRoom
		}
	case FrameMessage:
		err = s.chat.PostMessage(s.participant, room, frame.Text)
		if errors.Is(err, errors.ErrEmptyContent) {
			err = nil
		}
	case FrameHistory:
		var messages []domain.Message
		var cursor *string
		messages, cursor, err = s.chat.GetMessages(room, frame.Cursor)
		if err == nil {
			err = s.send(historyFrame(room, messages, cursor))
		}
	case FrameSearch:
		var messages []domain.Message
		messages, err = s.chat.Search(context.Background(), room, frame.Text)
		if err == nil {
			err = s.send(searchFrame(room, messages))
		}
	}
	if err != nil {
		s.log.Debug("Frame rejected", "type", frame.Type, "error", err)
		_ = s.send(errorFrame(err))
	}
}

func (s *Session) handleAwaitingNickname(frame ClientFrame) {
	switch frame.Type {
	case FrameNick, FrameMessage:
		if err := s.participant.ChooseNickname(frame.Text); err != nil {
			_ = s.send(errorFrame(err))
			_ = s.send(promptFrame())
			return
		}
		s.log.Info("Nickname chosen", "nickname", s.participant.Nickname)
		s.enterChat()
	default:
		_ = s.send(errorFrame(errors.ErrNotInChat))
	}
}

func (s *Session) writePump(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case frame := <-s.outbound:
			_ = s.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteWait))
			if err := s.conn.WriteJSON(frame); err != nil {
				s.log.Debug("Write failed, closing connection", "error", err)
				_ = s.conn.Close()
				return
			}
		case <-ticker.C:
			if err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(s.cfg.WriteWait)); err != nil {
				s.log.Debug("Ping failed, closing connection", "error", err)
				_ = s.conn.Close()
				return
			}
		}
	}
}
