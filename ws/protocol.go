package ws

import (
	"cool-chat/domain"
	"cool-chat/domain/event"
	"cool-chat/errors"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
)

type FrameType string

const (
	// client -> server
	FrameNick    FrameType = "nick"
	FrameJoin    FrameType = "join"
	FrameLeave   FrameType = "leave"
	FrameMessage FrameType = "message"
	FrameHistory FrameType = "history"
	FrameSearch  FrameType = "search"

	// server -> client
	FramePrompt  FrameType = "prompt"
	FrameWelcome FrameType = "welcome"
	FrameSystem  FrameType = "system"
	FrameError   FrameType = "error"
)

const NicknamePrompt = "Enter your nickname: "

type ClientFrame struct {
	Type   FrameType `json:"type"`
	Room   int       `json:"room,omitempty"`
	Text   string    `json:"text,omitempty"`
	Cursor *string   `json:"cursor,omitempty"`
}

// MessageView is the wire form of a chat message. Time is rendered as H:MM.
type MessageView struct {
	ID     string    `json:"id"`
	Room   int       `json:"room"`
	Author string    `json:"author"`
	Text   string    `json:"text"`
	At     time.Time `json:"at"`
	Time   string    `json:"time"`
}

type ServerFrame struct {
	Type     FrameType     `json:"type"`
	Room     int           `json:"room,omitempty"`
	Text     string        `json:"text,omitempty"`
	ID       string        `json:"id,omitempty"`
	Author   string        `json:"author,omitempty"`
	At       *time.Time    `json:"at,omitempty"`
	Time     string        `json:"time,omitempty"`
	Messages []MessageView `json:"messages,omitempty"`
	Cursor   *string       `json:"cursor,omitempty"`
}

// ParseClientFrame decodes a JSON frame. Text that is not a JSON object is
// taken as a plain chat line, so that raw-text clients can still talk.
func ParseClientFrame(data []byte) (ClientFrame, error) {
	trimmed := strings.TrimSpace(string(data))
	if !strings.HasPrefix(trimmed, "{") {
		return ClientFrame{Type: FrameMessage, Text: string(data)}, nil
	}
	var frame ClientFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		return ClientFrame{}, fmt.Errorf("%w: %v", errors.ErrUnknownFrame, err)
	}
	switch frame.Type {
	case FrameNick, FrameJoin, FrameLeave, FrameMessage, FrameHistory, FrameSearch:
		return frame, nil
	default:
		return ClientFrame{}, fmt.Errorf("%w: %q", errors.ErrUnknownFrame, frame.Type)
	}
}

func promptFrame() ServerFrame {
	return ServerFrame{Type: FramePrompt, Text: NicknamePrompt}
}

func welcomeFrame(nickname string) ServerFrame {
	return ServerFrame{Type: FrameWelcome, Text: fmt.Sprintf("Welcome, %s!", nickname)}
}

func errorFrame(err error) ServerFrame {
	return ServerFrame{Type: FrameError, Text: err.Error()}
}

func historyFrame(room domain.RoomID, messages []domain.Message, cursor *string) ServerFrame {
	return ServerFrame{Type: FrameHistory, Room: int(room), Messages: toViews(messages), Cursor: cursor}
}

func searchFrame(room domain.RoomID, messages []domain.Message) ServerFrame {
	return ServerFrame{Type: FrameSearch, Room: int(room), Messages: toViews(messages)}
}

// toFrame maps a domain event to what a participant sees. Raw messages are never shown.
func toFrame(e event.DomainEvent) (ServerFrame, bool) {
	switch evt := e.(type) {
	case event.SanitizedMessage:
		at := evt.At
		return ServerFrame{
			Type:   FrameMessage,
			Room:   evt.Room,
			ID:     evt.ID.String(),
			Author: evt.Author,
			Text:   evt.Content,
			At:     &at,
			Time:   domain.LocalClock(evt.At),
		}, true
	case event.ParticipantJoined:
		return ServerFrame{
			Type: FrameSystem,
			Room: evt.Room,
			Text: fmt.Sprintf("User %s joined the chat", evt.Nickname),
		}, true
	case event.ParticipantLeft:
		return ServerFrame{
			Type: FrameSystem,
			Room: evt.Room,
			Text: fmt.Sprintf("User %s left the chat", evt.Nickname),
		}, true
	default:
		return ServerFrame{}, false
	}
}

func toViews(messages []domain.Message) []MessageView {
	return lo.Map(messages, func(m domain.Message, _ int) MessageView {
		return MessageView{
			ID:     m.ID.String(),
			Room:   int(m.Room),
			Author: m.SenderID,
			Text:   m.Content,
			At:     m.CreatedAt,
			Time:   domain.LocalClock(m.CreatedAt),
		}
	})
}
