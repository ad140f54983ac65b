// Package projection builds in-memory views from observed events.
// Does not emit events.
package projection

import (
	"context"
	"cool-chat/contract"
	"cool-chat/domain"
	"cool-chat/domain/event"
	"sync"
)

const defaultTimelineSize = 50

var _ contract.EventSink = (*Timeline)(nil)

// Timeline keeps the most recent sanitized messages of every room, oldest first.
type Timeline struct {
	mu       sync.RWMutex
	size     int
	messages map[domain.RoomID][]domain.Message
}

func NewTimeline(size int) *Timeline {
	if size <= 0 {
		size = defaultTimelineSize
	}
	return &Timeline{size: size, messages: make(map[domain.RoomID][]domain.Message)}
}

func (t *Timeline) Name() string { return "timeline" }

func (t *Timeline) Consume(_ context.Context, e event.DomainEvent) error {
	evt, ok := e.(event.SanitizedMessage)
	if !ok {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	room := evt.RoomID()
	messages := append(t.messages[room], fromEvent(evt))
	if len(messages) > t.size {
		messages = messages[len(messages)-t.size:]
	}
	t.messages[room] = messages
	return nil
}

// Recent returns a copy of the room's timeline.
func (t *Timeline) Recent(room domain.RoomID) []domain.Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]domain.Message(nil), t.messages[room]...)
}

func fromEvent(evt event.SanitizedMessage) domain.Message {
	return domain.Message{
		ID:        evt.ID,
		Room:      evt.RoomID(),
		SenderID:  evt.Author,
		Content:   evt.Content,
		Lang:      evt.Lang,
		CreatedAt: evt.At,
	}
}
