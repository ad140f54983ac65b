package domain

import "sync"

type RoomID int

// DefaultRoom is the room every participant lands in once named.
const DefaultRoom RoomID = 1

type Room struct {
	ID   RoomID
	Name string

	mu           sync.RWMutex
	participants map[string]struct{}
	messages     []Message
}

func NewRoom(id int, name string) *Room {
	return &Room{
		ID:           RoomID(id),
		Name:         name,
		participants: make(map[string]struct{}),
	}
}

// Join reports whether the participant was not already a member.
func (r *Room) Join(participantID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.participants[participantID]; ok {
		return false
	}
	r.participants[participantID] = struct{}{}
	return true
}

// Leave reports whether the participant was a member.
func (r *Room) Leave(participantID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.participants[participantID]; !ok {
		return false
	}
	delete(r.participants, participantID)
	return true
}

func (r *Room) Has(participantID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.participants[participantID]
	return ok
}

func (r *Room) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.participants)
}

// PostMessage appends to the in-memory log, keeping at most limit messages when limit > 0.
func (r *Room) PostMessage(message Message, limit int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
	if limit > 0 && len(r.messages) > limit {
		r.messages = r.messages[len(r.messages)-limit:]
	}
}

func (r *Room) Messages() []Message {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}
