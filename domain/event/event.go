package event

import (
	"cool-chat/domain"
	"time"

	"github.com/google/uuid"
)

type DomainEvent interface {
	RoomID() domain.RoomID
}

// Excluder is implemented by events that must not be delivered back to one participant.
type Excluder interface {
	ExcludedParticipant() string
}

type MessagePosted struct {
	ID            uuid.UUID
	Room          int
	ParticipantID string
	Author        string
	Content       string
	At            time.Time
}

func (m MessagePosted) RoomID() domain.RoomID {
	return domain.RoomID(m.Room)
}

type SanitizedMessage struct {
	ID            uuid.UUID
	Room          int
	ParticipantID string
	Author        string
	Content       string
	CensoredWords []string
	Lang          string
	At            time.Time
}

func (m SanitizedMessage) RoomID() domain.RoomID {
	return domain.RoomID(m.Room)
}

func (m SanitizedMessage) ExcludedParticipant() string {
	return m.ParticipantID
}

type ParticipantJoined struct {
	Room          int
	ParticipantID string
	Nickname      string
	At            time.Time
}

func (p ParticipantJoined) RoomID() domain.RoomID {
	return domain.RoomID(p.Room)
}

type ParticipantLeft struct {
	Room          int
	ParticipantID string
	Nickname      string
	At            time.Time
}

func (p ParticipantLeft) RoomID() domain.RoomID {
	return domain.RoomID(p.Room)
}

func (p ParticipantLeft) ExcludedParticipant() string {
	return p.ParticipantID
}
