package runtime

import (
	"context"
	"cool-chat/domain"
	"cool-chat/domain/event"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type Sink struct {
	name string
}

func (s Sink) Consume(_ context.Context, _ event.DomainEvent) error {
	return nil
}

func TestRegistry_Subscribe_One_Room_One_Participant(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	participantID := uuid.NewString()
	roomID := domain.RoomID(1)
	sink := Sink{name: "a"}

	// Given no user is connected
	req.Empty(registry.Sessions)
	req.Empty(registry.RoomMembers)

	// When a participant subscribes a room
	registry.Subscribe(participantID, roomID, sink)

	// Then
	req.Len(registry.Sessions, 1)
	req.Equal(sink, registry.Sessions[participantID])
	req.Contains(registry.RoomMembers[roomID], participantID)
	req.Equal(1, registry.Connections())

	sinks := registry.GetSinksForRoom(roomID)
	req.Len(sinks, 1)
	req.Equal(sink, sinks[participantID])
}

func TestRegistry_Subscribe_One_Room_Multiple_Participants(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	roomID := domain.RoomID(1)

	registry.Subscribe("p1", roomID, Sink{name: "1"})
	registry.Subscribe("p2", roomID, Sink{name: "2"})

	req.Len(registry.Sessions, 2)
	req.Len(registry.RoomMembers[roomID], 2)
	req.Len(registry.GetSinksForRoom(roomID), 2)
	req.Nil(registry.GetSinksForRoom(domain.RoomID(2)))
}

func TestRegistry_Unsubscribe_Keeps_Session_While_In_Another_Room(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	sink := Sink{name: "a"}

	// Given a participant in two rooms
	registry.Subscribe("p1", 1, sink)
	registry.Subscribe("p1", 2, sink)

	// When leaving one of them
	registry.Unsubscribe("p1", 1)

	// Then the session survives and the empty room is gone
	req.Len(registry.Sessions, 1)
	req.NotContains(registry.RoomMembers, domain.RoomID(1))
	req.Len(registry.GetSinksForRoom(2), 1)

	// When leaving the last room, the session is dropped
	registry.Unsubscribe("p1", 2)
	req.Empty(registry.Sessions)
	req.Empty(registry.RoomMembers)
}

func TestRegistry_UnsubscribeAll(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	registry.Subscribe("p1", 3, Sink{})
	registry.Subscribe("p1", 1, Sink{})
	registry.Subscribe("p2", 1, Sink{})

	rooms := registry.UnsubscribeAll("p1")

	req.Equal([]domain.RoomID{1, 3}, rooms)
	req.Equal(1, registry.Connections())
	req.Len(registry.GetSinksForRoom(1), 1)
	req.Nil(registry.GetSinksForRoom(3))
	req.Empty(registry.UnsubscribeAll("unknown"))
}

func TestRegistry_IsMember(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	registry.Subscribe("alice", 1, Sink{name: "a"})
	req.True(registry.IsMember("alice", 1))
	req.False(registry.IsMember("alice", 2))
	req.False(registry.IsMember("bob", 1))

	registry.Unsubscribe("alice", 1)
	req.False(registry.IsMember("alice", 1))
}
