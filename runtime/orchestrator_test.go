package runtime

import (
	"context"
	"cool-chat/contract"
	"cool-chat/domain"
	"cool-chat/domain/event"
	"cool-chat/runtime/workers"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu     sync.Mutex
	events []event.DomainEvent
}

func (s *recordingSink) Consume(_ context.Context, e event.DomainEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

func (s *recordingSink) snapshot() []event.DomainEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]event.DomainEvent(nil), s.events...)
}

func newOrchestrator(t *testing.T, bufferSize int) (*Orchestrator, *Registry) {
	t.Helper()
	log := logs.GetLoggerFromLevel(slog.LevelError)
	registry := NewRegistry()
	supervisor := workers.NewSupervisor(log, 10*time.Millisecond)
	return NewOrchestrator(log, supervisor, registry, 2, bufferSize, time.Second, '*', 100), registry
}

func TestOrchestrator_Pipeline(t *testing.T) {
	req := require.New(t)
	orchestrator, _ := newOrchestrator(t, 10)
	permanent := &recordingSink{}
	alice := &recordingSink{}
	bob := &recordingSink{}
	orchestrator.Add(permanent)

	req.NoError(orchestrator.Start(context.Background()))
	defer orchestrator.Stop()

	orchestrator.RegisterParticipant("alice", domain.DefaultRoom, alice)
	orchestrator.RegisterParticipant("bob", domain.DefaultRoom, bob)

	req.True(orchestrator.Dispatch(domain.JoinRoomCommand{Room: 1, ParticipantID: "alice", Nickname: "alice"}))
	req.True(orchestrator.Dispatch(domain.PostMessageCommand{
		Room: 1, ParticipantID: "alice", Author: "alice", Content: "this is spam", CreatedAt: time.Now().UTC(),
	}))

	req.Eventually(func() bool { return len(permanent.snapshot()) == 2 }, time.Second, 10*time.Millisecond)

	events := permanent.snapshot()
	req.IsType(event.ParticipantJoined{}, events[0])
	msg, ok := events[1].(event.SanitizedMessage)
	req.True(ok)
	req.Equal("this is ****", msg.Content)

	// The author receives the join notice but not its own message
	req.Eventually(func() bool { return len(bob.snapshot()) == 2 }, time.Second, 10*time.Millisecond)
	req.Len(alice.snapshot(), 1)
	req.IsType(event.ParticipantJoined{}, alice.snapshot()[0])
}

func TestOrchestrator_RoomsCreatedOnDemand(t *testing.T) {
	req := require.New(t)
	orchestrator, _ := newOrchestrator(t, 10)
	orchestrator.RegisterRoom(domain.NewRoom(1, "duplicate"))

	req.NoError(orchestrator.Start(context.Background()))
	defer orchestrator.Stop()

	req.True(orchestrator.Dispatch(domain.JoinRoomCommand{Room: 7, ParticipantID: "p", Nickname: "p"}))
	req.Eventually(func() bool { return len(orchestrator.Rooms()) == 2 }, time.Second, 10*time.Millisecond)

	rooms := orchestrator.Rooms()
	req.Equal("general", rooms[0].Name)
	req.Equal(domain.RoomID(7), rooms[1].ID)
	req.Eventually(func() bool { return rooms[1].Has("p") }, time.Second, 10*time.Millisecond)
}

func TestOrchestrator_DispatchNeverBlocks(t *testing.T) {
	req := require.New(t)
	orchestrator, _ := newOrchestrator(t, 1)
	var dropped int
	orchestrator.OnDrop(func(cmd domain.Command) { dropped++ })

	// Not started: nothing drains the queue
	req.True(orchestrator.Dispatch(domain.PostMessageCommand{Room: 2, Content: "a"}))
	req.False(orchestrator.Dispatch(domain.PostMessageCommand{Room: 2, Content: "b"}))
	req.Equal(1, dropped)
}

func TestOrchestrator_DisconnectParticipant(t *testing.T) {
	req := require.New(t)
	orchestrator, registry := newOrchestrator(t, 1)
	var sink contract.EventSink = &recordingSink{}

	orchestrator.RegisterParticipant("p1", 3, sink)
	orchestrator.RegisterParticipant("p1", 1, sink)
	orchestrator.UnregisterParticipant("p1", 3)
	orchestrator.RegisterParticipant("p1", 2, sink)

	req.Equal([]domain.RoomID{1, 2}, orchestrator.DisconnectParticipant("p1"))
	req.Equal(0, registry.Connections())
}

func TestOrchestrator_StartTwice(t *testing.T) {
	req := require.New(t)
	orchestrator, _ := newOrchestrator(t, 1)
	req.NoError(orchestrator.Start(context.Background()))
	defer orchestrator.Stop()
	req.Error(orchestrator.Start(context.Background()))
}

func TestOrchestrator_StopWithoutStart(t *testing.T) {
	orchestrator, _ := newOrchestrator(t, 1)
	require.NotPanics(t, orchestrator.Stop)
}
