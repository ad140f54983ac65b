package workers

import (
	"context"
	"cool-chat/contract"
	"cool-chat/domain"
	"cool-chat/domain/event"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

var _ contract.Worker = (*PoolUnitWorker)(nil)

// RoomResolver returns the room for an ID, creating it when needed.
type RoomResolver func(id domain.RoomID) *domain.Room

// PoolUnitWorker turns commands into raw events and keeps the rooms' state up to date.
// A room is always served by the same unit, so its events keep the order of its commands.
type PoolUnitWorker struct {
	rooms        RoomResolver
	commands     <-chan domain.Command
	events       chan<- event.DomainEvent
	historyLimit int
	log          *slog.Logger
}

func NewPoolUnitWorker(
	rooms RoomResolver,
	commands <-chan domain.Command,
	events chan<- event.DomainEvent,
	historyLimit int,
	log *slog.Logger) *PoolUnitWorker {
	return &PoolUnitWorker{
		rooms:        rooms,
		commands:     commands,
		events:       events,
		historyLimit: historyLimit,
		log:          log,
	}
}

func (w *PoolUnitWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping worker")
			return ctx.Err()
		case cmd, ok := <-w.commands:
			if !ok {
				w.log.Debug("Channel is closed")
				return nil
			}
			evt, ok := w.handle(cmd)
			if !ok {
				continue
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case w.events <- evt:
			}
		}
	}
}

func (w *PoolUnitWorker) handle(cmd domain.Command) (event.DomainEvent, bool) {
	room := w.rooms(cmd.RoomID())
	switch c := cmd.(type) {
	case domain.PostMessageCommand:
		id := uuid.New()
		room.PostMessage(domain.Message{
			ID:        id,
			Room:      room.ID,
			SenderID:  c.Author,
			Content:   c.Content,
			CreatedAt: c.CreatedAt,
		}, w.historyLimit)
		return event.MessagePosted{
			ID:            id,
			Room:          c.Room,
			ParticipantID: c.ParticipantID,
			Author:        c.Author,
			Content:       c.Content,
			At:            c.CreatedAt,
		}, true
	case domain.JoinRoomCommand:
		if !room.Join(c.ParticipantID) {
			return nil, false
		}
		return event.ParticipantJoined{
			Room:          c.Room,
			ParticipantID: c.ParticipantID,
			Nickname:      c.Nickname,
			At:            time.Now().UTC(),
		}, true
	case domain.LeaveRoomCommand:
		if !room.Leave(c.ParticipantID) {
			return nil, false
		}
		return event.ParticipantLeft{
			Room:          c.Room,
			ParticipantID: c.ParticipantID,
			Nickname:      c.Nickname,
			At:            time.Now().UTC(),
		}, true
	default:
		w.log.Debug(fmt.Sprintf("Unsupported command %T for room %d", cmd, cmd.RoomID()))
		return nil, false
	}
}
