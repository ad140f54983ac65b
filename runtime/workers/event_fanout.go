package workers

import (
	"context"
	"cool-chat/contract"
	"cool-chat/domain/event"
	"log/slog"
	"time"
)

var _ contract.Worker = (*EventFanout)(nil)

// EventFanout delivers each domain event to the permanent sinks and then to
// every participant listening to the event's room.
//
// Delivery is best effort: a sink error or timeout is logged and the next
// sink is served. Sinks are called one after the other so that a given
// participant observes the events of a room in order.
type EventFanout struct {
	log            *slog.Logger
	domainEvents   <-chan event.DomainEvent
	permanentSinks []contract.EventSink
	registry       contract.IRegistry
	sinkTimeout    time.Duration
}

func NewEventFanout(log *slog.Logger, permanentSinks []contract.EventSink,
	registry contract.IRegistry, domainEvents <-chan event.DomainEvent,
	sinkTimeout time.Duration) *EventFanout {
	return &EventFanout{
		log:            log,
		domainEvents:   domainEvents,
		permanentSinks: permanentSinks,
		registry:       registry,
		sinkTimeout:    sinkTimeout,
	}
}

func (w *EventFanout) Run(ctx context.Context) error {
	for {
		select {
		case evt, ok := <-w.domainEvents:
			if !ok {
				return nil
			}
			w.Fanout(ctx, evt)
		case <-ctx.Done():
			w.log.Debug("Context done, stopping fanout")
			return ctx.Err()
		}
	}
}

// Fanout serves permanent sinks first, then the room's participants except the excluded one.
func (w *EventFanout) Fanout(ctx context.Context, evt event.DomainEvent) {
	for _, sink := range w.permanentSinks {
		w.deliver(ctx, sink, evt)
	}

	var excluded string
	if e, ok := evt.(event.Excluder); ok {
		excluded = e.ExcludedParticipant()
	}
	for participantID, sink := range w.registry.GetSinksForRoom(evt.RoomID()) {
		if participantID == excluded {
			continue
		}
		w.deliver(ctx, sink, evt)
	}
}

func (w *EventFanout) deliver(ctx context.Context, sink contract.EventSink, evt event.DomainEvent) {
	sinkCtx, cancel := context.WithTimeout(ctx, w.sinkTimeout)
	defer cancel()
	if err := sink.Consume(sinkCtx, evt); err != nil {
		w.log.Warn("Sink failed to consume event",
			"sink", sinkName(sink),
			"room", evt.RoomID(),
			"error", err)
	}
}

func sinkName(sink contract.EventSink) string {
	if s, ok := sink.(interface{ Name() string }); ok {
		return s.Name()
	}
	return "anonymous"
}
