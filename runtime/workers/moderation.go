package workers

import (
	"context"
	"cool-chat/contract"
	"cool-chat/domain/event"
	"cool-chat/moderation"
	"log/slog"

	"github.com/abadojack/whatlanggo"
)

var _ contract.Worker = (*ModerationWorker)(nil)

// ModerationWorker sanitizes posted messages. Every other event passes through untouched.
type ModerationWorker struct {
	moderator moderation.Moderator
	rawEvents <-chan event.DomainEvent
	events    chan<- event.DomainEvent
	log       *slog.Logger
}

func NewModerationWorker(moderator moderation.Moderator,
	rawEvents <-chan event.DomainEvent,
	events chan<- event.DomainEvent, log *slog.Logger) *ModerationWorker {
	return &ModerationWorker{
		moderator: moderator,
		rawEvents: rawEvents,
		events:    events,
		log:       log,
	}
}

func (w *ModerationWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping worker")
			return ctx.Err()
		case e, ok := <-w.rawEvents:
			if !ok {
				w.log.Debug("Channel is closed")
				return nil
			}
			if posted, ok := e.(event.MessagePosted); ok {
				e = w.toSanitizedEvent(posted)
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case w.events <- e:
			}
		}
	}
}

func (w *ModerationWorker) toSanitizedEvent(evt event.MessagePosted) event.SanitizedMessage {
	sanitized, foundWords := w.moderator.Censor(evt.Content)
	if len(foundWords) > 0 {
		w.log.Info("Message censored",
			"room", evt.Room,
			"author", evt.Author,
			"words", len(foundWords))
	}

	var lang string
	if info := whatlanggo.Detect(evt.Content); info.IsReliable() {
		lang = info.Lang.Iso6391()
	}

	return event.SanitizedMessage{
		ID:            evt.ID,
		Room:          evt.Room,
		ParticipantID: evt.ParticipantID,
		Author:        evt.Author,
		Content:       sanitized,
		CensoredWords: foundWords,
		Lang:          lang,
		At:            evt.At,
	}
}
