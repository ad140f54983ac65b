package sink

import (
	"context"
	"cool-chat/contract"
	"cool-chat/domain/event"
	"cool-chat/repositories"
	"log/slog"
)

var _ contract.EventSink = DiskSink{}

// DiskSink persists sanitized messages. Raw messages never reach the disk.
type DiskSink struct {
	repository repositories.IMessageRepository
	log        *slog.Logger
}

func NewDiskSink(repository repositories.IMessageRepository, log *slog.Logger) DiskSink {
	return DiskSink{repository: repository, log: log}
}

func (d DiskSink) Name() string { return "disk" }

func (d DiskSink) Consume(_ context.Context, e event.DomainEvent) error {
	switch evt := e.(type) {
	case event.SanitizedMessage:
		return d.repository.StoreMessage(ToDiskMessage(evt))
	default:
		return nil
	}
}

func ToDiskMessage(evt event.SanitizedMessage) repositories.DiskMessage {
	return repositories.DiskMessage{
		ID:      evt.ID,
		Room:    evt.Room,
		Author:  evt.Author,
		Content: evt.Content,
		Lang:    evt.Lang,
		At:      evt.At,
	}
}
