package sink

import (
	"context"
	"cool-chat/contract"
	"cool-chat/domain/event"
	"cool-chat/repositories"
	"log/slog"
)

var _ contract.EventSink = SearchSink{}

// SearchSink feeds the full-text index.
type SearchSink struct {
	repository repositories.ISearchRepository
	log        *slog.Logger
}

func NewSearchSink(repository repositories.ISearchRepository, log *slog.Logger) SearchSink {
	return SearchSink{repository: repository, log: log}
}

func (s SearchSink) Name() string { return "search" }

func (s SearchSink) Consume(_ context.Context, e event.DomainEvent) error {
	if evt, ok := e.(event.SanitizedMessage); ok {
		return s.repository.Index(ToDiskMessage(evt))
	}
	return nil
}
