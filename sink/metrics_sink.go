package sink

import (
	"context"
	"cool-chat/contract"
	"cool-chat/domain/event"
	"strconv"
)

// Recorder is the subset of the metrics used by the pipeline.
type Recorder interface {
	MessagePosted(room, lang string, censored int)
	ParticipantJoined()
	ParticipantLeft()
}

var _ contract.EventSink = MetricsSink{}

type MetricsSink struct {
	recorder Recorder
}

func NewMetricsSink(recorder Recorder) MetricsSink {
	return MetricsSink{recorder: recorder}
}

func (m MetricsSink) Name() string { return "metrics" }

func (m MetricsSink) Consume(_ context.Context, e event.DomainEvent) error {
	switch evt := e.(type) {
	case event.SanitizedMessage:
		m.recorder.MessagePosted(strconv.Itoa(evt.Room), evt.Lang, len(evt.CensoredWords))
	case event.ParticipantJoined:
		m.recorder.ParticipantJoined()
	case event.ParticipantLeft:
		m.recorder.ParticipantLeft()
	}
	return nil
}
