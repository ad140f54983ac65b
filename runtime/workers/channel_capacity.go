package workers

import (
	"context"
	"cool-chat/contract"
	"log/slog"
	"reflect"
	"time"
)

type NamedChannel struct {
	Name    string
	Channel any
}

// QueueObserver receives channel samples.
type QueueObserver interface {
	ObserveQueue(name string, length, capacity int)
}

var _ contract.Worker = (*ChannelCapacityWorker)(nil)

// ChannelCapacityWorker periodically reports the length and capacity of the pipeline channels.
// Reading len(channel) and cap(channel) never blocks the goroutines using them.
type ChannelCapacityWorker struct {
	log            *slog.Logger
	channels       []NamedChannel
	observer       QueueObserver
	metricInterval time.Duration
}

func NewChannelCapacityWorker(log *slog.Logger, channels []NamedChannel,
	observer QueueObserver, metricInterval time.Duration) *ChannelCapacityWorker {
	return &ChannelCapacityWorker{
		log:            log,
		channels:       channels,
		observer:       observer,
		metricInterval: metricInterval,
	}
}

func (w *ChannelCapacityWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping channel sampling")
			return nil
		case <-ticker.C:
			w.Sample()
		}
	}
}

func (w *ChannelCapacityWorker) Sample() {
	for _, nc := range w.channels {
		v := reflect.ValueOf(nc.Channel)
		if v.Kind() != reflect.Chan {
			w.log.Error("Provided object is not a channel", "name", nc.Name)
			continue
		}
		w.observer.ObserveQueue(nc.Name, v.Len(), v.Cap())
	}
}
