package workers

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

type queueSample struct {
	length, capacity int
}

type recordingObserver map[string]queueSample

func (r recordingObserver) ObserveQueue(name string, length, capacity int) {
	r[name] = queueSample{length: length, capacity: capacity}
}

func TestChannelCapacityWorker_Sample(t *testing.T) {
	req := require.New(t)
	commands := make(chan int, 4)
	commands <- 1
	commands <- 2

	observer := recordingObserver{}
	worker := NewChannelCapacityWorker(slog.Default(), []NamedChannel{
		{Name: "commands", Channel: commands},
		{Name: "not-a-channel", Channel: 42},
	}, observer, 0)

	worker.Sample()

	req.Equal(queueSample{length: 2, capacity: 4}, observer["commands"])
	req.NotContains(observer, "not-a-channel")
}
