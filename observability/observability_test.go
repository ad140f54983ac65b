package observability

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	req := require.New(t)
	m := NewMetrics()

	m.MessagePosted("1", "en", 2)
	m.MessagePosted("1", "", 0)
	m.ParticipantJoined()
	m.SetConnections(3)
	m.ObserveQueue("commands", 4, 10)

	req.Equal(float64(1), testutil.ToFloat64(m.messagesPosted.WithLabelValues("1", "en")))
	req.Equal(float64(1), testutil.ToFloat64(m.messagesPosted.WithLabelValues("1", "unknown")))
	req.Equal(float64(2), testutil.ToFloat64(m.censoredWords.WithLabelValues("1")))
	req.Equal(float64(3), testutil.ToFloat64(m.connections))
	req.Equal(float64(4), testutil.ToFloat64(m.queueLength.WithLabelValues("commands")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	req.Equal(200, rec.Code)
	req.True(strings.Contains(rec.Body.String(), "chat_connections 3"))
}

func TestMetrics_SeveralInstances(t *testing.T) {
	require.NotPanics(t, func() {
		NewMetrics()
		NewMetrics()
	})
}

func TestHealthMonitor(t *testing.T) {
	req := require.New(t)
	h, err := NewHealthMonitor()
	req.NoError(err)

	stats, err := h.Sample()
	req.NoError(err)
	req.Greater(stats.RSSBytes, uint64(0))

	latest := h.Latest(5)
	req.Equal("ok", latest.Status)
	req.Equal(5, latest.Connections)
	req.Equal(stats.RSSBytes, latest.RSSBytes)
}
