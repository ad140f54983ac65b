package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the chat collectors. Each instance owns its registry so that
// several servers (or tests) can live in the same process.
type Metrics struct {
	registry         *prometheus.Registry
	messagesPosted   *prometheus.CounterVec
	censoredWords    *prometheus.CounterVec
	participantMoves *prometheus.CounterVec
	connections      prometheus.Gauge
	queueLength      *prometheus.GaugeVec
	queueCapacity    *prometheus.GaugeVec
	droppedCommands  prometheus.Counter
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		messagesPosted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "chat_messages_posted_total",
			Help: "Total number of messages posted",
		}, []string{"room", "lang"}),
		censoredWords: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "chat_censored_words_total",
			Help: "Total number of censored words",
		}, []string{"room"}),
		participantMoves: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "chat_participant_moves_total",
			Help: "Total number of room joins and leaves",
		}, []string{"direction"}),
		connections: factory.NewGauge(prometheus.GaugeOpts{
			Name: "chat_connections",
			Help: "Number of connected participants",
		}),
		queueLength: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "chat_queue_length",
			Help: "Current number of items buffered in an internal channel",
		}, []string{"channel"}),
		queueCapacity: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "chat_queue_capacity",
			Help: "Capacity of an internal channel",
		}, []string{"channel"}),
		droppedCommands: factory.NewCounter(prometheus.CounterOpts{
			Name: "chat_dropped_commands_total",
			Help: "Total number of commands dropped because the queue was full",
		}),
	}
}

func (m *Metrics) MessagePosted(room, lang string, censored int) {
	if lang == "" {
		lang = "unknown"
	}
	m.messagesPosted.WithLabelValues(room, lang).Inc()
	if censored > 0 {
		m.censoredWords.WithLabelValues(room).Add(float64(censored))
	}
}

func (m *Metrics) ParticipantJoined() { m.participantMoves.WithLabelValues("join").Inc() }

func (m *Metrics) ParticipantLeft() { m.participantMoves.WithLabelValues("leave").Inc() }

func (m *Metrics) SetConnections(n int) { m.connections.Set(float64(n)) }

func (m *Metrics) CommandDropped() { m.droppedCommands.Inc() }

// ObserveQueue records the length and capacity of a named channel.
func (m *Metrics) ObserveQueue(name string, length, capacity int) {
	m.queueLength.WithLabelValues(name).Set(float64(length))
	m.queueCapacity.WithLabelValues(name).Set(float64(capacity))
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
