package workers

import (
	"context"
	"cool-chat/contract"
	"cool-chat/observability"
	"log/slog"
	"time"
)

var _ contract.Worker = (*HealthMonitoringWorker)(nil)

// HealthMonitoringWorker refreshes the process sample served by /healthz
// and publishes the number of connected participants.
type HealthMonitoringWorker struct {
	log            *slog.Logger
	monitor        *observability.HealthMonitor
	metrics        *observability.Metrics
	registry       contract.IRegistry
	metricInterval time.Duration
}

func NewHealthMonitoringWorker(log *slog.Logger, monitor *observability.HealthMonitor,
	metrics *observability.Metrics, registry contract.IRegistry,
	metricInterval time.Duration) *HealthMonitoringWorker {
	return &HealthMonitoringWorker{
		log:            log,
		monitor:        monitor,
		metrics:        metrics,
		registry:       registry,
		metricInterval: metricInterval,
	}
}

func (w *HealthMonitoringWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping health sampling")
			return nil
		case <-ticker.C:
			if _, err := w.monitor.Sample(); err != nil {
				w.log.Error("Error while sampling process", "error", err)
			}
			w.metrics.SetConnections(w.registry.Connections())
		}
	}
}
