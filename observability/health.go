package observability

import (
	"os"
	"sync"
	"time"

	"github.com/shirou/gopsutil/process"
)

// HealthStats is a snapshot of the server process.
type HealthStats struct {
	Status      string    `json:"status"`
	Connections int       `json:"connections"`
	RSSBytes    uint64    `json:"rss_bytes"`
	CPUPercent  float64   `json:"cpu_percent"`
	SampledAt   time.Time `json:"sampled_at"`
}

// HealthMonitor keeps the latest process sample, refreshed by a worker.
type HealthMonitor struct {
	mu     sync.RWMutex
	proc   *process.Process
	latest HealthStats
}

func NewHealthMonitor() (*HealthMonitor, error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, err
	}
	return &HealthMonitor{proc: p, latest: HealthStats{Status: "ok"}}, nil
}

// Sample reads memory and cpu usage of the current process and stores them.
func (h *HealthMonitor) Sample() (HealthStats, error) {
	mem, err := h.proc.MemoryInfo()
	if err != nil {
		return HealthStats{}, err
	}
	cpu, err := h.proc.CPUPercent()
	if err != nil {
		return HealthStats{}, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest.RSSBytes = mem.RSS
	h.latest.CPUPercent = cpu
	h.latest.SampledAt = time.Now().UTC()
	return h.latest, nil
}

// Latest returns the last sample with the given connection count.
func (h *HealthMonitor) Latest(connections int) HealthStats {
	h.mu.RLock()
	defer h.mu.RUnlock()
	stats := h.latest
	stats.Connections = connections
	return stats
}
