package observability

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/process"
)

// Stats is the process telemetry snapshot served by the inspect
// endpoint.
type Stats struct {
	// Process metrics from the OS point of view.
	PID        int     `json:"pid"`
	PidStatus  string  `json:"pid_status"`
	CpuPercent float64 `json:"cpu_percent"`
	RamBytes   uint64  `json:"ram_bytes"`

	// Go runtime metrics.
	AllocMemMb uint64 `json:"alloc_mem_mb"`
	NumGC      uint32 `json:"num_gc"`
	Goroutines int    `json:"goroutines"`

	UpdatedAt time.Time `json:"updated_at"`
}

// Monitor refreshes a telemetry snapshot on a fixed interval. Readers
// never block the refresh loop.
type Monitor struct {
	log  *slog.Logger
	mu   sync.RWMutex
	last Stats
}

func NewMonitor(log *slog.Logger) *Monitor {
	return &Monitor{log: log}
}

// Run refreshes the snapshot every interval until the context ends.
func (m *Monitor) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}
	m.refresh(p)

	for {
		select {
		case <-ctx.Done():
			m.log.Info("Stopping monitor")
			return ctx.Err()
		case <-ticker.C:
			m.refresh(p)
		}
	}
}

func (m *Monitor) refresh(p *process.Process) {
	rss, cpu, status, err := selfStats(p)
	if err != nil {
		m.log.Error("Failed to collect self stats", "err", err)
		return
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	m.mu.Lock()
	m.last = Stats{
		PID:        os.Getpid(),
		PidStatus:  status,
		CpuPercent: cpu,
		RamBytes:   rss,
		AllocMemMb: mem.Alloc / 1024 / 1024,
		NumGC:      mem.NumGC,
		Goroutines: runtime.NumGoroutine(),
		UpdatedAt:  time.Now().UTC(),
	}
	m.mu.Unlock()

	m.log.Debug("Stats refreshed", "cpu", cpu, "ram_bytes", rss, "status", status)
}

func (m *Monitor) GetLatest() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.last
}

// selfStats retrieves memory, CPU and OS status for the given process.
func selfStats(p *process.Process) (uint64, float64, string, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, "", err
	}
	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return 0, 0, "", err
	}
	status, err := p.Status()
	if err != nil {
		return 0, 0, "", err
	}
	return memInfo.RSS, cpuPercent, status, nil
}
