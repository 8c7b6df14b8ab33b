package metrics

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Checkpoint is one named timing mark, recorded as elapsed time since the
// monitor started.
type Checkpoint struct {
	Label   string
	Elapsed time.Duration
}

// Monitor collects named checkpoints over the life of one sync run and logs
// them as a performance summary at the end. Appends are mutex-guarded so a
// host embedding the sync can checkpoint from more than one goroutine.
type Monitor struct {
	mu    sync.Mutex
	name  string
	start time.Time
	marks []Checkpoint
}

// NewMonitor starts a monitor for the named run.
func NewMonitor(name string) *Monitor {
	return &Monitor{
		name:  name,
		start: time.Now(),
	}
}

// Checkpoint records a named mark and returns the elapsed time since start.
// The delta since the previous mark feeds the stage duration histogram.
func (m *Monitor) Checkpoint(label string) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()

	elapsed := time.Since(m.start)
	var prev time.Duration
	if len(m.marks) > 0 {
		prev = m.marks[len(m.marks)-1].Elapsed
	}
	m.marks = append(m.marks, Checkpoint{Label: label, Elapsed: elapsed})
	StageDuration.WithLabelValues(label).Observe((elapsed - prev).Seconds())

	return elapsed
}

// Checkpoints returns a copy of the recorded marks in insertion order.
func (m *Monitor) Checkpoints() []Checkpoint {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Checkpoint, len(m.marks))
	copy(out, m.marks)
	return out
}

// Total returns the elapsed time since the monitor started.
func (m *Monitor) Total() time.Duration {
	return time.Since(m.start)
}

// Report logs every checkpoint and the total run time.
func (m *Monitor) Report(log *zap.Logger) {
	marks := m.Checkpoints()

	log.Info("performance summary",
		zap.String("run", m.name),
		zap.Int("checkpoints", len(marks)),
		zap.Duration("total", m.Total()))

	for _, cp := range marks {
		log.Info("checkpoint",
			zap.String("label", cp.Label),
			zap.Duration("elapsed", cp.Elapsed))
	}
}
