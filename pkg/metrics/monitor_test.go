package metrics

import (
	"fmt"
	"sync"
	"testing"

	"go.uber.org/zap"
)

func TestMonitorKeepsInsertionOrder(t *testing.T) {
	m := NewMonitor("test")

	m.Checkpoint("connect")
	m.Checkpoint("schema")
	m.Checkpoint("insert")

	marks := m.Checkpoints()
	if len(marks) != 3 {
		t.Fatalf("expected 3 checkpoints, got %d", len(marks))
	}

	want := []string{"connect", "schema", "insert"}
	for i, label := range want {
		if marks[i].Label != label {
			t.Errorf("checkpoint %d: expected label %q, got %q", i, label, marks[i].Label)
		}
	}

	for i := 1; i < len(marks); i++ {
		if marks[i].Elapsed < marks[i-1].Elapsed {
			t.Errorf("checkpoint %d elapsed %v is before checkpoint %d elapsed %v",
				i, marks[i].Elapsed, i-1, marks[i-1].Elapsed)
		}
	}
}

func TestMonitorConcurrentAppend(t *testing.T) {
	m := NewMonitor("concurrent")

	const goroutines = 20
	const perGoroutine = 5

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				m.Checkpoint(fmt.Sprintf("g%d-%d", g, i))
			}
		}(g)
	}
	wg.Wait()

	if got := len(m.Checkpoints()); got != goroutines*perGoroutine {
		t.Errorf("expected %d checkpoints, got %d", goroutines*perGoroutine, got)
	}
}

func TestMonitorCheckpointsReturnsCopy(t *testing.T) {
	m := NewMonitor("copy")
	m.Checkpoint("first")

	marks := m.Checkpoints()
	marks[0].Label = "mutated"

	if got := m.Checkpoints()[0].Label; got != "first" {
		t.Errorf("internal state mutated through returned slice: %q", got)
	}
}

func TestMonitorReport(t *testing.T) {
	m := NewMonitor("report")
	m.Checkpoint("connect")
	m.Checkpoint("verify")

	// Must not panic on a quiet logger.
	m.Report(zap.NewNop())
}
