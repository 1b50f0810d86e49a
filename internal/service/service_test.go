package service_test

import (
	"context"
	"testing"

	"github.com/chinazagideon/mock-generator/internal/service"
)

// ─────────────────────────────────────────────────────────────
// MockEmitter tests
// ─────────────────────────────────────────────────────────────

func TestMockEmitter_SnapshotIsACopy(t *testing.T) {
	m := &service.MockEmitter{}
	ctx := context.Background()

	m.Emit(ctx, "generation:jobs-changed", "job-1")
	snap := m.Snapshot()
	m.Emit(ctx, "generation:job-completed", map[string]any{"jobId": "job-1"})

	if len(snap) != 1 {
		t.Fatalf("expected snapshot of 1 event, got %d", len(snap))
	}
	if got := m.Snapshot(); len(got) != 2 || got[1].Event != "generation:job-completed" {
		t.Errorf("unexpected events: %+v", got)
	}
}

func TestMockEmitter_ConcurrentEmit(t *testing.T) {
	m := &service.MockEmitter{}
	ctx := context.Background()

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			m.Emit(ctx, "generation:job-completed", nil)
			done <- struct{}{}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
	if n := len(m.Snapshot()); n != 8 {
		t.Fatalf("expected 8 events, got %d", n)
	}
}
