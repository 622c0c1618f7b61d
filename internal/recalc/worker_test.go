package recalc

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeRecomputer struct {
	calls    []uint
	failures map[uint]int
}

func (f *fakeRecomputer) RecomputePlanned(ctx context.Context, tankerID uint) error {
	f.calls = append(f.calls, tankerID)
	if f.failures[tankerID] > 0 {
		f.failures[tankerID]--
		return errors.New("route provider unreachable")
	}
	return nil
}

func newTestWorker(rec Recomputer) *Worker {
	w := NewWorker(rec)
	w.backoff = time.Millisecond
	return w
}

func TestEnqueueCoalesces(t *testing.T) {
	rec := &fakeRecomputer{}
	w := newTestWorker(rec)

	w.Enqueue(7)
	w.Enqueue(7)
	w.Enqueue(9)
	w.Enqueue(7)

	ctx := context.Background()
	for w.RunOnce(ctx) {
	}
	want := []uint{7, 9}
	if len(rec.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", rec.calls, want)
	}
	for i, id := range want {
		if rec.calls[i] != id {
			t.Errorf("call %d = %d, want %d", i, rec.calls[i], id)
		}
	}
}

func TestRunOnceRetriesTransientFailure(t *testing.T) {
	rec := &fakeRecomputer{failures: map[uint]int{7: 2}}
	w := newTestWorker(rec)
	w.Enqueue(7)

	if !w.RunOnce(context.Background()) {
		t.Fatal("RunOnce returned false with a queued job")
	}
	if len(rec.calls) != 3 {
		t.Errorf("attempts = %d, want 2 failures then success", len(rec.calls))
	}
}

func TestRunOnceGivesUpAfterMaxAttempts(t *testing.T) {
	rec := &fakeRecomputer{failures: map[uint]int{7: 10}}
	w := newTestWorker(rec)
	w.Enqueue(7)
	w.Enqueue(9)

	// The failing job is consumed, not re-queued, and the next job still runs.
	if !w.RunOnce(context.Background()) {
		t.Fatal("RunOnce returned false with a queued job")
	}
	if !w.RunOnce(context.Background()) {
		t.Fatal("second job not processed")
	}
	if got := rec.calls[len(rec.calls)-1]; got != 9 {
		t.Errorf("last call = %d, want 9", got)
	}
}

func TestReEnqueueDuringProcessing(t *testing.T) {
	rec := &fakeRecomputer{}
	w := newTestWorker(rec)
	w.Enqueue(7)

	// The pending mark is cleared before processing, so a relocation landing
	// mid-recompute schedules a fresh job.
	w.mu.Lock()
	queued := len(w.queue)
	w.mu.Unlock()
	if queued != 1 {
		t.Fatalf("queue = %d", queued)
	}
	w.RunOnce(context.Background())
	w.Enqueue(7)
	if !w.RunOnce(context.Background()) {
		t.Fatal("re-enqueued job not processed")
	}
	if len(rec.calls) != 2 {
		t.Errorf("calls = %v, want tanker 7 twice", rec.calls)
	}
}

func TestRunOnceEmptyQueue(t *testing.T) {
	w := newTestWorker(&fakeRecomputer{})
	if w.RunOnce(context.Background()) {
		t.Error("RunOnce reported work on an empty queue")
	}
}

func TestRunOnceWithoutRecomputer(t *testing.T) {
	w := NewWorker(nil)
	w.Enqueue(7)
	if w.RunOnce(context.Background()) {
		t.Error("RunOnce ran without a recompute target")
	}
}
