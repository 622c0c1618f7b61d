// Package recalc runs the background recomputation of PLANNED trips after a
// tanker relocation. It is decoupled from the request/response cycle of the
// transition that moved the tanker: the transition commits immediately and
// the worker catches the dependent trips up. Jobs are keyed by tanker id,
// coalesced while queued, and retried on transient failure; the worst case of
// a lost job is a stale displayed distance, corrected on the next enqueue.
package recalc

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Recomputer re-resolves routes and aggregates for a tanker's PLANNED trips.
// Implementations must be idempotent; the worker delivers at-least-once.
type Recomputer interface {
	RecomputePlanned(ctx context.Context, tankerID uint) error
}

type Worker struct {
	rec Recomputer

	mu      sync.Mutex
	queue   []uint
	pending map[uint]struct{}
	wake    chan struct{}

	maxAttempts int
	backoff     time.Duration
}

func NewWorker(rec Recomputer) *Worker {
	return &Worker{
		rec:         rec,
		pending:     make(map[uint]struct{}),
		wake:        make(chan struct{}, 1),
		maxAttempts: 3,
		backoff:     time.Second,
	}
}

// SetRecomputer wires the recompute target after construction. The worker
// enqueues for the trip service while the trip service owns the recompute, so
// one of the two references is set late.
func (w *Worker) SetRecomputer(rec Recomputer) {
	w.rec = rec
}

// Enqueue schedules a recompute for the tanker. Repeat enqueues of a tanker
// already waiting coalesce into one job. Never blocks.
func (w *Worker) Enqueue(tankerID uint) {
	w.mu.Lock()
	if _, waiting := w.pending[tankerID]; waiting {
		w.mu.Unlock()
		return
	}
	w.pending[tankerID] = struct{}{}
	w.queue = append(w.queue, tankerID)
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// Start consumes jobs until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-w.wake:
				for w.RunOnce(ctx) {
				}
			}
		}
	}()
}

// RunOnce processes one queued job, retrying transient failures with backoff.
// Returns false when the queue is empty. The pending mark is cleared before
// processing so a relocation that lands mid-recompute re-queues the tanker.
func (w *Worker) RunOnce(ctx context.Context) bool {
	if w.rec == nil {
		return false
	}
	w.mu.Lock()
	if len(w.queue) == 0 {
		w.mu.Unlock()
		return false
	}
	tankerID := w.queue[0]
	w.queue = w.queue[1:]
	delete(w.pending, tankerID)
	w.mu.Unlock()

	var err error
	for attempt := 1; attempt <= w.maxAttempts; attempt++ {
		if err = w.rec.RecomputePlanned(ctx, tankerID); err == nil {
			return true
		}
		logrus.WithError(err).WithFields(logrus.Fields{
			"tanker_id": tankerID,
			"attempt":   attempt,
		}).Warn("planned trip recompute failed")

		if attempt == w.maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(w.backoff):
		}
	}
	logrus.WithError(err).WithField("tanker_id", tankerID).
		Error("planned trip recompute abandoned; distances stale until next relocation")
	return true
}
