package form

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mdabutalebdev/cv-maker/internal/types"
)

// snapshotWriter persists documents on a background goroutine.
// Only the latest pending document is kept; older pending ones are
// superseded before they reach storage.
type snapshotWriter struct {
	snapshots SnapshotStore
	logger    *slog.Logger
	timeout   time.Duration
	onError   func(error)

	mu      sync.Mutex
	cond    *sync.Cond
	pending *types.FormState
	queued  uint64
	written uint64
	closed  bool
	lastErr error
	done    chan struct{}
}

func newSnapshotWriter(snapshots SnapshotStore, logger *slog.Logger, timeout time.Duration, onError func(error)) *snapshotWriter {
	w := &snapshotWriter{
		snapshots: snapshots,
		logger:    logger,
		timeout:   timeout,
		onError:   onError,
		done:      make(chan struct{}),
	}
	w.cond = sync.NewCond(&w.mu)
	go w.run()
	return w
}

func (w *snapshotWriter) submit(state types.FormState) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.pending = &state
	w.queued++
	w.cond.Broadcast()
}

func (w *snapshotWriter) run() {
	defer close(w.done)
	for {
		w.mu.Lock()
		for w.pending == nil && !w.closed {
			w.cond.Wait()
		}
		if w.pending == nil {
			w.mu.Unlock()
			return
		}
		state := *w.pending
		seq := w.queued
		w.pending = nil
		w.mu.Unlock()

		err := w.write(state)
		if err != nil {
			w.logger.Warn("snapshot write failed; continuing with in-memory state", "error", err)
			if w.onError != nil {
				w.onError(err)
			}
		}

		w.mu.Lock()
		w.written = seq
		w.lastErr = err
		w.cond.Broadcast()
		w.mu.Unlock()
	}
}

func (w *snapshotWriter) write(state types.FormState) error {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()
	return w.snapshots.Save(ctx, state)
}

// flush blocks until every document submitted before the call has been written.
func (w *snapshotWriter) flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	target := w.queued
	for w.written < target {
		w.cond.Wait()
	}
	return w.lastErr
}

func (w *snapshotWriter) lastError() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}

func (w *snapshotWriter) close() error {
	err := w.flush()
	w.mu.Lock()
	w.closed = true
	w.cond.Broadcast()
	w.mu.Unlock()
	<-w.done
	return err
}
