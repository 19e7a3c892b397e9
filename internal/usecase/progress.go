package usecase

import (
	"context"
	"log"
	"sync"

	"github.com/storytellerz/backend/internal/domain"
)

// ProgressMonitor consumes the advisory status channel for one
// extraction request. The displayed status is always the most recently
// received message (last-write-wins); the monitor never influences
// whether the extraction itself succeeds.
//
// Two independent tasks are in flight during extraction: the primary
// extract call and this stream. The monitor is cancellable on its own
// and is additionally closed by the ingestion service the moment the
// primary call completes, whichever side finishes first. Close is safe
// to call more than once and closes the subscription exactly once.
type ProgressMonitor struct {
	mu     sync.Mutex
	latest domain.StatusUpdate

	cancel context.CancelFunc
	once   sync.Once
	done   chan struct{}
}

// StartProgressMonitor subscribes to the status channel for requestID
// and begins consuming in the background. Subscription failures only
// disable the advisory feed; they are logged, not surfaced.
func StartProgressMonitor(ctx context.Context, stream domain.ProgressStream, requestID string) *ProgressMonitor {
	ctx, cancel := context.WithCancel(ctx)
	m := &ProgressMonitor{
		latest: domain.StatusUpdate{Status: "Initializing..."},
		cancel: cancel,
		done:   make(chan struct{}),
	}

	if stream == nil {
		close(m.done)
		return m
	}

	updates, err := stream.Subscribe(ctx, requestID)
	if err != nil {
		log.Printf("[STREAM] subscribe failed for %s: %v (advisory feed disabled)", requestID, err)
		close(m.done)
		return m
	}

	go m.consume(updates)
	return m
}

func (m *ProgressMonitor) consume(updates <-chan domain.StatusUpdate) {
	defer close(m.done)
	for update := range updates {
		m.mu.Lock()
		m.latest = update
		m.mu.Unlock()
		if update.IsTerminal() {
			// The stream signalled its own end; stop listening and do
			// not reopen.
			m.cancel()
			return
		}
	}
}

// Status returns the most recently received advisory message.
func (m *ProgressMonitor) Status() domain.StatusUpdate {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.latest
}

// Close tears the subscription down. Called when the primary
// extraction call returns, regardless of outcome; the stream may keep
// emitting after the main result is in, so the consumer closes it
// proactively.
func (m *ProgressMonitor) Close() {
	m.once.Do(m.cancel)
}

// Done reports when the consuming goroutine has stopped.
func (m *ProgressMonitor) Done() <-chan struct{} {
	return m.done
}
