package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/storytellerz/backend/internal/domain"
)

type manualStream struct {
	ch  chan domain.StatusUpdate
	err error
	ctx context.Context
}

func (s *manualStream) Subscribe(ctx context.Context, requestID string) (<-chan domain.StatusUpdate, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.ctx = ctx
	return s.ch, nil
}

func waitDone(t *testing.T, m *ProgressMonitor) {
	t.Helper()
	select {
	case <-m.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("monitor did not stop in time")
	}
}

func TestProgressMonitor(t *testing.T) {
	ctx := context.Background()

	t.Run("tracks the latest message", func(t *testing.T) {
		stream := &manualStream{ch: make(chan domain.StatusUpdate, 4)}
		m := StartProgressMonitor(ctx, stream, "req-1")

		stream.ch <- domain.StatusUpdate{Status: "Reading card..."}
		stream.ch <- domain.StatusUpdate{Status: "Looking up pricing..."}
		close(stream.ch)
		waitDone(t, m)

		if got := m.Status().Status; got != "Looking up pricing..." {
			t.Errorf("Status = %q, want the last message", got)
		}
	})

	t.Run("terminal message stops consumption", func(t *testing.T) {
		stream := &manualStream{ch: make(chan domain.StatusUpdate, 2)}
		m := StartProgressMonitor(ctx, stream, "req-1")

		stream.ch <- domain.StatusUpdate{Status: "Complete"}
		waitDone(t, m)

		if got := m.Status(); !got.IsTerminal() || got.IsError() {
			t.Errorf("Status = %+v, want terminal non-error", got)
		}
		select {
		case <-stream.ctx.Done():
		default:
			t.Error("subscription context should be cancelled after a terminal message")
		}
	})

	t.Run("error message is terminal", func(t *testing.T) {
		stream := &manualStream{ch: make(chan domain.StatusUpdate, 2)}
		m := StartProgressMonitor(ctx, stream, "req-1")

		stream.ch <- domain.StatusUpdate{Status: "Error: upstream unavailable"}
		waitDone(t, m)

		if got := m.Status(); !got.IsError() {
			t.Errorf("Status = %+v, want error-level", got)
		}
	})

	t.Run("close cancels the subscription and is idempotent", func(t *testing.T) {
		stream := &manualStream{ch: make(chan domain.StatusUpdate)}
		m := StartProgressMonitor(ctx, stream, "req-1")

		m.Close()
		m.Close()
		select {
		case <-stream.ctx.Done():
		case <-time.After(2 * time.Second):
			t.Fatal("subscription context was not cancelled")
		}
	})

	t.Run("nil stream and subscribe failure degrade silently", func(t *testing.T) {
		m := StartProgressMonitor(ctx, nil, "req-1")
		waitDone(t, m)
		if got := m.Status().Status; got != "Initializing..." {
			t.Errorf("Status = %q", got)
		}

		failing := &manualStream{err: errors.New("stream unavailable")}
		m = StartProgressMonitor(ctx, failing, "req-1")
		waitDone(t, m)
		m.Close()
	})
}
