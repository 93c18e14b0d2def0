package store

import (
	"context"
	"errors"

	"github.com/mykitchen/kitchen/internal/state"
	"github.com/mykitchen/kitchen/pkg/logger"
)

var (
	// ErrStale means the work finished after its context ended; its result was
	// not dispatched.
	ErrStale  = errors.New("store: completion arrived after its context ended")
	ErrClosed = errors.New("store: closed")
)

// Fetch performs blocking work and returns the event that records its result.
// A nil event with a nil error dispatches nothing.
type Fetch func(ctx context.Context) (state.Event, error)

// Go runs fetch on its own goroutine and dispatches the resulting event. The
// returned channel receives fetch's error, ErrStale, or nothing, and is then
// closed. In-flight work is never cancelled by the store.
func (s *Store) Go(ctx context.Context, fetch Fetch) <-chan error {
	done := make(chan error, 1)

	s.lifeMu.Lock()
	if s.closed {
		s.lifeMu.Unlock()
		done <- ErrClosed
		close(done)
		return done
	}
	s.wg.Add(1)
	s.lifeMu.Unlock()

	go func() {
		defer s.wg.Done()
		defer close(done)

		ev, err := fetch(ctx)
		if ctx.Err() != nil {
			logger.Debug("Dropping stale async completion", map[string]interface{}{
				"cause": ctx.Err().Error(),
			})
			done <- ErrStale
			return
		}
		if err != nil {
			done <- err
			return
		}
		if ev != nil {
			s.dispatch(ev, true)
		}
	}()

	return done
}
