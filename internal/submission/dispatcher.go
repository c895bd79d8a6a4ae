package submission

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Task is a unit of background network work.
type Task func(ctx context.Context) error

// Dispatcher runs fire-and-forget tasks off the caller's goroutine. Each task gets
// its own timeout; failures are reported to the task's callback, never retried.
type Dispatcher struct {
	timeout time.Duration
	logger  zerolog.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a dispatcher. timeout <= 0 defaults to 30s.
func NewDispatcher(timeout time.Duration, logger zerolog.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Dispatcher{
		timeout: timeout,
		logger:  logger.With().Str("component", "submission_dispatcher").Logger(),
	}
}

// Go schedules task and returns immediately. onDone, when set, receives the task
// result. It returns false once the dispatcher has been closed.
func (d *Dispatcher) Go(name string, task Task, onDone func(error)) bool {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.logger.Warn().Str("task", name).Msg("dispatcher closed, task dropped")
		return false
	}
	d.wg.Add(1)
	d.mu.Unlock()

	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		started := time.Now()
		err := task(ctx)
		if err != nil {
			d.logger.Warn().Err(err).Str("task", name).Dur("elapsed", time.Since(started)).Msg("background task failed")
		} else {
			d.logger.Debug().Str("task", name).Dur("elapsed", time.Since(started)).Msg("background task done")
		}
		if onDone != nil {
			onDone(err)
		}
	}()
	return true
}

// Wait blocks until every scheduled task has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Close stops accepting tasks and waits for in-flight ones or ctx expiry.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
