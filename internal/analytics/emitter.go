package analytics

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Sink receives analytics events. Failures are logged and otherwise ignored.
type Sink interface {
	Name() string
	Record(ctx context.Context, evt Event) error
}

// Emitter fans events out to sinks from a single background goroutine. Emit never
// blocks: when the buffer is full the event is dropped.
type Emitter struct {
	events  chan Event
	sinks   []Sink
	timeout time.Duration
	logger  zerolog.Logger
	dropped atomic.Int64
	now     func() time.Time
}

// NewEmitter builds an emitter with the given buffer size (default 256).
func NewEmitter(buffer int, logger zerolog.Logger, sinks ...Sink) *Emitter {
	if buffer <= 0 {
		buffer = 256
	}
	return &Emitter{
		events:  make(chan Event, buffer),
		sinks:   sinks,
		timeout: 5 * time.Second,
		logger:  logger.With().Str("component", "analytics").Logger(),
		now:     time.Now,
	}
}

// Emit queues an event for delivery.
func (e *Emitter) Emit(userKey, name string, params map[string]any) {
	if e == nil {
		return
	}
	evt := Event{Name: name, UserKey: userKey, Params: params, At: e.now().UTC()}
	select {
	case e.events <- evt:
	default:
		e.dropped.Add(1)
		e.logger.Warn().Str("event", name).Msg("analytics buffer full, event dropped")
	}
}

// Dropped reports how many events were discarded because the buffer was full.
func (e *Emitter) Dropped() int64 { return e.dropped.Load() }

// Run delivers queued events until ctx is cancelled, then flushes what is buffered.
func (e *Emitter) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			e.flush()
			return ctx.Err()
		case evt := <-e.events:
			e.deliver(context.Background(), evt)
		}
	}
}

func (e *Emitter) flush() {
	for {
		select {
		case evt := <-e.events:
			e.deliver(context.Background(), evt)
		default:
			return
		}
	}
}

func (e *Emitter) deliver(ctx context.Context, evt Event) {
	for _, sink := range e.sinks {
		sinkCtx, cancel := context.WithTimeout(ctx, e.timeout)
		if err := sink.Record(sinkCtx, evt); err != nil {
			e.logger.Warn().Err(err).Str("sink", sink.Name()).Str("event", evt.Name).Msg("analytics sink failed")
		}
		cancel()
	}
}
