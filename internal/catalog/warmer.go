package catalog

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Warmer periodically refreshes the catalog cache so learners rarely wait on the
// remote API.
type Warmer struct {
	svc      *Service
	interval time.Duration
	timeout  time.Duration
	logger   zerolog.Logger
}

func NewWarmer(svc *Service, interval, timeout time.Duration, logger zerolog.Logger) *Warmer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Warmer{
		svc:      svc,
		interval: interval,
		timeout:  timeout,
		logger:   logger.With().Str("component", "catalog_warmer").Logger(),
	}
}

// Run blocks until context cancellation. A non-positive interval disables it.
func (w *Warmer) Run(ctx context.Context) error {
	if w.svc == nil || w.interval <= 0 {
		return nil
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// run immediately
	w.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *Warmer) tick(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	n, err := w.svc.Refresh(ctx)
	if err != nil {
		w.logger.Warn().Err(err).Msg("catalog refresh failed")
		return
	}
	w.logger.Debug().Int("quizzes", n).Msg("catalog refreshed")
}
