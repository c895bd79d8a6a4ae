package runner

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Reaper discards idle sessions on a ticker.
type Reaper struct {
	svc      *Service
	interval time.Duration
	logger   zerolog.Logger
}

func NewReaper(svc *Service, interval time.Duration, logger zerolog.Logger) *Reaper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Reaper{
		svc:      svc,
		interval: interval,
		logger:   logger.With().Str("component", "session_reaper").Logger(),
	}
}

// Run blocks until context cancellation.
func (r *Reaper) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			if n := r.svc.Reap(now); n > 0 {
				r.logger.Info().Int("reaped", n).Int("active", r.svc.Active()).Msg("idle sessions discarded")
			}
		}
	}
}
