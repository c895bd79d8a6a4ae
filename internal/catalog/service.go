package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/learnhub/internal/catalog/bank"
	"github.com/gokatarajesh/learnhub/internal/catalog/remote"
	"github.com/gokatarajesh/learnhub/internal/quiz"
)

// Cache defines catalog cache behavior (implemented by RedisCache).
type Cache interface {
	Get(ctx context.Context) ([]Entry, error)
	Set(ctx context.Context, entries []Entry) error
	Invalidate(ctx context.Context) error
}

type remoteProvider interface {
	List(ctx context.Context) ([]remote.Quiz, error)
	Get(ctx context.Context, id string) (remote.Quiz, error)
}

// Service resolves published quizzes: cache, then remote API, then the offline bank.
type Service struct {
	remote remoteProvider
	cache  Cache
	bank   *bank.Bank
	logger zerolog.Logger
}

type ServiceOptions struct {
	Cache Cache
	Bank  *bank.Bank
}

func NewService(remote remoteProvider, opts ServiceOptions, logger zerolog.Logger) *Service {
	return &Service{
		remote: remote,
		cache:  opts.Cache,
		bank:   opts.Bank,
		logger: logger.With().Str("component", "catalog").Logger(),
	}
}

// Published lists the quizzes a learner may start.
func (s *Service) Published(ctx context.Context) ([]Summary, error) {
	entries, err := s.entries(ctx, false)
	if err != nil {
		return nil, err
	}
	return summaries(entries), nil
}

// Summary returns the list-card view of one published quiz.
func (s *Service) Summary(ctx context.Context, id string) (Summary, error) {
	entry, err := s.lookup(ctx, id)
	if err != nil {
		return Summary{}, err
	}
	return entry.Summary, nil
}

// Definition returns the full quiz for id, ready to build a session from.
func (s *Service) Definition(ctx context.Context, id string) (quiz.Definition, error) {
	entry, err := s.lookup(ctx, id)
	if err != nil {
		return quiz.Definition{}, err
	}
	return entry.Definition, nil
}

// Refresh reloads the catalog from the remote API and rewrites the cache.
func (s *Service) Refresh(ctx context.Context) (int, error) {
	entries, err := s.entries(ctx, true)
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

func (s *Service) lookup(ctx context.Context, id string) (Entry, error) {
	entries, err := s.entries(ctx, false)
	if err != nil && !errors.Is(err, ErrUpstream) {
		return Entry{}, err
	}
	for _, e := range entries {
		if e.Summary.ID == id {
			return e, nil
		}
	}

	// Quizzes published after the list was cached are only reachable by id.
	if s.remote != nil {
		q, getErr := s.remote.Get(ctx, id)
		switch {
		case getErr == nil && q.Published():
			if err == nil {
				s.invalidate(ctx)
			}
			return fromRemote(q), nil
		case getErr == nil, errors.Is(getErr, remote.ErrNotFound):
			return Entry{}, fmt.Errorf("%w: %s", ErrQuizNotFound, id)
		case err == nil:
			s.logger.Warn().Err(getErr).Str("quiz_id", id).Msg("remote quiz lookup failed")
		}
	}
	if err != nil {
		return Entry{}, err
	}
	return Entry{}, fmt.Errorf("%w: %s", ErrQuizNotFound, id)
}

// invalidate drops a cached list that is missing a published quiz.
func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("catalog cache invalidate failed")
	}
}

func (s *Service) entries(ctx context.Context, bypassCache bool) ([]Entry, error) {
	if s.cache != nil && !bypassCache {
		cached, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn().Err(err).Msg("catalog cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	if s.remote != nil {
		quizzes, err := s.remote.List(ctx)
		if err == nil {
			entries := publishedFromRemote(quizzes)
			if s.cache != nil {
				if setErr := s.cache.Set(ctx, entries); setErr != nil {
					s.logger.Warn().Err(setErr).Msg("catalog cache write failed")
				}
			}
			return entries, nil
		}
		s.logger.Warn().Err(err).Msg("remote catalog fetch failed")
		if s.bank.Len() == 0 {
			return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
		}
	}

	if s.bank.Len() > 0 {
		s.logger.Info().Int("quizzes", s.bank.Len()).Msg("serving catalog from offline bank")
		return fromBank(s.bank.Quizzes()), nil
	}
	return nil, fmt.Errorf("%w: no catalog source configured", ErrUpstream)
}
