package learning

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/learnhub/internal/userstore"
)

// Cache holds the active theme list (implemented by RedisCache).
type Cache interface {
	Get(ctx context.Context) ([]Theme, error)
	Set(ctx context.Context, themes []Theme) error
}

type contentSource interface {
	Themes(ctx context.Context) ([]Theme, error)
	Theme(ctx context.Context, id string) (ThemeDetail, error)
	Courses(ctx context.Context) (Document, error)
	Course(ctx context.Context, id, userID string) (Document, error)
	Progress(ctx context.Context, userID string) (Document, error)
	MarkVideoComplete(ctx context.Context, body map[string]any) (Document, error)
}

// Service serves themes and proxies course calls for the logged-in learner.
type Service struct {
	source contentSource
	cache  Cache
	users  userstore.Reader
	logger zerolog.Logger
}

func NewService(source contentSource, cache Cache, users userstore.Reader, logger zerolog.Logger) *Service {
	return &Service{
		source: source,
		cache:  cache,
		users:  users,
		logger: logger.With().Str("component", "learning").Logger(),
	}
}

// Themes lists the active themes.
func (s *Service) Themes(ctx context.Context) ([]Theme, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn().Err(err).Msg("theme cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	all, err := s.source.Themes(ctx)
	if err != nil {
		return nil, err
	}
	active := make([]Theme, 0, len(all))
	for _, t := range all {
		if t.Active() {
			active = append(active, t)
		}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, active); err != nil {
			s.logger.Warn().Err(err).Msg("theme cache write failed")
		}
	}
	return active, nil
}

// Theme returns one theme and its media. Inactive themes are returned too so
// clients can mark them unavailable.
func (s *Service) Theme(ctx context.Context, id string) (ThemeDetail, error) {
	return s.source.Theme(ctx, id)
}

func (s *Service) Courses(ctx context.Context) (Document, error) {
	return s.source.Courses(ctx)
}

// Course returns a course, personalised when the learner's platform id is known.
func (s *Service) Course(ctx context.Context, userKey, id string) (Document, error) {
	userID, err := s.users.UserID(ctx, userKey)
	if err != nil && !errors.Is(err, userstore.ErrUserNotFound) {
		return nil, err
	}
	return s.source.Course(ctx, id, userID)
}

// Progress returns the learner's course progress.
func (s *Service) Progress(ctx context.Context, userKey string) (Document, error) {
	userID, err := s.users.UserID(ctx, userKey)
	if err != nil {
		return nil, err
	}
	return s.source.Progress(ctx, userID)
}

// MarkVideoComplete records a finished video for the learner. The user_id field
// always carries the learner's platform id.
func (s *Service) MarkVideoComplete(ctx context.Context, userKey string, body map[string]any) (Document, error) {
	userID, err := s.users.UserID(ctx, userKey)
	if err != nil {
		return nil, err
	}
	if body == nil {
		body = map[string]any{}
	}
	body["user_id"] = userID

	doc, err := s.source.MarkVideoComplete(ctx, body)
	if err != nil {
		return nil, fmt.Errorf("mark video complete: %w", err)
	}
	s.logger.Info().Str("user", userKey).Msg("video completion recorded")
	return doc, nil
}
