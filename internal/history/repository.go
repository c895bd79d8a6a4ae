package history

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

const (
	defaultListLimit = 10
	maxListLimit     = 100
)

type attemptStore interface {
	InsertAttempt(ctx context.Context, a Attempt) error
	ListAttempts(ctx context.Context, userKey string, limit int) ([]Attempt, error)
	MarkSynced(ctx context.Context, id string) error
}

// Repository exposes typed history operations used by quiz sessions.
type Repository struct {
	store attemptStore
}

// NewRepository wraps a store for attempt-specific operations.
func NewRepository(store attemptStore) *Repository {
	return &Repository{store: store}
}

// Save records a completed attempt, assigning an id when missing.
func (r *Repository) Save(ctx context.Context, a Attempt) (Attempt, error) {
	if a.UserKey == "" || a.QuizID == "" {
		return Attempt{}, fmt.Errorf("save attempt: user key and quiz id are required")
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if err := r.store.InsertAttempt(ctx, a); err != nil {
		return Attempt{}, fmt.Errorf("save attempt: %w", err)
	}
	return a, nil
}

// Recent lists a user's latest attempts, newest first.
func (r *Repository) Recent(ctx context.Context, userKey string, limit int) ([]Attempt, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	attempts, err := r.store.ListAttempts(ctx, userKey, limit)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	return attempts, nil
}

// MarkSynced flags an attempt as delivered to the remote API.
func (r *Repository) MarkSynced(ctx context.Context, id string) error {
	if err := r.store.MarkSynced(ctx, id); err != nil {
		return fmt.Errorf("mark attempt synced: %w", err)
	}
	return nil
}
