package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/learnhub/internal/db"
)

func newSQLiteStore(t *testing.T) *SQLStore {
	t.Helper()
	ctx := context.Background()
	conn, err := db.Open(ctx, db.DriverSQLite, "file:"+filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, db.Migrate(ctx, conn, db.DriverSQLite))
	return NewSQLStore(conn)
}

func TestSQLStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)
	repo := NewRepository(store)

	base := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	for i, quizID := range []string{"1", "2", "3"} {
		_, err := repo.Save(ctx, Attempt{
			UserKey:        "learner",
			QuizID:         quizID,
			QuizName:       "Quiz " + quizID,
			CorrectCount:   i,
			TotalQuestions: 3,
			Percentage:     i * 33,
			StartedAt:      base.Add(time.Duration(i) * time.Hour),
			CompletedAt:    base.Add(time.Duration(i)*time.Hour + 5*time.Minute),
		})
		require.NoError(t, err)
	}
	_, err := repo.Save(ctx, Attempt{UserKey: "someone-else", QuizID: "1", StartedAt: base, CompletedAt: base})
	require.NoError(t, err)

	got, err := repo.Recent(ctx, "learner", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "3", got[0].QuizID)
	assert.Equal(t, "2", got[1].QuizID)
	assert.Equal(t, base.Add(2*time.Hour+5*time.Minute), got[0].CompletedAt)
	assert.False(t, got[0].Synced)

	require.NoError(t, repo.MarkSynced(ctx, got[0].ID))
	got, err = repo.Recent(ctx, "learner", 1)
	require.NoError(t, err)
	assert.True(t, got[0].Synced)
}

func TestSQLStoreMarkSyncedUnknownID(t *testing.T) {
	store := newSQLiteStore(t)
	assert.ErrorIs(t, store.MarkSynced(context.Background(), "nope"), ErrAttemptNotFound)
}
