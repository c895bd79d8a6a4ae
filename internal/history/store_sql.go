package history

import (
	"context"
	"database/sql"
	"time"
)

// SQLStore persists attempts through database/sql. The same $N queries run on
// the pgx and modernc sqlite drivers.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) InsertAttempt(ctx context.Context, a Attempt) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO quiz_attempts
		(id, user_key, quiz_id, quiz_name, correct_count, total_questions, percentage, started_at, completed_at, synced)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		a.ID, a.UserKey, a.QuizID, a.QuizName, a.CorrectCount, a.TotalQuestions, a.Percentage,
		a.StartedAt.UnixMilli(), a.CompletedAt.UnixMilli(), a.Synced)
	return err
}

func (s *SQLStore) ListAttempts(ctx context.Context, userKey string, limit int) ([]Attempt, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, user_key, quiz_id, quiz_name, correct_count, total_questions,
		percentage, started_at, completed_at, synced
		FROM quiz_attempts WHERE user_key=$1 ORDER BY completed_at DESC, id LIMIT $2`, userKey, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Attempt
	for rows.Next() {
		var (
			a                      Attempt
			startedMs, completedMs int64
		)
		if err := rows.Scan(&a.ID, &a.UserKey, &a.QuizID, &a.QuizName, &a.CorrectCount, &a.TotalQuestions,
			&a.Percentage, &startedMs, &completedMs, &a.Synced); err != nil {
			return nil, err
		}
		a.StartedAt = time.UnixMilli(startedMs).UTC()
		a.CompletedAt = time.UnixMilli(completedMs).UTC()
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLStore) MarkSynced(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE quiz_attempts SET synced=$1 WHERE id=$2`, true, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAttemptNotFound
	}
	return nil
}
