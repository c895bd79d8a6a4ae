package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Driver("oracle"), "")
	assert.Error(t, err)

	_, err = Dialect(Driver("oracle"))
	assert.Error(t, err)
}

func TestMigrateAndRollbackSQLite(t *testing.T) {
	ctx := context.Background()
	conn, err := Open(ctx, DriverSQLite, "file:"+filepath.Join(t.TempDir(), "migrate.db"))
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, Migrate(ctx, conn, DriverSQLite))
	// idempotent
	require.NoError(t, Migrate(ctx, conn, DriverSQLite))

	var count int
	require.NoError(t, conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM quiz_attempts`).Scan(&count))
	assert.Zero(t, count)

	require.NoError(t, Rollback(ctx, conn, DriverSQLite))
	_, err = conn.ExecContext(ctx, `SELECT COUNT(*) FROM quiz_attempts`)
	assert.Error(t, err)
}
