package db

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenCreatesDirectoryAndSchema(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", ".sync", "sync.db")

	conn, err := Open(dbPath)
	require.NoError(t, err, "Open should create missing parent directories")
	t.Cleanup(func() { _ = conn.Close() })

	assert.Equal(t, dbPath, conn.Path())

	// The schema tables must exist straight after Open.
	var name string
	err = conn.QueryRow(
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'sync_history'`,
	).Scan(&name)
	require.NoError(t, err, "sync_history table should exist")
	assert.Equal(t, "sync_history", name)
}

func TestTransactionCommitsAndRollsBack(t *testing.T) {
	conn, err := Open(filepath.Join(t.TempDir(), "sync.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	err = conn.Transaction(func(tx *sql.Tx) error {
		_, err := tx.Exec(
			`INSERT INTO sync_metadata (key, value) VALUES (?, ?)`,
			"committed", "yes",
		)
		return err
	})
	require.NoError(t, err, "committing transaction should succeed")

	boom := errors.New("boom")
	err = conn.Transaction(func(tx *sql.Tx) error {
		if _, err := tx.Exec(
			`INSERT INTO sync_metadata (key, value) VALUES (?, ?)`,
			"rolled_back", "yes",
		); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom, "the callback error should be returned")

	var count int
	require.NoError(t, conn.QueryRow(
		`SELECT COUNT(*) FROM sync_metadata WHERE key = 'committed'`,
	).Scan(&count))
	assert.Equal(t, 1, count, "committed row should persist")

	require.NoError(t, conn.QueryRow(
		`SELECT COUNT(*) FROM sync_metadata WHERE key = 'rolled_back'`,
	).Scan(&count))
	assert.Zero(t, count, "rolled back row should not persist")
}
