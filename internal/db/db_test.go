package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenRunsMigrations(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	d, err := Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	for _, table := range []string{"users", "properties", "property_photos"} {
		var name string
		err := d.QueryRow(
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table,
		).Scan(&name)
		require.NoError(t, err, "expected table %s", table)
		assert.Equal(t, table, name)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	d, err := Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, d.Close())

	// Second open must not re-apply migrations.
	d, err = Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
}

func TestForeignKeysEnabledOnEveryConnection(t *testing.T) {
	d, err := OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	// Keep one connection open so the shared memory database survives while
	// the pool is forced to dial a fresh connection per query.
	keeper, err := d.Conn(context.Background())
	require.NoError(t, err)
	defer keeper.Close()
	d.SetMaxIdleConns(0)

	for i := 0; i < 3; i++ {
		var fk int
		require.NoError(t, d.QueryRow("PRAGMA foreign_keys").Scan(&fk))
		assert.Equal(t, 1, fk)
	}
}

func TestDecomposedAddressColumnsExist(t *testing.T) {
	d, err := OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	rows, err := d.Query("SELECT registration_number, street, door_number, complement FROM properties")
	require.NoError(t, err)
	require.NoError(t, rows.Close())
}
