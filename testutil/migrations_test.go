package testutil_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trucker-logbook/migrations"
	"github.com/pkordes/trucker-logbook/testutil"
)

// logbookTables are created by the migrations, parents first.
var logbookTables = []string{"trips", "configurations", "log_entries", "daily_summaries"}

// TestMigrations runs the schema from version 0 up and back down on the
// integration database. Skipped without TEST_DATABASE_URL.
func TestMigrations(t *testing.T) {
	db := testutil.NewSQLDB(t)
	ctx := context.Background()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	require.NoError(t, err)

	// Other packages' TestMain may have migrated the shared database already.
	_, err = provider.DownTo(ctx, 0)
	require.NoError(t, err, "reset to version 0")

	applied, err := provider.Up(ctx)
	require.NoError(t, err, "goose up")
	assert.Len(t, applied, len(logbookTables), "one migration per table")

	for _, table := range logbookTables {
		assert.True(t, tableExists(t, db, table), "table %q missing after up", table)
	}
	for _, child := range logbookTables[1:] {
		assert.Equal(t, "CASCADE", deleteRule(t, db, child), "%s must be deleted with its trip", child)
	}

	_, err = provider.DownTo(ctx, 0)
	require.NoError(t, err, "goose down-to 0")

	for _, table := range logbookTables {
		assert.False(t, tableExists(t, db, table), "table %q left behind after down", table)
	}
}

func tableExists(t *testing.T, db *sql.DB, table string) bool {
	t.Helper()
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = 'public' AND table_name = $1
		)`
	var exists bool
	require.NoError(t, db.QueryRowContext(context.Background(), q, table).Scan(&exists))
	return exists
}

// deleteRule returns the ON DELETE action of table's foreign key to trips.
func deleteRule(t *testing.T, db *sql.DB, table string) string {
	t.Helper()
	const q = `
		SELECT rc.delete_rule
		FROM information_schema.referential_constraints rc
		JOIN information_schema.table_constraints tc
		  ON tc.constraint_name = rc.constraint_name
		 AND tc.constraint_schema = rc.constraint_schema
		WHERE tc.table_schema = 'public'
		  AND tc.table_name = $1
		  AND tc.constraint_type = 'FOREIGN KEY'`
	var rule string
	require.NoError(t, db.QueryRowContext(context.Background(), q, table).Scan(&rule), "foreign key on %s", table)
	return rule
}
