package main

import (
	"os"
	"path/filepath"
	"testing"

	"storefront-be/internal/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const entitiesMigration = `
-- +migrate Up
CREATE TABLE IF NOT EXISTS entities (kind TEXT NOT NULL, id TEXT NOT NULL);

-- +migrate Down
DROP TABLE IF EXISTS entities;
`

func writeMigration(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestExtractMigrationPart(t *testing.T) {
	t.Run("up", func(t *testing.T) {
		up := extractMigrationPart(entitiesMigration, "Up")
		assert.Contains(t, up, "CREATE TABLE IF NOT EXISTS entities")
		assert.NotContains(t, up, "DROP TABLE")
		assert.NotContains(t, up, "-- +migrate Up")
	})

	t.Run("down", func(t *testing.T) {
		down := extractMigrationPart(entitiesMigration, "Down")
		assert.Contains(t, down, "DROP TABLE IF EXISTS entities")
		assert.NotContains(t, down, "CREATE TABLE")
	})

	t.Run("missing section", func(t *testing.T) {
		assert.Empty(t, extractMigrationPart("SELECT 1;", "Up"))
	})
}

func TestRunMigrationsUp(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	dir := t.TempDir()
	first := writeMigration(t, dir, "0001_entities.sql", entitiesMigration)
	second := writeMigration(t, dir, "0002_index.sql", "-- +migrate Up\nCREATE INDEX entities_kind ON entities (kind);\n-- +migrate Down\nDROP INDEX entities_kind;\n")

	mock.ExpectQuery("SELECT EXISTS.*schema_migrations").
		WithArgs("0001_entities.sql").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	mock.ExpectQuery("SELECT EXISTS.*schema_migrations").
		WithArgs("0002_index.sql").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec("CREATE INDEX entities_kind").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO schema_migrations").
		WithArgs("0002_index.sql").
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, runMigrationsUp(db, []string{first, second}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrationsDown(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	file := writeMigration(t, t.TempDir(), "0001_entities.sql", entitiesMigration)

	mock.ExpectQuery("SELECT version FROM schema_migrations").
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow("0001_entities.sql"))
	mock.ExpectExec("DROP TABLE IF EXISTS entities").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM schema_migrations").
		WithArgs("0001_entities.sql").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, runMigrationsDown(db, []string{file}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrationsDown_NothingApplied(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT version FROM schema_migrations").
		WillReturnRows(sqlmock.NewRows([]string{"version"}))

	require.NoError(t, runMigrationsDown(db, nil))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRun_UnknownMode(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = run(db, "sideways", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestOpenDB_NoSettings(t *testing.T) {
	t.Setenv("DB_URL", "")

	_, err := openDB(&config.Config{})
	assert.Error(t, err)
}
