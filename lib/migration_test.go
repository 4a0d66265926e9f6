package lib

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func openMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = $1", name).Scan(&count)
	require.NoError(t, err)
	return count == 1
}

func TestEmbeddedMigrations(t *testing.T) {
	for _, driver := range []string{"sqlite3", "postgres"} {
		migrations, err := EmbeddedMigrations(driver)
		require.NoError(t, err)
		require.Len(t, migrations, 2)
		require.Equal(t, "0001_evaluations", migrations[0].Name)
		require.Equal(t, "0002_evaluations_evaluated_at", migrations[1].Name)
		require.True(t, strings.HasPrefix(migrations[0].UpSQL, "CREATE TABLE"))
		require.True(t, strings.HasPrefix(migrations[0].DownSQL, "DROP TABLE"))
	}

	_, err := EmbeddedMigrations("mysql")
	require.Error(t, err)
}

func TestReadMigrationsDir(t *testing.T) {
	migrations, err := ReadMigrationsDir("./migrations/sqlite3")
	require.NoError(t, err)
	require.Len(t, migrations, 2)
	require.Equal(t, "0001_evaluations", migrations[0].Name)
}

func TestReadMigrationsDirSortsAndPairs(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	write("0002_b.up.sql", "up b")
	write("0001_a.down.sql", "down a")
	write("0001_a.up.sql", "up a")
	write("README.md", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0755))

	migrations, err := ReadMigrationsDir(dir)
	require.NoError(t, err)
	require.Len(t, migrations, 2)
	require.Equal(t, &Migration{Name: "0001_a", UpSQL: "up a", DownSQL: "down a"}, migrations[0])
	require.Equal(t, &Migration{Name: "0002_b", UpSQL: "up b"}, migrations[1])
}

func TestReadMigrationsDirMissing(t *testing.T) {
	_, err := ReadMigrationsDir(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}

func TestRunMigrationsIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := openMemoryDB(t)
	migrations, err := EmbeddedMigrations("sqlite3")
	require.NoError(t, err)

	require.NoError(t, RunMigrations(ctx, db, migrations))
	require.NoError(t, RunMigrations(ctx, db, migrations))
	require.True(t, tableExists(t, db, "evaluations"))

	applied, err := appliedMigrations(ctx, db)
	require.NoError(t, err)
	require.Equal(t, map[string]bool{"0001_evaluations": true, "0002_evaluations_evaluated_at": true}, applied)
}

func TestRevertMigrations(t *testing.T) {
	ctx := context.Background()
	db := openMemoryDB(t)
	migrations, err := EmbeddedMigrations("sqlite3")
	require.NoError(t, err)
	require.NoError(t, RunMigrations(ctx, db, migrations))

	require.NoError(t, RevertMigrations(ctx, db, migrations, 1))
	applied, err := appliedMigrations(ctx, db)
	require.NoError(t, err)
	require.Equal(t, map[string]bool{"0001_evaluations": true}, applied)
	require.True(t, tableExists(t, db, "evaluations"))

	require.NoError(t, RevertMigrations(ctx, db, migrations, 10))
	require.False(t, tableExists(t, db, "evaluations"))

	require.NoError(t, RunMigrations(ctx, db, migrations))
	require.True(t, tableExists(t, db, "evaluations"))
}

func TestRunMigrationsRollsBackFailure(t *testing.T) {
	ctx := context.Background()
	db := openMemoryDB(t)
	migrations := []*Migration{
		{Name: "0001_ok", UpSQL: "CREATE TABLE ok (id INTEGER)"},
		{Name: "0002_broken", UpSQL: "CREATE TABLE"},
	}

	err := RunMigrations(ctx, db, migrations)
	require.Error(t, err)
	require.Contains(t, err.Error(), "0002_broken")

	applied, err := appliedMigrations(ctx, db)
	require.NoError(t, err)
	require.Equal(t, map[string]bool{"0001_ok": true}, applied)
}

func TestRevertMigrationWithoutDownScript(t *testing.T) {
	ctx := context.Background()
	db := openMemoryDB(t)
	migrations := []*Migration{{Name: "0001_ok", UpSQL: "CREATE TABLE ok (id INTEGER)"}}
	require.NoError(t, RunMigrations(ctx, db, migrations))

	require.Error(t, RevertMigrations(ctx, db, migrations, 1))
}
