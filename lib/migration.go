package lib

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/graeme-hill/shuntcalc/internal/logger"
)

//go:embed migrations
var embeddedMigrations embed.FS

type Migration struct {
	Name    string
	UpSQL   string
	DownSQL string
}

// EmbeddedMigrations returns the history schema migrations for a driver.
func EmbeddedMigrations(driver string) ([]*Migration, error) {
	if err := checkDriver(driver); err != nil {
		return nil, err
	}
	return ReadMigrations(embeddedMigrations, path.Join("migrations", driver))
}

func ReadMigrationsDir(dir string) ([]*Migration, error) {
	return ReadMigrations(os.DirFS(dir), ".")
}

// ReadMigrations pairs NAME.up.sql and NAME.down.sql files in dir and
// returns them sorted by name.
func ReadMigrations(fsys fs.FS, dir string) ([]*Migration, error) {
	files, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}

	migrations := map[string]*Migration{}

	withMigration := func(name string) *Migration {
		m, ok := migrations[name]
		if !ok {
			m = &Migration{
				Name: name,
			}
			migrations[name] = m
		}
		return m
	}

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}
		bytes, err := fs.ReadFile(fsys, path.Join(dir, file.Name()))
		if err != nil {
			return nil, err
		}

		name, isUp := parseMigrationFileName(file.Name())
		migration := withMigration(name)
		if isUp {
			migration.UpSQL = string(bytes)
		} else {
			migration.DownSQL = string(bytes)
		}
	}

	keys := []string{}
	for k := range migrations {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := []*Migration{}
	for _, k := range keys {
		result = append(result, migrations[k])
	}
	return result, nil
}

func parseMigrationFileName(fileName string) (string, bool) {
	return getMigrationName(fileName), getUpness(fileName)
}

func getMigrationName(fileName string) string {
	dotParts := strings.Split(fileName, ".")
	return dotParts[0]
}

func getUpness(fileName string) bool {
	return !strings.HasSuffix(fileName, ".down.sql")
}

func migrateLog() *logger.Logger {
	return logger.Global().WithPrefix("migrate")
}

// RunMigrations applies every migration not yet recorded in
// schema_migrations, each in its own transaction.
func RunMigrations(ctx context.Context, db *sql.DB, migrations []*Migration) error {
	if err := requireMigrationsTable(ctx, db); err != nil {
		return err
	}

	applied, err := appliedMigrations(ctx, db)
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		if applied[migration.Name] {
			continue
		}
		if err := execMigration(ctx, db, migration); err != nil {
			return err
		}
		migrateLog().Info("applied migration %s", migration.Name)
	}

	return nil
}

// RevertMigrations runs the down scripts of the last steps applied
// migrations, newest first.
func RevertMigrations(ctx context.Context, db *sql.DB, migrations []*Migration, steps int) error {
	if err := requireMigrationsTable(ctx, db); err != nil {
		return err
	}

	applied, err := appliedMigrations(ctx, db)
	if err != nil {
		return err
	}

	for i := len(migrations) - 1; i >= 0 && steps > 0; i-- {
		migration := migrations[i]
		if !applied[migration.Name] {
			continue
		}
		if err := revertMigration(ctx, db, migration); err != nil {
			return err
		}
		migrateLog().Info("reverted migration %s", migration.Name)
		steps--
	}

	return nil
}

func requireMigrationsTable(ctx context.Context, db *sql.DB) error {
	stmt := "CREATE TABLE IF NOT EXISTS schema_migrations (name TEXT PRIMARY KEY, applied_at TIMESTAMP NOT NULL)"
	if _, err := db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

func appliedMigrations(ctx context.Context, db *sql.DB) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, "SELECT name FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read applied migrations: %w", err)
	}
	defer rows.Close()

	applied := map[string]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		applied[name] = true
	}
	return applied, rows.Err()
}

func execMigration(ctx context.Context, db *sql.DB, migration *Migration) error {
	return inTx(ctx, db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, migration.UpSQL); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", migration.Name, err)
		}
		_, err := tx.ExecContext(ctx,
			"INSERT INTO schema_migrations (name, applied_at) VALUES ($1, $2)",
			migration.Name, time.Now().UTC())
		return err
	})
}

func revertMigration(ctx context.Context, db *sql.DB, migration *Migration) error {
	if strings.TrimSpace(migration.DownSQL) == "" {
		return fmt.Errorf("migration %s has no down script", migration.Name)
	}
	return inTx(ctx, db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, migration.DownSQL); err != nil {
			return fmt.Errorf("failed to revert migration %s: %w", migration.Name, err)
		}
		_, err := tx.ExecContext(ctx, "DELETE FROM schema_migrations WHERE name = $1", migration.Name)
		return err
	})
}

func inTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
