package lib

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/graeme-hill/shuntcalc/internal/logger"
)

// Evaluation is one recorded calculation.
type Evaluation struct {
	ID          int64
	Expression  string
	Postfix     string
	Result      float64
	Error       string
	EvaluatedAt time.Time
}

func (e Evaluation) Failed() bool {
	return e.Error != ""
}

// HistoryStore records evaluations in sqlite3 or postgres.
type HistoryStore struct {
	db     *sql.DB
	driver string
}

func checkDriver(driver string) error {
	switch driver {
	case "sqlite3", "postgres":
		return nil
	}
	return fmt.Errorf("unsupported history driver %q", driver)
}

// OpenDB opens and pings a history database. For sqlite3 files the parent
// directory is created first.
func OpenDB(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	if err := checkDriver(driver); err != nil {
		return nil, err
	}

	if driver == "sqlite3" && !isMemoryDSN(dsn) {
		if err := os.MkdirAll(filepath.Dir(sqliteFilePath(dsn)), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if driver == "sqlite3" {
		// Every connection to :memory: is its own database.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// OpenHistory connects to the store and brings its schema up to date.
func OpenHistory(ctx context.Context, driver, dsn string) (*HistoryStore, error) {
	migrations, err := EmbeddedMigrations(driver)
	if err != nil {
		return nil, err
	}

	db, err := OpenDB(ctx, driver, dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db, migrations); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &HistoryStore{db: db, driver: driver}, nil
}

func isMemoryDSN(dsn string) bool {
	return dsn == "" || strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}

func sqliteFilePath(dsn string) string {
	p := strings.TrimPrefix(dsn, "file:")
	if i := strings.Index(p, "?"); i >= 0 {
		p = p[:i]
	}
	return p
}

// log resolves the global logger on every call so a store opened before
// logger.Init still logs to the configured output.
func (h *HistoryStore) log() *logger.Logger {
	return logger.Global().WithPrefix("history")
}

func (h *HistoryStore) Driver() string {
	return h.driver
}

// Record stores the outcome of evaluating expr. evalErr is nil on success.
func (h *HistoryStore) Record(ctx context.Context, expr string, tokens []Token, result float64, evalErr error) (Evaluation, error) {
	e := Evaluation{
		Expression:  expr,
		Postfix:     FormatPostfix(tokens),
		EvaluatedAt: time.Now().UTC(),
	}

	var resultCol sql.NullFloat64
	var errorCol sql.NullString
	if evalErr != nil {
		e.Error = evalErr.Error()
		errorCol = sql.NullString{String: e.Error, Valid: true}
	} else {
		e.Result = result
		resultCol = sql.NullFloat64{Float64: result, Valid: true}
	}

	err := h.db.QueryRowContext(ctx,
		`INSERT INTO evaluations (expression, postfix, result, error, evaluated_at)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		e.Expression, e.Postfix, resultCol, errorCol, e.EvaluatedAt,
	).Scan(&e.ID)
	if err != nil {
		return Evaluation{}, fmt.Errorf("failed to record evaluation: %w", err)
	}

	h.log().Debug("recorded evaluation %d: %s", e.ID, e.Expression)
	return e, nil
}

// Recent returns up to limit evaluations, newest first.
func (h *HistoryStore) Recent(ctx context.Context, limit int) ([]Evaluation, error) {
	rows, err := h.db.QueryContext(ctx,
		`SELECT id, expression, postfix, result, error, evaluated_at
		FROM evaluations ORDER BY id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query evaluations: %w", err)
	}
	defer rows.Close()

	evaluations := []Evaluation{}
	for rows.Next() {
		var e Evaluation
		var resultCol sql.NullFloat64
		var errorCol sql.NullString
		if err := rows.Scan(&e.ID, &e.Expression, &e.Postfix, &resultCol, &errorCol, &e.EvaluatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan evaluation: %w", err)
		}
		e.Result = resultCol.Float64
		e.Error = errorCol.String
		evaluations = append(evaluations, e)
	}
	return evaluations, rows.Err()
}

// Clear deletes every recorded evaluation and reports how many were removed.
func (h *HistoryStore) Clear(ctx context.Context) (int64, error) {
	res, err := h.db.ExecContext(ctx, "DELETE FROM evaluations")
	if err != nil {
		return 0, fmt.Errorf("failed to clear evaluations: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	h.log().Info("cleared %d evaluations", n)
	return n, nil
}

func (h *HistoryStore) Close() error {
	return h.db.Close()
}
