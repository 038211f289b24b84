// Package postgres persists the mutation journal in PostgreSQL.
package postgres

import (
	"context"
	"embed"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // registers the "postgres" driver
	"github.com/pressly/goose/v3"

	"github.com/ferg-cod3s/rq-challenge/internal/infra/journal"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Config holds PostgreSQL connection configuration.
type Config struct {
	Driver   string `yaml:"driver"` // pgx (default) or postgres
	URL      string `yaml:"url"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// DB wraps the PostgreSQL connection.
type DB struct {
	*sqlx.DB
}

// NewDB opens and pings a database connection.
func NewDB(ctx context.Context, cfg Config) (*DB, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = "pgx"
	}
	if driver != "pgx" && driver != "postgres" {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sqlx.Open(driver, cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.MaxConns > 0 {
		db.SetMaxOpenConns(cfg.MaxConns)
	} else {
		db.SetMaxOpenConns(10)
	}

	if cfg.MinConns > 0 {
		db.SetMaxIdleConns(cfg.MinConns)
	} else {
		db.SetMaxIdleConns(2)
	}

	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db}, nil
}

// Migrate applies the embedded goose migrations.
func (db *DB) Migrate(ctx context.Context) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, db.DB.DB, "migrations"); err != nil {
		return fmt.Errorf("failed to migrate db: %w", err)
	}
	return nil
}

const insertEvent = `
INSERT INTO mutation_journal (id, kind, employee_id, name, recorded_at)
VALUES (:id, :kind, :employee_id, :name, :recorded_at)`

const selectRecent = `
SELECT id, kind, employee_id, name, recorded_at
FROM mutation_journal
ORDER BY recorded_at DESC
LIMIT $1`

// Sink writes journal events to the mutation_journal table.
type Sink struct {
	db *DB
}

// NewSink creates a Postgres journal sink.
func NewSink(db *DB) *Sink {
	return &Sink{db: db}
}

func (s *Sink) Name() string { return "postgres" }

// Record inserts ev.
func (s *Sink) Record(ctx context.Context, ev journal.Event) error {
	if _, err := s.db.NamedExecContext(ctx, insertEvent, ev); err != nil {
		return fmt.Errorf("failed to insert journal event: %w", err)
	}
	return nil
}

// Recent returns up to limit of the newest events, newest first.
func (s *Sink) Recent(ctx context.Context, limit int) ([]journal.Event, error) {
	var events []journal.Event
	if err := s.db.SelectContext(ctx, &events, selectRecent, limit); err != nil {
		return nil, fmt.Errorf("failed to list journal events: %w", err)
	}
	return events, nil
}
