package occupancy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Registers the "postgres" database/sql driver.
	_ "github.com/lib/pq"

	"github.com/oshokin/crowd-alarm/internal/config"
)

// Postgres reads the count with a SQL query.
type Postgres struct {
	// db is the connection pool.
	db *sql.DB
	// query returns the count in the first column of its first row.
	query string
}

// NewPostgres wraps an existing pool.
func NewPostgres(db *sql.DB, query string) *Postgres {
	return &Postgres{
		db:    db,
		query: query,
	}
}

// OpenPostgres connects to the database and checks it answers.
func OpenPostgres(ctx context.Context, cfg *config.PostgresSource) (*Postgres, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	// A single synchronous caller never needs more than one connection.
	db.SetMaxOpenConns(1)

	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return NewPostgres(db, cfg.Query), nil
}

// Count runs the query.
func (p *Postgres) Count(ctx context.Context) (int, error) {
	var count sql.NullInt64

	if err := p.db.QueryRowContext(ctx, p.query).Scan(&count); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("%w: query returned no rows", ErrNoReading)
		}

		return 0, fmt.Errorf("query occupancy: %w", err)
	}

	if !count.Valid {
		return 0, fmt.Errorf("%w: query returned NULL", ErrNoReading)
	}

	return checkCount(count.Int64)
}

// Close closes the pool.
func (p *Postgres) Close() error {
	return p.db.Close()
}
