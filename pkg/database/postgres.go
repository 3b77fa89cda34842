package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

const (
	maxOpenConns    = 25
	maxIdleConns    = 5
	connMaxLifetime = 5 * time.Minute
)

// Postgres wraps a PostgreSQL connection pool.
type Postgres struct {
	DB *sql.DB
}

// NewPostgres opens and verifies a PostgreSQL connection.
func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Postgres{DB: db}, nil
}

// Close closes the connection pool.
func (p *Postgres) Close() error {
	return p.DB.Close()
}

// Ping checks database availability.
func (p *Postgres) Ping(ctx context.Context) error {
	return p.DB.PingContext(ctx)
}
