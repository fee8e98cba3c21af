package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

const createTableSQL = `CREATE TABLE IF NOT EXISTS uploads (
	id           BIGSERIAL PRIMARY KEY,
	object_key   TEXT        NOT NULL,
	url          TEXT        NOT NULL,
	backend      TEXT        NOT NULL,
	file_name    TEXT        NOT NULL,
	content_type TEXT        NOT NULL,
	size_bytes   BIGINT      NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const insertSQL = `INSERT INTO uploads (object_key, url, backend, file_name, content_type, size_bytes, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

const recentSQL = `SELECT object_key, url, backend, file_name, content_type, size_bytes, created_at
FROM uploads
ORDER BY created_at DESC, id DESC
LIMIT $1`

// Postgres keeps upload history in the uploads table
type Postgres struct {
	db *sql.DB
}

// NewPostgres connects to dsn and creates the uploads table if needed
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	p, err := NewPostgresFromDB(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return p, nil
}

// NewPostgresFromDB wraps an open database handle. The handle is closed by
// Close.
func NewPostgresFromDB(ctx context.Context, db *sql.DB) (*Postgres, error) {
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}

	if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
		return nil, fmt.Errorf("failed to create uploads table: %w", err)
	}

	return &Postgres{db: db}, nil
}

// Record inserts entry. A zero CreatedAt is stored as the current time.
func (p *Postgres) Record(ctx context.Context, entry Entry) error {
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := p.db.ExecContext(ctx, insertSQL,
		entry.Key,
		entry.URL,
		entry.Backend,
		entry.FileName,
		entry.ContentType,
		entry.Size,
		createdAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record upload %s: %w", entry.Key, err)
	}
	return nil
}

// Recent returns up to limit entries, newest first
func (p *Postgres) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	rows, err := p.db.QueryContext(ctx, recentSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query uploads: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Key, &e.URL, &e.Backend, &e.FileName, &e.ContentType, &e.Size, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan upload row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read uploads: %w", err)
	}

	return entries, nil
}

// Close closes the database handle
func (p *Postgres) Close() error {
	return p.db.Close()
}
