package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresBackend wraps a PostgreSQL connection pool.
//
// Tables:
//
//	form_snapshots(key, data JSONB, updated_at)  PRIMARY KEY (key)
type PostgresBackend struct {
	pool *pgxpool.Pool
}

// ConnectPostgres establishes a connection pool to the database and ensures
// the snapshot table exists.
func ConnectPostgres(ctx context.Context, databaseURL string) (*PostgresBackend, error) {
	if databaseURL == "" {
		return nil, ErrMissingDatabaseURL
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	_, err = pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS form_snapshots (
		key TEXT PRIMARY KEY,
		data JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create form_snapshots table: %w", err)
	}

	return &PostgresBackend{pool: pool}, nil
}

// Close closes the connection pool
func (db *PostgresBackend) Close() error {
	if db.pool != nil {
		db.pool.Close()
	}
	return nil
}

// Get retrieves a snapshot by key
func (db *PostgresBackend) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := db.pool.QueryRow(ctx,
		`SELECT data FROM form_snapshots WHERE key = $1`,
		key,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get snapshot %s: %w", key, err)
	}
	return data, nil
}

// Put stores a snapshot, replacing any previous value
func (db *PostgresBackend) Put(ctx context.Context, key string, value []byte) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO form_snapshots (key, data)
		 VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET data = $2, updated_at = NOW()`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to save snapshot %s: %w", key, err)
	}
	return nil
}

// Delete removes a snapshot
func (db *PostgresBackend) Delete(ctx context.Context, key string) (bool, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM form_snapshots WHERE key = $1`, key)
	if err != nil {
		return false, fmt.Errorf("failed to delete snapshot %s: %w", key, err)
	}
	return tag.RowsAffected() > 0, nil
}
