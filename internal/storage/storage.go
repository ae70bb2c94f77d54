// Package storage holds the key-value backends the form snapshot is written to.
package storage

import (
	"context"
	"errors"
)

// Backend names accepted by New.
const (
	BackendJSON     = "json"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// ErrMissingDatabaseURL is returned when the postgres backend is selected without a DSN.
var ErrMissingDatabaseURL = errors.New("postgres backend requires a database URL")

// Backend is a durable key-value store for serialized documents.
type Backend interface {
	// Get returns the value stored under key, or nil if not found.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put inserts or replaces the value stored under key.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Returns true if it existed.
	Delete(ctx context.Context, key string) (bool, error)

	Close() error
}
