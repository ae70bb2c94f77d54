package storage

import (
	"context"
	"fmt"
	"path/filepath"
)

// New creates a Backend based on the backend name.
//
// Supported backends:
//
//	"json"     - JSON files in dataDir (default)
//	"sqlite"   - SQLite database at dataDir/cvmaker.db
//	"postgres" - PostgreSQL at databaseURL
//	"memory"   - In-memory (ephemeral, for testing)
func New(ctx context.Context, backend, dataDir, databaseURL string) (Backend, error) {
	switch backend {
	case BackendJSON, "":
		return NewJSONFileBackend(dataDir)
	case BackendSQLite:
		return NewSQLiteBackend(filepath.Join(dataDir, "cvmaker.db"))
	case BackendPostgres:
		return ConnectPostgres(ctx, databaseURL)
	case BackendMemory:
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %q (supported: json, sqlite, postgres, memory)", backend)
	}
}
