package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// JSONFileBackend stores each key as a separate JSON file on disk.
//
// Layout:
//
//	data_dir/
//	  persist_root.json   # "persist:root"
type JSONFileBackend struct {
	mu  sync.RWMutex
	dir string
}

func NewJSONFileBackend(dir string) (*JSONFileBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &JSONFileBackend{dir: dir}, nil
}

var keyReplacer = strings.NewReplacer(":", "_", "/", "_", `\`, "_", "..", "_")

func (s *JSONFileBackend) path(key string) string {
	return filepath.Join(s.dir, keyReplacer.Replace(key)+".json")
}

func (s *JSONFileBackend) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

// Put writes to a temp file and renames it over the target, so readers never
// observe a half-written document.
func (s *JSONFileBackend) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tmp, err := os.CreateTemp(s.dir, ".snapshot-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path(key))
}

func (s *JSONFileBackend) Delete(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.path(key))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *JSONFileBackend) Close() error { return nil }
