// Package backend selects and opens a storage backend from configuration.
package backend

import (
	"fmt"
	"log/slog"

	"familybudget/internal/config"
	"familybudget/internal/store"
)

type Type string

const (
	FileBackend   Type = "file"
	SQLiteBackend Type = "sqlite"
	MemoryBackend Type = "memory"
)

func (t Type) String() string {
	return string(t)
}

func (t Type) IsValid() bool {
	switch t {
	case FileBackend, SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// Open creates the store the configuration names. The caller owns the
// returned store and must Close it.
func Open(cfg *config.Config, logger *slog.Logger) (*store.Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	backendType := Type(cfg.DataBackend)
	if !backendType.IsValid() {
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.DataBackend)
	}

	switch backendType {
	case FileBackend:
		kv, err := store.NewFileKV(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("initialize file backend: %w", err)
		}
		logger.Info("Initialized file backend", "data_dir", cfg.DataDir)
		return store.New(kv), nil

	case SQLiteBackend:
		kv, err := store.NewSQLiteKV(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite backend: %w", err)
		}
		logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
		return store.New(kv), nil

	default:
		logger.Info("Initialized memory backend")
		return store.New(store.NewMemoryKV()), nil
	}
}
