// internal/storage/factory.go
package storage

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/railmap/editor/internal/config"
	"github.com/railmap/editor/internal/database"
	gormstorage "github.com/railmap/editor/internal/storage/gorm"
	"github.com/railmap/editor/internal/storage/memory"
	sqlitestorage "github.com/railmap/editor/internal/storage/sqlite"
)

// NewBackend creates a storage backend based on configuration
func NewBackend(cfg config.StorageConfig, log zerolog.Logger) (Backend, error) {
	switch cfg.Type {
	case "postgres":
		mgr := database.NewManager(log)
		if err := mgr.Connect(); err != nil {
			return nil, fmt.Errorf("postgres backend: %w", err)
		}
		if err := mgr.Setup(); err != nil {
			return nil, fmt.Errorf("postgres backend: %w", err)
		}
		return gormstorage.New(mgr.DB, log), nil
	case "sqlite":
		return sqlitestorage.New(cfg.SQLite, log)
	case "memory":
		return memory.New(cfg.Memory, log), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
