// Package sqlitestorage implements the storage.Backend interface using an
// in-memory SQLite database with periodic disk dumps via VACUUM INTO.
// It wraps the GORM backend via composition; the only SQLite-specific
// concerns are (a) creating the DB, (b) seeding the in-memory DB from an
// earlier dump, and (c) the dump loop itself.
package sqlitestorage

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/railmap/editor/internal/config"
	"github.com/railmap/editor/internal/database"
	gormstorage "github.com/railmap/editor/internal/storage/gorm"
)

// Backend wraps the GORM backend for SQLite-specific behavior.
type Backend struct {
	*gormstorage.Backend
	cfg      config.SQLiteConfig
	log      zerolog.Logger
	inMemory bool
	stopChan chan struct{}
}

// New creates a new SQLite storage backend. With a positive DumpInterval
// the working database lives in memory and Path only receives periodic
// VACUUM INTO snapshots; otherwise Path is opened directly.
func New(cfg config.SQLiteConfig, log zerolog.Logger) (*Backend, error) {
	inMemory := cfg.DumpInterval > 0

	dbPath := cfg.Path
	if inMemory {
		dbPath = ""
	}
	db, err := database.GetSqliteDBStandalone(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite DB: %w", err)
	}

	return &Backend{
		Backend:  gormstorage.New(db, log),
		cfg:      cfg,
		log:      log,
		inMemory: inMemory,
		stopChan: make(chan struct{}),
	}, nil
}

// Init migrates the schema, seeds the in-memory DB from the last dump if
// one exists, and starts the dump goroutine.
func (b *Backend) Init() error {
	if err := b.Backend.Init(); err != nil {
		return err
	}

	if b.inMemory {
		if err := b.seedFromDump(); err != nil {
			b.log.Warn().Err(err).Str("path", b.cfg.Path).Msg("Could not seed from previous dump")
		}
		go b.dumpLoop()
	}

	return nil
}

// Close stops the dump goroutine, takes a final snapshot and closes the
// embedded GORM backend.
func (b *Backend) Close() error {
	if b.inMemory {
		close(b.stopChan)
		if err := database.DumpMemoryDBToDisk(b.DB(), b.cfg.Path); err != nil {
			b.log.Error().Err(err).Msg("Final dump to disk failed")
		}
	}
	return b.Backend.Close()
}

// Location reports where the layout ends up on disk.
func (b *Backend) Location() string {
	return b.cfg.Path
}

// seedFromDump copies rows from the last on-disk snapshot into the
// in-memory working database.
func (b *Backend) seedFromDump() error {
	if b.cfg.Path == "" {
		return nil
	}
	if _, err := os.Stat(b.cfg.Path); err != nil {
		return nil // no previous dump
	}

	src, err := database.GetSqliteDBStandalone(b.cfg.Path)
	if err != nil {
		return err
	}
	defer func() {
		if sqlDB, err := src.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	reader := gormstorage.New(src, b.log)
	if err := reader.Init(); err != nil {
		return err
	}
	stations, lines, err := reader.Load()
	if err != nil {
		return err
	}
	return b.Backend.Save(stations, lines)
}

// dumpLoop periodically dumps the in-memory SQLite database to disk via
// VACUUM INTO. VACUUM INTO creates a point-in-time snapshot, so no pause
// mechanism is needed.
func (b *Backend) dumpLoop() {
	ticker := time.NewTicker(b.cfg.DumpInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.stopChan:
			return
		case <-ticker.C:
			start := time.Now()
			if err := database.DumpMemoryDBToDisk(b.DB(), b.cfg.Path); err != nil {
				b.log.Error().Err(err).Msg("Error dumping to disk")
			} else {
				b.log.Debug().Dur("duration", time.Since(start)).Msg("Dumped to disk")
			}
		}
	}
}
