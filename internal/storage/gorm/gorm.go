// Package gormstorage implements the storage.Backend interface on top of
// any GORM-supported database. The SQLite and Postgres backends both
// delegate their row handling here.
package gormstorage

import (
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/railmap/editor/internal/model"
)

// Backend persists layout records through a GORM connection it does not
// own. Close releases the connection; callers that share it should not
// call Close.
type Backend struct {
	db  *gorm.DB
	log zerolog.Logger
}

// New creates a backend over an established GORM connection.
func New(db *gorm.DB, log zerolog.Logger) *Backend {
	return &Backend{db: db, log: log}
}

// DB exposes the underlying connection for backend wrappers.
func (b *Backend) DB() *gorm.DB {
	return b.db
}

// Init migrates the layout schema.
func (b *Backend) Init() error {
	if err := b.db.AutoMigrate(model.DatabaseModels...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (b *Backend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Save replaces the persisted layout in a single transaction.
func (b *Backend) Save(stations []model.Station, lines []model.Line) error {
	err := b.db.Transaction(func(tx *gorm.DB) error {
		wipe := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped()
		if err := wipe.Delete(&model.Station{}).Error; err != nil {
			return err
		}
		if err := wipe.Delete(&model.Line{}).Error; err != nil {
			return err
		}
		if len(stations) > 0 {
			if err := tx.Create(&stations).Error; err != nil {
				return err
			}
		}
		if len(lines) > 0 {
			if err := tx.Create(&lines).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save layout: %w", err)
	}

	b.log.Debug().
		Int("stations", len(stations)).
		Int("lines", len(lines)).
		Msg("Layout saved")
	return nil
}

// Load returns the persisted layout.
func (b *Backend) Load() ([]model.Station, []model.Line, error) {
	var stations []model.Station
	if err := b.db.Order("id").Find(&stations).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to load stations: %w", err)
	}
	var lines []model.Line
	if err := b.db.Order("id").Find(&lines).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to load lines: %w", err)
	}
	return stations, lines, nil
}
