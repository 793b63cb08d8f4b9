// internal/storage/storage.go
package storage

import "github.com/railmap/editor/internal/model"

// Backend is the interface all storage implementations must satisfy.
// Save replaces the persisted layout with the given records; Load
// returns whatever layout the backend currently holds.
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Layout persistence
	Save(stations []model.Station, lines []model.Line) error
	Load() ([]model.Station, []model.Line, error)
}

// Describable is an optional interface for backends that can report
// where the layout is persisted.
type Describable interface {
	Location() string
}
