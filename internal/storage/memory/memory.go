// internal/storage/memory/memory.go
package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/railmap/editor/internal/config"
	"github.com/railmap/editor/internal/model"
)

// layoutFile is the JSON document written to disk.
type layoutFile struct {
	Stations []model.Station `json:"stations"`
	Lines    []model.Line    `json:"lines"`
}

// Backend keeps the layout in memory and mirrors every save to a JSON
// file, optionally gzip-compressed. Load prefers the in-memory copy and
// falls back to the file from a previous run.
type Backend struct {
	cfg config.MemoryConfig

	mu       sync.RWMutex
	stations []model.Station
	lines    []model.Line
	loaded   bool

	log zerolog.Logger
}

// New creates a new memory backend.
func New(cfg config.MemoryConfig, log zerolog.Logger) *Backend {
	return &Backend{cfg: cfg, log: log}
}

// Init ensures the output directory exists.
func (b *Backend) Init() error {
	if b.cfg.OutputDir == "" {
		return fmt.Errorf("memory storage: outputDir not set")
	}
	return os.MkdirAll(b.cfg.OutputDir, 0755)
}

// Close flushes nothing; every Save already hit disk.
func (b *Backend) Close() error {
	return nil
}

// Location reports the JSON file path.
func (b *Backend) Location() string {
	name := "layout.json"
	if b.cfg.CompressOutput {
		name = "layout.json.gz"
	}
	return filepath.Join(b.cfg.OutputDir, name)
}

// Save replaces the held layout and writes it to disk.
func (b *Backend) Save(stations []model.Station, lines []model.Line) error {
	b.mu.Lock()
	b.stations = append([]model.Station(nil), stations...)
	b.lines = append([]model.Line(nil), lines...)
	b.loaded = true
	b.mu.Unlock()

	return b.writeFile(stations, lines)
}

// Load returns the held layout, reading the file from a previous run if
// nothing has been saved yet.
func (b *Backend) Load() ([]model.Station, []model.Line, error) {
	b.mu.RLock()
	if b.loaded {
		stations := append([]model.Station(nil), b.stations...)
		lines := append([]model.Line(nil), b.lines...)
		b.mu.RUnlock()
		return stations, lines, nil
	}
	b.mu.RUnlock()

	doc, err := b.readFile()
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, err
	}

	b.mu.Lock()
	b.stations = doc.Stations
	b.lines = doc.Lines
	b.loaded = true
	b.mu.Unlock()

	return doc.Stations, doc.Lines, nil
}

func (b *Backend) writeFile(stations []model.Station, lines []model.Line) error {
	data, err := json.MarshalIndent(layoutFile{Stations: stations, Lines: lines}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal layout: %w", err)
	}

	path := b.Location()
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if b.cfg.CompressOutput {
		gz := gzip.NewWriter(f)
		if _, err := gz.Write(data); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		if err := gz.Close(); err != nil {
			return fmt.Errorf("failed to finish %s: %w", path, err)
		}
	} else {
		if _, err := f.Write(data); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}

	b.log.Debug().Str("path", path).
		Int("stations", len(stations)).
		Int("lines", len(lines)).
		Msg("Layout written")
	return nil
}

func (b *Backend) readFile() (*layoutFile, error) {
	path := b.Location()
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var doc layoutFile
	if b.cfg.CompressOutput {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		defer gz.Close()
		if err := json.NewDecoder(gz).Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", path, err)
		}
	} else {
		if err := json.NewDecoder(f).Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", path, err)
		}
	}
	return &doc, nil
}
