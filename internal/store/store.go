// Package store owns the in-memory registries of stations and lines and
// enforces their consistency rules: derived elevations, cascade deletes,
// and derived curve maintenance.
package store

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/rs/zerolog"

	"github.com/railmap/editor/internal/dem"
	"github.com/railmap/editor/internal/geometry"
	"github.com/railmap/editor/pkg/core"
)

// ErrValidation is returned when a line mutation would leave fewer than
// two resolvable station references.
var ErrValidation = errors.New("line needs at least 2 station references")

// ErrNotFound is returned when an id does not resolve in its registry.
var ErrNotFound = errors.New("no such entity")

// Store is the annotation registry. All mutations are synchronous; the
// mutex only guards against the dispatcher's optional buffered handlers.
type Store struct {
	mu        sync.RWMutex
	log       zerolog.Logger
	surface   *dem.Surface
	segments  int
	stations  map[uint]*core.Station
	lines     map[uint]*core.Line
	curves    map[uint]geom.LineString
	nextStID  uint
	nextLnID  uint
	listeners []Listener
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store's logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) { s.log = log }
}

// WithCurveSegments overrides the subdivision count for derived curves.
func WithCurveSegments(n int) Option {
	return func(s *Store) { s.segments = n }
}

// New creates an empty store. Id counters start at 1.
func New(opts ...Option) *Store {
	s := &Store{
		log:      zerolog.Nop(),
		segments: geometry.DefaultCurveSegments,
		stations: make(map[uint]*core.Station),
		lines:    make(map[uint]*core.Line),
		curves:   make(map[uint]geom.LineString),
		nextStID: 1,
		nextLnID: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetSurface atomically swaps the elevation surface. Every station's
// elevation is re-derived against the new surface and every line curve
// is recomputed before the swap is visible to readers.
func (s *Store) SetSurface(surface *dem.Surface) {
	s.mu.Lock()
	s.surface = surface
	events := []Event{{Kind: SurfaceSwapped}}
	for _, st := range s.stations {
		st.Position.Z = surface.Elevation(st.Position.X, st.Position.Y)
		events = append(events, Event{Kind: StationUpdated, ID: st.ID})
	}
	for id := range s.lines {
		s.recomputeCurve(id)
	}
	s.mu.Unlock()

	s.log.Info().Int("stations", len(events)-1).Msg("Elevation surface replaced")
	s.notify(events...)
}

// Surface returns the current elevation surface (possibly nil).
func (s *Store) Surface() *dem.Surface {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.surface
}

// AddStation creates a station at (x, y) with elevation derived from the
// surface and an auto-assigned name.
func (s *Store) AddStation(x, y float64) core.Station {
	s.mu.Lock()
	id := s.nextStID
	s.nextStID++
	st := &core.Station{
		ID:   id,
		Name: fmt.Sprintf("Station %d", id),
		Position: core.Position3D{
			X: x,
			Y: y,
			Z: s.surface.Elevation(x, y),
		},
	}
	s.stations[id] = st
	out := *st
	s.mu.Unlock()

	s.log.Debug().Uint("id", id).Float64("x", x).Float64("y", y).Float64("z", out.Position.Z).
		Msg("Station added")
	s.notify(Event{Kind: StationCreated, ID: id})
	return out
}

// UpdateStationPosition moves a station. Elevation is re-derived from
// the surface; every line referencing the station gets its curve
// recomputed.
func (s *Store) UpdateStationPosition(id uint, x, y float64) error {
	s.mu.Lock()
	st, ok := s.stations[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("station %d: %w", id, ErrNotFound)
	}
	st.Position = core.Position3D{X: x, Y: y, Z: s.surface.Elevation(x, y)}

	events := []Event{{Kind: StationUpdated, ID: id}}
	for lnID, ln := range s.lines {
		if containsID(ln.StationIDs, id) {
			s.recomputeCurve(lnID)
			events = append(events, Event{Kind: LineUpdated, ID: lnID})
		}
	}
	s.mu.Unlock()

	s.notify(events...)
	return nil
}

// RenameStation changes a station's display name.
func (s *Store) RenameStation(id uint, name string) error {
	s.mu.Lock()
	st, ok := s.stations[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("station %d: %w", id, ErrNotFound)
	}
	st.Name = name
	s.mu.Unlock()

	s.notify(Event{Kind: StationUpdated, ID: id})
	return nil
}

// RemoveStation deletes a station and cascades: the reference is dropped
// from every line; lines left with fewer than two references are removed
// entirely, the rest get recomputed curves.
func (s *Store) RemoveStation(id uint) error {
	s.mu.Lock()
	if _, ok := s.stations[id]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("station %d: %w", id, ErrNotFound)
	}
	delete(s.stations, id)

	events := []Event{{Kind: StationRemoved, ID: id}}
	for lnID, ln := range s.lines {
		refs := removeID(ln.StationIDs, id)
		if len(refs) == len(ln.StationIDs) {
			continue
		}
		if len(refs) < 2 {
			delete(s.lines, lnID)
			delete(s.curves, lnID)
			events = append(events, Event{Kind: LineRemoved, ID: lnID})
			continue
		}
		ln.StationIDs = refs
		s.recomputeCurve(lnID)
		events = append(events, Event{Kind: LineUpdated, ID: lnID})
	}
	s.mu.Unlock()

	s.notify(events...)
	return nil
}

// AddLine creates a line through the given stations in order.
// Unresolvable and duplicate references are dropped; fewer than two
// remaining references is a validation error and nothing is stored.
func (s *Store) AddLine(name string, stationIDs []uint, color core.RGB) (core.Line, error) {
	s.mu.Lock()
	refs := s.sanitizeRefs(stationIDs)
	if len(refs) < 2 {
		s.mu.Unlock()
		return core.Line{}, ErrValidation
	}

	id := s.nextLnID
	s.nextLnID++
	ln := &core.Line{ID: id, Name: name, StationIDs: refs, Color: color}
	s.lines[id] = ln
	s.recomputeCurve(id)
	out := *ln
	s.mu.Unlock()

	s.log.Debug().Uint("id", id).Str("name", name).Int("stations", len(refs)).
		Msg("Line added")
	s.notify(Event{Kind: LineCreated, ID: id})
	return out, nil
}

// UpdateLine replaces a line's reference list and optionally its color,
// then recomputes the curve. A nil reference list keeps the current
// references, so color-only edits pass through; a nil color keeps the
// current color. Fewer than two resolvable references is a validation
// error; the line is left unchanged.
func (s *Store) UpdateLine(id uint, stationIDs []uint, color *core.RGB) error {
	s.mu.Lock()
	ln, ok := s.lines[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("line %d: %w", id, ErrNotFound)
	}
	refs := ln.StationIDs
	if stationIDs != nil {
		refs = s.sanitizeRefs(stationIDs)
		if len(refs) < 2 {
			s.mu.Unlock()
			return ErrValidation
		}
	}
	ln.StationIDs = refs
	if color != nil {
		ln.Color = *color
	}
	s.recomputeCurve(id)
	s.mu.Unlock()

	s.notify(Event{Kind: LineUpdated, ID: id})
	return nil
}

// RenameLine changes a line's display name.
func (s *Store) RenameLine(id uint, name string) error {
	s.mu.Lock()
	ln, ok := s.lines[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("line %d: %w", id, ErrNotFound)
	}
	ln.Name = name
	s.mu.Unlock()

	s.notify(Event{Kind: LineUpdated, ID: id})
	return nil
}

// RemoveLine deletes a line and releases its derived curve.
func (s *Store) RemoveLine(id uint) error {
	s.mu.Lock()
	if _, ok := s.lines[id]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("line %d: %w", id, ErrNotFound)
	}
	delete(s.lines, id)
	delete(s.curves, id)
	s.mu.Unlock()

	s.notify(Event{Kind: LineRemoved, ID: id})
	return nil
}

// Reset clears all stations and lines and resets both id counters to 1.
// The surface is kept; a full clear of terrain state is SetSurface(nil).
func (s *Store) Reset() {
	s.mu.Lock()
	s.stations = make(map[uint]*core.Station)
	s.lines = make(map[uint]*core.Line)
	s.curves = make(map[uint]geom.LineString)
	s.nextStID = 1
	s.nextLnID = 1
	s.mu.Unlock()

	s.log.Info().Msg("Store cleared")
	s.notify(Event{Kind: StoreCleared})
}

// Station returns a copy of the station with the given id.
func (s *Store) Station(id uint) (core.Station, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.stations[id]
	if !ok {
		return core.Station{}, false
	}
	return *st, true
}

// StationByName returns the first station with the given display name,
// in id order. Names are labels, not keys; duplicates resolve to the
// lowest id.
func (s *Store) StationByName(name string) (core.Station, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var found *core.Station
	for _, st := range s.stations {
		if st.Name != name {
			continue
		}
		if found == nil || st.ID < found.ID {
			found = st
		}
	}
	if found == nil {
		return core.Station{}, false
	}
	return *found, true
}

// Stations returns all stations ordered by id.
func (s *Store) Stations() []core.Station {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Station, 0, len(s.stations))
	for _, st := range s.stations {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Line returns a copy of the line with the given id.
func (s *Store) Line(id uint) (core.Line, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ln, ok := s.lines[id]
	if !ok {
		return core.Line{}, false
	}
	out := *ln
	out.StationIDs = append([]uint(nil), ln.StationIDs...)
	return out, true
}

// Lines returns all lines ordered by id.
func (s *Store) Lines() []core.Line {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Line, 0, len(s.lines))
	for _, ln := range s.lines {
		cp := *ln
		cp.StationIDs = append([]uint(nil), ln.StationIDs...)
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Curve returns the derived curve of a line. The second return is false
// when the line does not exist or its curve could not be built.
func (s *Store) Curve(lineID uint) (geom.LineString, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.curves[lineID]
	return c, ok
}

// recomputeCurve rebuilds the derived curve of a line from the current
// station coordinates, in reference order. Caller holds the write lock.
func (s *Store) recomputeCurve(lineID uint) {
	ln, ok := s.lines[lineID]
	if !ok {
		return
	}
	points := make([]core.Position3D, 0, len(ln.StationIDs))
	for _, stID := range ln.StationIDs {
		if st, ok := s.stations[stID]; ok {
			points = append(points, st.Position)
		}
	}
	curve, err := geometry.BuildCurve(points, s.segments)
	if err != nil {
		s.log.Warn().Uint("line", lineID).Err(err).Msg("Curve rebuild failed")
		delete(s.curves, lineID)
		return
	}
	s.curves[lineID] = curve
}

// sanitizeRefs drops unresolvable and duplicate station references,
// preserving order. Caller holds the lock.
func (s *Store) sanitizeRefs(stationIDs []uint) []uint {
	seen := make(map[uint]bool, len(stationIDs))
	refs := make([]uint, 0, len(stationIDs))
	for _, id := range stationIDs {
		if seen[id] {
			continue
		}
		if _, ok := s.stations[id]; !ok {
			continue
		}
		seen[id] = true
		refs = append(refs, id)
	}
	return refs
}

func containsID(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func removeID(ids []uint, id uint) []uint {
	out := make([]uint, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
