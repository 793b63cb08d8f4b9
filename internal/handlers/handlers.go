// Package handlers wires editor commands to the annotation store and
// the storage backend. Each handler takes the dispatcher's string args
// and returns a small result for the caller to print.
package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/railmap/editor/internal/dispatcher"
	"github.com/railmap/editor/internal/geo"
	"github.com/railmap/editor/internal/model/convert"
	"github.com/railmap/editor/internal/storage"
	"github.com/railmap/editor/internal/store"
	"github.com/railmap/editor/internal/util"
	"github.com/railmap/editor/pkg/core"
)

// Command names routed through the dispatcher.
const (
	CmdStationAdd    = ":STATION:ADD:"
	CmdStationMove   = ":STATION:MOVE:"
	CmdStationRename = ":STATION:RENAME:"
	CmdStationRemove = ":STATION:REMOVE:"
	CmdLineAdd       = ":LINE:ADD:"
	CmdLineUpdate    = ":LINE:UPDATE:"
	CmdLineRename    = ":LINE:RENAME:"
	CmdLineRemove    = ":LINE:REMOVE:"
	CmdCellEdit      = ":CELL:EDIT:"
	CmdElevation     = ":ELEVATION:"
	CmdLayoutSave    = ":LAYOUT:SAVE:"
	CmdLayoutLoad    = ":LAYOUT:LOAD:"
	CmdLayoutClear   = ":LAYOUT:CLEAR:"
)

// ErrBadArgs reports a command invoked with the wrong argument shape.
var ErrBadArgs = fmt.Errorf("bad arguments")

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Store   *store.Store
	Backend storage.Backend
	Logger  zerolog.Logger
}

// Service provides handler methods for processing editor commands
type Service struct {
	deps Dependencies
}

// NewService creates a new handler service
func NewService(deps Dependencies) *Service {
	return &Service{deps: deps}
}

// Register wires every command onto the dispatcher. Mutations are logged;
// layout save runs buffered so a slow backend cannot stall the caller.
func (s *Service) Register(d *dispatcher.Dispatcher) {
	d.Register(CmdStationAdd, s.StationAdd, dispatcher.Logged())
	d.Register(CmdStationMove, s.StationMove, dispatcher.Logged())
	d.Register(CmdStationRename, s.StationRename, dispatcher.Logged())
	d.Register(CmdStationRemove, s.StationRemove, dispatcher.Logged())
	d.Register(CmdLineAdd, s.LineAdd, dispatcher.Logged())
	d.Register(CmdLineUpdate, s.LineUpdate, dispatcher.Logged())
	d.Register(CmdLineRename, s.LineRename, dispatcher.Logged())
	d.Register(CmdLineRemove, s.LineRemove, dispatcher.Logged())
	d.Register(CmdCellEdit, s.CellEdit, dispatcher.Logged())
	d.Register(CmdElevation, s.Elevation)
	d.Register(CmdLayoutSave, s.LayoutSave, dispatcher.Buffered(8), dispatcher.Blocking(), dispatcher.Logged())
	d.Register(CmdLayoutLoad, s.LayoutLoad, dispatcher.Logged())
	d.Register(CmdLayoutClear, s.LayoutClear, dispatcher.Logged())
}

func parseID(s string) (uint, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: bad id %q", ErrBadArgs, s)
	}
	return uint(v), nil
}

// StationAdd creates a station at "x,y". Elevation comes from the
// surface, never from the caller.
func (s *Service) StationAdd(e dispatcher.Event) (any, error) {
	if len(e.Args) < 1 {
		return nil, fmt.Errorf("%w: want coordinates", ErrBadArgs)
	}
	pos, err := geo.ParsePosition(e.Args[0])
	if err != nil {
		return nil, err
	}
	st := s.deps.Store.AddStation(pos.X, pos.Y)
	return st, nil
}

// StationMove repositions a station. Unparseable coordinates are a
// silent no-op, matching how the edit surface treats bad numeric input.
func (s *Service) StationMove(e dispatcher.Event) (any, error) {
	if len(e.Args) < 2 {
		return nil, fmt.Errorf("%w: want id and coordinates", ErrBadArgs)
	}
	id, err := parseID(e.Args[0])
	if err != nil {
		return nil, err
	}
	pos, err := geo.ParsePosition(e.Args[1])
	if err != nil {
		return "ignored", nil
	}
	if err := s.deps.Store.UpdateStationPosition(id, pos.X, pos.Y); err != nil {
		return nil, err
	}
	return "ok", nil
}

// StationRename renames a station.
func (s *Service) StationRename(e dispatcher.Event) (any, error) {
	if len(e.Args) < 2 {
		return nil, fmt.Errorf("%w: want id and name", ErrBadArgs)
	}
	id, err := parseID(e.Args[0])
	if err != nil {
		return nil, err
	}
	if err := s.deps.Store.RenameStation(id, util.TrimQuotes(e.Args[1])); err != nil {
		return nil, err
	}
	return "ok", nil
}

// StationRemove deletes a station and cascades into its lines.
func (s *Service) StationRemove(e dispatcher.Event) (any, error) {
	if len(e.Args) < 1 {
		return nil, fmt.Errorf("%w: want id", ErrBadArgs)
	}
	id, err := parseID(e.Args[0])
	if err != nil {
		return nil, err
	}
	if err := s.deps.Store.RemoveStation(id); err != nil {
		return nil, err
	}
	return "ok", nil
}

// LineAdd creates a line from a name, a station id list and an optional
// "#RRGGBB" color. A missing or malformed color falls back to a random
// one so new lines are visually distinct.
func (s *Service) LineAdd(e dispatcher.Event) (any, error) {
	if len(e.Args) < 2 {
		return nil, fmt.Errorf("%w: want name and station ids", ErrBadArgs)
	}
	name := util.TrimQuotes(e.Args[0])
	ids := util.ParseIDList(e.Args[1])

	color := core.RandomColor()
	if len(e.Args) > 2 && strings.TrimSpace(e.Args[2]) != "" {
		color = core.ParseHex(e.Args[2])
	}

	ln, err := s.deps.Store.AddLine(name, ids, color)
	if err != nil {
		return nil, err
	}
	return ln, nil
}

// LineUpdate replaces a line's station references and optionally its
// color. An empty color argument keeps the current color.
func (s *Service) LineUpdate(e dispatcher.Event) (any, error) {
	if len(e.Args) < 2 {
		return nil, fmt.Errorf("%w: want id and station ids", ErrBadArgs)
	}
	id, err := parseID(e.Args[0])
	if err != nil {
		return nil, err
	}
	ids := util.ParseIDList(e.Args[1])

	var color *core.RGB
	if len(e.Args) > 2 && strings.TrimSpace(e.Args[2]) != "" {
		c := core.ParseHex(e.Args[2])
		color = &c
	}

	if err := s.deps.Store.UpdateLine(id, ids, color); err != nil {
		return nil, err
	}
	return "ok", nil
}

// LineRename renames a line.
func (s *Service) LineRename(e dispatcher.Event) (any, error) {
	if len(e.Args) < 2 {
		return nil, fmt.Errorf("%w: want id and name", ErrBadArgs)
	}
	id, err := parseID(e.Args[0])
	if err != nil {
		return nil, err
	}
	if err := s.deps.Store.RenameLine(id, util.TrimQuotes(e.Args[1])); err != nil {
		return nil, err
	}
	return "ok", nil
}

// LineRemove deletes a line.
func (s *Service) LineRemove(e dispatcher.Event) (any, error) {
	if len(e.Args) < 1 {
		return nil, fmt.Errorf("%w: want id", ErrBadArgs)
	}
	id, err := parseID(e.Args[0])
	if err != nil {
		return nil, err
	}
	if err := s.deps.Store.RemoveLine(id); err != nil {
		return nil, err
	}
	return "ok", nil
}

// CellEdit applies a spreadsheet-style edit: table, id, column, text.
// Station x/y edits with unusable numbers are silently ignored; station
// z is always derived and cannot be edited. Line color cells accept any
// text, falling back to the default color.
func (s *Service) CellEdit(e dispatcher.Event) (any, error) {
	if len(e.Args) < 4 {
		return nil, fmt.Errorf("%w: want table, id, column, value", ErrBadArgs)
	}
	table := strings.ToLower(strings.TrimSpace(e.Args[0]))
	id, err := parseID(e.Args[1])
	if err != nil {
		return nil, err
	}
	column := strings.ToLower(strings.TrimSpace(e.Args[2]))
	value := e.Args[3]

	switch table {
	case "stations":
		return s.editStationCell(id, column, value)
	case "lines":
		return s.editLineCell(id, column, value)
	default:
		return nil, fmt.Errorf("%w: unknown table %q", ErrBadArgs, table)
	}
}

func (s *Service) editStationCell(id uint, column, value string) (any, error) {
	st, ok := s.deps.Store.Station(id)
	if !ok {
		return nil, store.ErrNotFound
	}

	switch column {
	case "name":
		if err := s.deps.Store.RenameStation(id, util.TrimQuotes(value)); err != nil {
			return nil, err
		}
		return "ok", nil
	case "x":
		v, ok := util.ParseFloat(value)
		if !ok {
			return "ignored", nil
		}
		return "ok", s.deps.Store.UpdateStationPosition(id, v, st.Position.Y)
	case "y":
		v, ok := util.ParseFloat(value)
		if !ok {
			return "ignored", nil
		}
		return "ok", s.deps.Store.UpdateStationPosition(id, st.Position.X, v)
	case "z":
		// Elevation is derived from the surface.
		return "ignored", nil
	default:
		return nil, fmt.Errorf("%w: unknown column %q", ErrBadArgs, column)
	}
}

func (s *Service) editLineCell(id uint, column, value string) (any, error) {
	if _, ok := s.deps.Store.Line(id); !ok {
		return nil, store.ErrNotFound
	}

	switch column {
	case "name":
		if err := s.deps.Store.RenameLine(id, util.TrimQuotes(value)); err != nil {
			return nil, err
		}
		return "ok", nil
	case "stations":
		// The cell holds station names; resolve them back to ids. The
		// slice stays non-nil so an edit resolving nothing is still a
		// replacement, and fails validation, rather than a keep.
		ids := []uint{}
		for _, name := range convert.SplitStationNames(value) {
			if st, ok := s.deps.Store.StationByName(name); ok {
				ids = append(ids, st.ID)
			}
		}
		if err := s.deps.Store.UpdateLine(id, ids, nil); err != nil {
			return nil, err
		}
		return "ok", nil
	case "color":
		c := core.ParseHex(value)
		if err := s.deps.Store.UpdateLine(id, nil, &c); err != nil {
			return nil, err
		}
		return "ok", nil
	default:
		return nil, fmt.Errorf("%w: unknown column %q", ErrBadArgs, column)
	}
}

// Elevation looks up the surface height under "x,y".
func (s *Service) Elevation(e dispatcher.Event) (any, error) {
	if len(e.Args) < 1 {
		return nil, fmt.Errorf("%w: want coordinates", ErrBadArgs)
	}
	pos, err := geo.ParsePosition(e.Args[0])
	if err != nil {
		return nil, err
	}
	return s.deps.Store.Surface().Elevation(pos.X, pos.Y), nil
}

// LayoutSave flattens the store and hands it to the storage backend.
func (s *Service) LayoutSave(e dispatcher.Event) (any, error) {
	stations, lines := convert.SnapshotStore(s.deps.Store)
	if err := s.deps.Backend.Save(stations, lines); err != nil {
		return nil, err
	}
	s.deps.Logger.Info().
		Int("stations", len(stations)).
		Int("lines", len(lines)).
		Msg("Layout saved")
	return "saved", nil
}

// LayoutLoad clears the store and restores the persisted layout.
func (s *Service) LayoutLoad(e dispatcher.Event) (any, error) {
	stations, lines, err := s.deps.Backend.Load()
	if err != nil {
		return nil, err
	}
	s.deps.Store.Reset()
	ns, nl := convert.RestoreStore(s.deps.Store, stations, lines)
	if dropped := len(stations) - ns + len(lines) - nl; dropped > 0 {
		s.deps.Logger.Warn().Int("dropped", dropped).Msg("Some persisted records could not be restored")
	}
	s.deps.Logger.Info().Int("stations", ns).Int("lines", nl).Msg("Layout loaded")
	return fmt.Sprintf("loaded %d stations, %d lines", ns, nl), nil
}

// LayoutClear empties the store; counters restart at 1.
func (s *Service) LayoutClear(e dispatcher.Event) (any, error) {
	s.deps.Store.Reset()
	return "cleared", nil
}
