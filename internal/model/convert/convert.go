// Package convert maps between in-memory entities and their flattened
// persisted records. Records carry coordinates as fixed-point text and
// line references as station names; ids never survive a round trip.
package convert

import (
	"strconv"
	"strings"

	"github.com/railmap/editor/internal/model"
	"github.com/railmap/editor/internal/store"
	"github.com/railmap/editor/pkg/core"
)

// nameSeparator joins station names in a persisted line record.
const nameSeparator = ", "

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// StationToRecord flattens a station for persistence.
func StationToRecord(s core.Station) model.Station {
	rec := model.Station{
		Name: s.Name,
		X:    formatCoord(s.Position.X),
		Y:    formatCoord(s.Position.Y),
		Z:    formatCoord(s.Position.Z),
	}
	rec.ID = s.ID
	return rec
}

// RecordToPosition parses the planar coordinates of a persisted station.
// The stored elevation is ignored; it is re-derived from the surface on
// restore.
func RecordToPosition(rec model.Station) (core.Position3D, error) {
	x, err := strconv.ParseFloat(strings.TrimSpace(rec.X), 64)
	if err != nil {
		return core.Position3D{}, err
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(rec.Y), 64)
	if err != nil {
		return core.Position3D{}, err
	}
	return core.Position3D{X: x, Y: y}, nil
}

// LineToRecord flattens a line for persistence. stationName resolves a
// station id to its current name; unresolvable references are dropped.
func LineToRecord(l core.Line, stationName func(uint) (string, bool)) model.Line {
	names := make([]string, 0, len(l.StationIDs))
	for _, id := range l.StationIDs {
		if name, ok := stationName(id); ok {
			names = append(names, name)
		}
	}
	rec := model.Line{
		Name:     l.Name,
		Stations: strings.Join(names, nameSeparator),
		Color:    l.Color.Hex(),
	}
	rec.ID = l.ID
	return rec
}

// SplitStationNames splits a persisted reference list back into names.
func SplitStationNames(joined string) []string {
	if strings.TrimSpace(joined) == "" {
		return nil
	}
	parts := strings.Split(joined, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if name := strings.TrimSpace(p); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// SnapshotStore flattens the full store contents for persistence.
func SnapshotStore(st *store.Store) ([]model.Station, []model.Line) {
	stations := st.Stations()
	lines := st.Lines()

	stationRecs := make([]model.Station, 0, len(stations))
	for _, s := range stations {
		stationRecs = append(stationRecs, StationToRecord(s))
	}

	nameOf := func(id uint) (string, bool) {
		s, ok := st.Station(id)
		if !ok {
			return "", false
		}
		return s.Name, true
	}
	lineRecs := make([]model.Line, 0, len(lines))
	for _, l := range lines {
		lineRecs = append(lineRecs, LineToRecord(l, nameOf))
	}

	return stationRecs, lineRecs
}

// RestoreStore loads persisted records into the store. Station records
// with unparseable coordinates are dropped; line references resolve by
// station name, and lines left with fewer than two resolvable stations
// are dropped. Returns the number of stations and lines restored.
func RestoreStore(st *store.Store, stations []model.Station, lines []model.Line) (int, int) {
	restoredStations := 0
	for _, rec := range stations {
		pos, err := RecordToPosition(rec)
		if err != nil {
			continue
		}
		created := st.AddStation(pos.X, pos.Y)
		if rec.Name != "" {
			_ = st.RenameStation(created.ID, rec.Name)
		}
		restoredStations++
	}

	restoredLines := 0
	for _, rec := range lines {
		var ids []uint
		for _, name := range SplitStationNames(rec.Stations) {
			if s, ok := st.StationByName(name); ok {
				ids = append(ids, s.ID)
			}
		}
		if _, err := st.AddLine(rec.Name, ids, core.ParseHex(rec.Color)); err != nil {
			continue
		}
		restoredLines++
	}

	return restoredStations, restoredLines
}
