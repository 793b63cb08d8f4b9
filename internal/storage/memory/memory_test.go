package memory

import (
	"os"
	"testing"

	"github.com/rs/zerolog"

	"github.com/railmap/editor/internal/config"
	"github.com/railmap/editor/internal/model"
)

func testRecords() ([]model.Station, []model.Line) {
	stations := []model.Station{
		{Name: "North", X: "100.00", Y: "200.00", Z: "5.00"},
		{Name: "South", X: "300.00", Y: "400.00", Z: "7.50"},
	}
	lines := []model.Line{
		{Name: "Coast", Stations: "North, South", Color: "#0000FF"},
	}
	return stations, lines
}

func newTestBackend(t *testing.T, compress bool) *Backend {
	t.Helper()
	b := New(config.MemoryConfig{
		OutputDir:      t.TempDir(),
		CompressOutput: compress,
	}, zerolog.Nop())
	if err := b.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return b
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	b := newTestBackend(t, false)
	stations, lines := testRecords()

	if err := b.Save(stations, lines); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	gotStations, gotLines, err := b.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(gotStations) != 2 || len(gotLines) != 1 {
		t.Fatalf("got %d stations, %d lines", len(gotStations), len(gotLines))
	}
	if gotStations[0].Name != "North" || gotStations[0].X != "100.00" {
		t.Errorf("station = %+v", gotStations[0])
	}
	if gotLines[0].Stations != "North, South" {
		t.Errorf("line references = %q", gotLines[0].Stations)
	}
}

func TestLoad_FromFileOfPreviousRun(t *testing.T) {
	dir := t.TempDir()
	cfg := config.MemoryConfig{OutputDir: dir}

	first := New(cfg, zerolog.Nop())
	if err := first.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	stations, lines := testRecords()
	if err := first.Save(stations, lines); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// A fresh backend over the same directory reads the file.
	second := New(cfg, zerolog.Nop())
	if err := second.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	gotStations, gotLines, err := second.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(gotStations) != 2 || len(gotLines) != 1 {
		t.Errorf("got %d stations, %d lines", len(gotStations), len(gotLines))
	}
}

func TestSaveLoad_Compressed(t *testing.T) {
	b := newTestBackend(t, true)
	stations, lines := testRecords()

	if err := b.Save(stations, lines); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// The file on disk is gzip, not plain JSON.
	data, err := os.ReadFile(b.Location())
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(data) < 2 || data[0] != 0x1f || data[1] != 0x8b {
		t.Error("expected gzip magic bytes")
	}

	gotStations, _, err := b.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(gotStations) != 2 {
		t.Errorf("got %d stations", len(gotStations))
	}
}

func TestLoad_NothingPersisted(t *testing.T) {
	b := newTestBackend(t, false)

	stations, lines, err := b.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if stations != nil || lines != nil {
		t.Error("expected empty layout")
	}
}

func TestSave_OverwritesPrevious(t *testing.T) {
	b := newTestBackend(t, false)
	stations, lines := testRecords()
	if err := b.Save(stations, lines); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := b.Save(stations[:1], nil); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	gotStations, gotLines, err := b.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(gotStations) != 1 || len(gotLines) != 0 {
		t.Errorf("got %d stations, %d lines; want 1, 0", len(gotStations), len(gotLines))
	}
}

func TestInit_RequiresOutputDir(t *testing.T) {
	b := New(config.MemoryConfig{}, zerolog.Nop())
	if err := b.Init(); err == nil {
		t.Error("expected error for empty outputDir")
	}
}
