package geometry

import (
	"errors"
	"testing"

	"github.com/railmap/editor/internal/dem"
	"github.com/railmap/editor/pkg/core"
)

func TestPartition_ThresholdSplit(t *testing.T) {
	s := dem.FromValues([][]float64{
		{0, 0.005, 0.01},
		{0.011, 5, 250},
	}).WithBounds(core.Bounds{MinX: 0, MinY: 0, MaxX: 1000, MaxY: 1000})

	land, sea := Partition(s)

	if len(land) != 3 {
		t.Fatalf("expected 3 land points, got %d", len(land))
	}
	if len(sea) != 3 {
		t.Fatalf("expected 3 sea points, got %d", len(sea))
	}

	// Land keeps elevation.
	for _, p := range land {
		if p.Z <= SeaLevelThreshold {
			t.Errorf("land point %+v at or below threshold", p)
		}
	}
	// Sea is forced to exactly zero, even for nonzero originals
	// (0.005, 0.01 are at or below the threshold).
	for _, p := range sea {
		if p.Z != 0 {
			t.Errorf("sea point %+v has nonzero elevation", p)
		}
	}
}

func TestPartition_BoundaryValueIsSea(t *testing.T) {
	s := dem.FromValues([][]float64{{SeaLevelThreshold}})

	land, sea := Partition(s)
	if len(land) != 0 {
		t.Errorf("value exactly at threshold must be sea, got land %+v", land)
	}
	if len(sea) != 1 {
		t.Fatalf("expected 1 sea point, got %d", len(sea))
	}
}

func TestPartition_NilSurface(t *testing.T) {
	land, sea := Partition(nil)
	if land != nil || sea != nil {
		t.Errorf("expected empty partitions for nil surface")
	}
}

func TestBuildCurve_TooFewPoints(t *testing.T) {
	_, err := BuildCurve(nil, DefaultCurveSegments)
	if !errors.Is(err, ErrTooFewPoints) {
		t.Errorf("expected ErrTooFewPoints for empty input, got %v", err)
	}

	_, err = BuildCurve([]core.Position3D{{X: 1, Y: 2, Z: 3}}, DefaultCurveSegments)
	if !errors.Is(err, ErrTooFewPoints) {
		t.Errorf("expected ErrTooFewPoints for single point, got %v", err)
	}
}

func TestBuildCurve_PassesThroughControlPoints(t *testing.T) {
	points := []core.Position3D{
		{X: 0, Y: 0, Z: 0},
		{X: 100, Y: 50, Z: 10},
		{X: 200, Y: 0, Z: 5},
		{X: 300, Y: -50, Z: 0},
	}

	ls, err := BuildCurve(points, DefaultCurveSegments)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seq := ls.Coordinates()
	found := 0
	idx := 0
	for i := 0; i < seq.Length(); i++ {
		c := seq.Get(i)
		p := points[idx]
		if c.X == p.X && c.Y == p.Y && c.Z == p.Z {
			found++
			idx++
			if idx == len(points) {
				break
			}
		}
	}
	if found != len(points) {
		t.Errorf("curve passes through %d of %d control points in order", found, len(points))
	}
}

func TestBuildCurve_EndpointsExact(t *testing.T) {
	points := []core.Position3D{
		{X: 1, Y: 2, Z: 3},
		{X: 4, Y: 5, Z: 6},
	}

	ls, err := BuildCurve(points, DefaultCurveSegments)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seq := ls.Coordinates()
	first := seq.Get(0)
	last := seq.Get(seq.Length() - 1)
	if first.X != 1 || first.Y != 2 || first.Z != 3 {
		t.Errorf("first vertex = %+v, want control point 0", first)
	}
	if last.X != 4 || last.Y != 5 || last.Z != 6 {
		t.Errorf("last vertex = %+v, want last control point", last)
	}
}

func TestBuildCurve_SubdivisionCount(t *testing.T) {
	points := []core.Position3D{
		{X: 0, Y: 0},
		{X: 10, Y: 0},
		{X: 20, Y: 0},
	}

	ls, err := BuildCurve(points, DefaultCurveSegments)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 2 spans, 25 segments each, plus the leading vertex.
	if got := ls.Coordinates().Length(); got != 51 {
		t.Errorf("vertex count = %d, want 51", got)
	}

	// A doubled budget doubles the per-span subdivision.
	ls, err = BuildCurve(points, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ls.Coordinates().Length(); got != 101 {
		t.Errorf("dense vertex count = %d, want 101", got)
	}
}

func TestBuildCurve_SegmentsBelowSpanCount(t *testing.T) {
	points := []core.Position3D{
		{X: 0}, {X: 1}, {X: 2}, {X: 3}, {X: 4},
	}

	ls, err := BuildCurve(points, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Raised to one segment per span: a plain polyline through the points.
	if got := ls.Coordinates().Length(); got != 5 {
		t.Errorf("vertex count = %d, want 5", got)
	}
}
