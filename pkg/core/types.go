// Package core holds the plain domain types shared by the annotation store,
// the storage backends and the command boundary. It has no GIS or database
// dependencies so that storage implementations can depend on it freely.
package core

// Position3D represents a 3D coordinate in planar map units.
type Position3D struct {
	X float64 `json:"x"` // easting
	Y float64 `json:"y"` // northing
	Z float64 `json:"z"` // elevation, derived from the terrain surface
}

// Bounds is a planar bounding rectangle (minX, minY, maxX, maxY).
type Bounds struct {
	MinX float64 `json:"minX"`
	MinY float64 `json:"minY"`
	MaxX float64 `json:"maxX"`
	MaxY float64 `json:"maxY"`
}

// Width returns the X extent of the rectangle.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns the Y extent of the rectangle.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Station is a named point annotation on the terrain.
// ID is assigned by the store, monotonically from 1, and never reused
// within a session. Z is always derived from the elevation surface at
// (X, Y), never edited directly.
type Station struct {
	ID       uint       `json:"id"`
	Name     string     `json:"name"`
	Position Position3D `json:"position"`
}

// Line is an ordered polyline annotation through at least two stations.
// StationIDs reference stations by id; order defines traversal order.
// A line that drops below two resolvable references is invalid and is
// removed by the store.
type Line struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	StationIDs []uint `json:"stationIds"`
	Color      RGB    `json:"color"`
}
