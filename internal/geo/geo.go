// Package geo parses planar coordinates from their interactive text form
// and converts geographic bounds to the planar meter units the elevation
// surface is addressed in.
package geo

import (
	"errors"
	"strconv"
	"strings"

	"github.com/wroge/wgs84"

	"github.com/railmap/editor/pkg/core"
)

// ErrInvalidCoordinates is returned when a coordinate string cannot be
// parsed.
var ErrInvalidCoordinates = errors.New("invalid coordinates provided")

// ParsePosition parses "x,y" or "x,y,z" into a core.Position3D.
func ParsePosition(coords string) (core.Position3D, error) {
	parts := strings.Split(coords, ",")
	if len(parts) < 2 {
		return core.Position3D{}, ErrInvalidCoordinates
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return core.Position3D{}, ErrInvalidCoordinates
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return core.Position3D{}, ErrInvalidCoordinates
	}
	var z float64
	if len(parts) > 2 {
		z, err = strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
		if err != nil {
			return core.Position3D{}, ErrInvalidCoordinates
		}
	}
	return core.Position3D{X: x, Y: y, Z: z}, nil
}

// BoundsToMeters converts a geographic bounding box (EPSG:4326, degrees)
// to planar Web Mercator meters (EPSG:3857). Terrain grids are addressed
// in meters; data sources usually describe their extent in lon/lat.
func BoundsToMeters(minLon, minLat, maxLon, maxLat float64) core.Bounds {
	f := wgs84.EPSG().Transform(4326, 3857)
	minX, minY, _ := f(minLon, minLat, 0)
	maxX, maxY, _ := f(maxLon, maxLat, 0)
	return core.Bounds{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
}
