// Package dem loads height-encoded terrain images into an immutable
// elevation surface and answers nearest-sample elevation queries.
package dem

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"

	// Terrain rasters arrive as 16-bit grayscale PNG or TIFF.
	_ "image/png"

	_ "golang.org/x/image/tiff"

	"github.com/railmap/editor/pkg/core"
)

// ErrImageDecode is returned when a terrain image is missing or cannot
// be decoded.
var ErrImageDecode = errors.New("terrain image missing or undecodable")

// DefaultHeightScale converts raw 16-bit sample values to elevations for
// the station-map rasters. The mountain rasters use 0.1.
const DefaultHeightScale = 0.05

// Surface is an immutable 2D grid of elevation values with coordinate
// arrays mapping grid index to planar position. It is replaced wholesale
// when a new terrain is loaded, never mutated in place.
type Surface struct {
	values [][]float64 // values[i][j]; i follows the x axis, j the y axis
	xs     []float64   // planar x coordinate of row i
	ys     []float64   // planar y coordinate of column j
}

// Decode reads a single-channel terrain image and scales each raw sample
// by heightScale. The grid is positioned later via WithBounds; a freshly
// decoded surface spans [0, nx) x [0, ny) in index units.
func Decode(r io.Reader, heightScale float64) (*Surface, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}

	b := img.Bounds()
	nx, ny := b.Dy(), b.Dx() // image rows follow the x axis, columns the y axis
	if nx == 0 || ny == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrImageDecode)
	}

	values := make([][]float64, nx)
	for i := 0; i < nx; i++ {
		row := make([]float64, ny)
		for j := 0; j < ny; j++ {
			// Gray16 conversion keeps the full 16-bit sample depth.
			g := color.Gray16Model.Convert(img.At(b.Min.X+j, b.Min.Y+i)).(color.Gray16)
			row[j] = float64(g.Y) * heightScale
		}
		values[i] = row
	}

	return FromValues(values), nil
}

// Load decodes the terrain image at path.
func Load(path string, heightScale float64) (*Surface, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}
	defer f.Close()
	return Decode(f, heightScale)
}

// FromValues builds a surface directly from an elevation grid. Rows must
// have equal length. Coordinates default to index units until WithBounds
// is applied.
func FromValues(values [][]float64) *Surface {
	nx := len(values)
	ny := 0
	if nx > 0 {
		ny = len(values[0])
	}
	return &Surface{
		values: values,
		xs:     linspace(0, float64(nx-1), nx),
		ys:     linspace(0, float64(ny-1), ny),
	}
}

// WithBounds returns a copy of the surface whose sample coordinates are
// linearly distributed across the bounding rectangle's extents, matching
// the grid's sample counts.
func (s *Surface) WithBounds(b core.Bounds) *Surface {
	return &Surface{
		values: s.values,
		xs:     linspace(0, b.Width(), len(s.values)),
		ys:     linspace(0, b.Height(), s.ny()),
	}
}

func (s *Surface) ny() int {
	if len(s.values) == 0 {
		return 0
	}
	return len(s.values[0])
}

// Size returns the grid dimensions (x samples, y samples).
func (s *Surface) Size() (int, int) {
	return len(s.values), s.ny()
}

// XCoords returns the planar x coordinate of each grid row.
func (s *Surface) XCoords() []float64 { return s.xs }

// YCoords returns the planar y coordinate of each grid column.
func (s *Surface) YCoords() []float64 { return s.ys }

// At returns the elevation value at grid index (i, j).
func (s *Surface) At(i, j int) float64 { return s.values[i][j] }

// Elevation performs nearest-sample lookup: the closest index in the
// x-coordinate array and, independently, the closest in y. Coordinates
// outside the sampled range clamp to the nearest boundary index. A nil
// surface samples to 0.
func (s *Surface) Elevation(x, y float64) float64 {
	if s == nil || len(s.values) == 0 {
		return 0
	}
	i := nearestIndex(s.xs, x)
	j := nearestIndex(s.ys, y)
	return s.values[i][j]
}

// nearestIndex returns the index whose value is closest to v under
// absolute distance. Ties resolve to the lower index.
func nearestIndex(coords []float64, v float64) int {
	best := 0
	bestDist := abs(coords[0] - v)
	for i := 1; i < len(coords); i++ {
		if d := abs(coords[i] - v); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// linspace returns n evenly spaced values from start to stop inclusive.
func linspace(start, stop float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = start
		return out
	}
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}
