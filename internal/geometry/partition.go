// Package geometry derives display geometry from the data model: the
// land/sea partition of an elevation surface and smooth curves through
// ordered station coordinates.
package geometry

import (
	"github.com/railmap/editor/internal/dem"
	"github.com/railmap/editor/pkg/core"
)

// SeaLevelThreshold splits the terrain: strictly above is land, at or
// below is sea. This constant controls the rendered land/water boundary.
const SeaLevelThreshold = 0.01

// Partition maps every grid point of the surface into either the land or
// the sea point set. Land points keep their elevation; sea points have
// their elevation forced to exactly zero regardless of the stored value.
func Partition(s *dem.Surface) (land, sea []core.Position3D) {
	if s == nil {
		return nil, nil
	}
	xs := s.XCoords()
	ys := s.YCoords()
	nx, ny := s.Size()
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			v := s.At(i, j)
			p := core.Position3D{X: xs[i], Y: ys[j], Z: v}
			if v > SeaLevelThreshold {
				land = append(land, p)
			} else {
				p.Z = 0
				sea = append(sea, p)
			}
		}
	}
	return land, sea
}
