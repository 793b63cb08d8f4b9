package geometry

import (
	"errors"

	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/railmap/editor/pkg/core"
)

// DefaultCurveSegments is the subdivision budget used when the caller
// does not configure one.
const DefaultCurveSegments = 50

// ErrTooFewPoints is returned when a curve is requested through fewer
// than two points.
var ErrTooFewPoints = errors.New("curve needs at least 2 points")

// BuildCurve interpolates a smooth Catmull-Rom spline through the
// ordered points and returns it as a 3D line string. Every input point
// lies exactly on the result, in order. segments is the total
// subdivision budget distributed across the spans; values below the
// span count are raised so each span gets at least one segment.
func BuildCurve(points []core.Position3D, segments int) (geom.LineString, error) {
	if len(points) < 2 {
		return geom.LineString{}, ErrTooFewPoints
	}

	spans := len(points) - 1
	perSpan := segments / spans
	if perSpan < 1 {
		perSpan = 1
	}

	coords := make([]float64, 0, (spans*perSpan+1)*3)
	appendPoint := func(p core.Position3D) {
		coords = append(coords, p.X, p.Y, p.Z)
	}

	appendPoint(points[0])
	for s := 0; s < spans; s++ {
		p0 := points[max(s-1, 0)]
		p1 := points[s]
		p2 := points[s+1]
		p3 := points[min(s+2, len(points)-1)]
		for k := 1; k <= perSpan; k++ {
			t := float64(k) / float64(perSpan)
			if k == perSpan {
				// Land exactly on the control point, avoiding float drift.
				appendPoint(p2)
				continue
			}
			appendPoint(catmullRom(p0, p1, p2, p3, t))
		}
	}

	seq := geom.NewSequence(coords, geom.DimXYZ)
	ls, err := geom.NewLineString(seq)
	if err != nil {
		return geom.LineString{}, err
	}
	return ls, nil
}

// catmullRom evaluates the uniform Catmull-Rom basis between p1 and p2
// at local parameter t in (0, 1).
func catmullRom(p0, p1, p2, p3 core.Position3D, t float64) core.Position3D {
	t2 := t * t
	t3 := t2 * t
	blend := func(a, b, c, d float64) float64 {
		return 0.5 * ((2 * b) +
			(-a+c)*t +
			(2*a-5*b+4*c-d)*t2 +
			(-a+3*b-3*c+d)*t3)
	}
	return core.Position3D{
		X: blend(p0.X, p1.X, p2.X, p3.X),
		Y: blend(p0.Y, p1.Y, p2.Y, p3.Y),
		Z: blend(p0.Z, p1.Z, p2.Z, p3.Z),
	}
}
