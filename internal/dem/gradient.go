package dem

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
)

// GenerateGradient converts a binary land/sea mask image into a 16-bit
// height-encoded gradient raster: each land pixel's height follows its
// distance to the nearest sea pixel, normalized and shaped with a
// smoothstep-like curve so coastlines rise gently and interiors flatten.
// Pixels darker than the binarization threshold (127) are sea and stay 0.
func GenerateGradient(r io.Reader, w io.Writer) error {
	img, _, err := image.Decode(r)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrImageDecode, err)
	}

	b := img.Bounds()
	h, wid := b.Dy(), b.Dx()
	if h == 0 || wid == 0 {
		return fmt.Errorf("%w: empty image", ErrImageDecode)
	}

	land := make([][]bool, h)
	for y := 0; y < h; y++ {
		land[y] = make([]bool, wid)
		for x := 0; x < wid; x++ {
			g := color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
			land[y][x] = g.Y > 127
		}
	}

	dist := distanceToSea(land)

	maxDist := 0.0
	for y := range dist {
		for x := range dist[y] {
			if dist[y][x] > maxDist {
				maxDist = dist[y][x]
			}
		}
	}

	out := image.NewGray16(image.Rect(0, 0, wid, h))
	for y := 0; y < h; y++ {
		for x := 0; x < wid; x++ {
			if !land[y][x] {
				continue
			}
			t := dist[y][x]
			if maxDist > 0 {
				t /= maxDist
			}
			t = t * t
			t = -1.5*t*t*t + 2*t*t + 0.5*t
			t = math.Min(math.Max(t, 0), 1)
			out.SetGray16(x, y, color.Gray16{Y: uint16(t * 65535)})
		}
	}

	return png.Encode(w, out)
}

// distanceToSea is a two-pass chamfer distance transform: for every land
// pixel, the approximate Euclidean distance to the nearest sea pixel.
func distanceToSea(land [][]bool) [][]float64 {
	const diag = math.Sqrt2
	h := len(land)
	w := len(land[0])
	inf := float64(h + w)

	d := make([][]float64, h)
	for y := 0; y < h; y++ {
		d[y] = make([]float64, w)
		for x := 0; x < w; x++ {
			if land[y][x] {
				d[y][x] = inf
			}
		}
	}

	relax := func(y, x, ny, nx int, cost float64) {
		if ny < 0 || ny >= h || nx < 0 || nx >= w {
			return
		}
		if v := d[ny][nx] + cost; v < d[y][x] {
			d[y][x] = v
		}
	}

	// forward pass: upper-left neighbors
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			relax(y, x, y, x-1, 1)
			relax(y, x, y-1, x, 1)
			relax(y, x, y-1, x-1, diag)
			relax(y, x, y-1, x+1, diag)
		}
	}
	// backward pass: lower-right neighbors
	for y := h - 1; y >= 0; y-- {
		for x := w - 1; x >= 0; x-- {
			relax(y, x, y, x+1, 1)
			relax(y, x, y+1, x, 1)
			relax(y, x, y+1, x+1, diag)
			relax(y, x, y+1, x-1, diag)
		}
	}

	return d
}
