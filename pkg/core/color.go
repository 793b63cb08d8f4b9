package core

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
)

// RGB is a color with normalized channel values in [0, 1].
type RGB struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// DefaultLineColor is used when a serialized color cannot be parsed.
var DefaultLineColor = RGB{R: 0, G: 1, B: 0}

// Hex returns the color as an uppercase "#RRGGBB" string, the form used
// in the persisted line table.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X",
		int(c.R*255), int(c.G*255), int(c.B*255))
}

// ParseHex parses a "#RRGGBB" string into a normalized RGB triple.
// Malformed input yields DefaultLineColor rather than an error; the
// editor treats a bad color cell as "use the default", not a failure.
func ParseHex(s string) RGB {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return DefaultLineColor
	}
	r, err := strconv.ParseUint(s[0:2], 16, 8)
	if err != nil {
		return DefaultLineColor
	}
	g, err := strconv.ParseUint(s[2:4], 16, 8)
	if err != nil {
		return DefaultLineColor
	}
	b, err := strconv.ParseUint(s[4:6], 16, 8)
	if err != nil {
		return DefaultLineColor
	}
	return RGB{
		R: float64(r) / 255.0,
		G: float64(g) / 255.0,
		B: float64(b) / 255.0,
	}
}

// RandomColor returns a uniformly random color for a newly created line.
func RandomColor() RGB {
	return RGB{R: rand.Float64(), G: rand.Float64(), B: rand.Float64()}
}
