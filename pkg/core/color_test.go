package core

import (
	"math"
	"testing"
)

func TestHex_KnownColors(t *testing.T) {
	tests := []struct {
		name     string
		color    RGB
		expected string
	}{
		{"black", RGB{0, 0, 0}, "#000000"},
		{"white", RGB{1, 1, 1}, "#FFFFFF"},
		{"red", RGB{1, 0, 0}, "#FF0000"},
		{"green", RGB{0, 1, 0}, "#00FF00"},
		{"blue", RGB{0, 0, 1}, "#0000FF"},
		{"mid gray", RGB{0.5, 0.5, 0.5}, "#7F7F7F"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.color.Hex(); got != tt.expected {
				t.Errorf("Hex() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestParseHex_Valid(t *testing.T) {
	c := ParseHex("#FF8000")
	if c.R != 1.0 {
		t.Errorf("expected R=1.0, got %f", c.R)
	}
	if math.Abs(c.G-128.0/255.0) > 1e-9 {
		t.Errorf("expected G=128/255, got %f", c.G)
	}
	if c.B != 0 {
		t.Errorf("expected B=0, got %f", c.B)
	}
}

func TestParseHex_LowercaseAndWhitespace(t *testing.T) {
	c := ParseHex("  #ff0000 ")
	if c.R != 1.0 || c.G != 0 || c.B != 0 {
		t.Errorf("expected red, got %+v", c)
	}
}

func TestParseHex_MalformedYieldsDefault(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"too short", "#FFF"},
		{"too long", "#FF00FF00"},
		{"non-hex digits", "#GGHHII"},
		{"no digits", "#"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseHex(tt.input); got != DefaultLineColor {
				t.Errorf("ParseHex(%q) = %+v, want default green", tt.input, got)
			}
		})
	}
}

func TestColorRoundTrip(t *testing.T) {
	// hexToColor(colorToHex(c)) == c within 1/255 per channel.
	colors := []RGB{
		{0, 0, 0},
		{1, 1, 1},
		{0.1, 0.2, 0.3},
		{0.999, 0.001, 0.5},
		{1.0 / 3.0, 2.0 / 3.0, 0.25},
	}

	const tol = 1.0 / 255.0
	for _, c := range colors {
		got := ParseHex(c.Hex())
		if math.Abs(got.R-c.R) > tol || math.Abs(got.G-c.G) > tol || math.Abs(got.B-c.B) > tol {
			t.Errorf("round trip of %+v gave %+v, outside 1/255 tolerance", c, got)
		}
	}
}

func TestRandomColor_InRange(t *testing.T) {
	for i := 0; i < 100; i++ {
		c := RandomColor()
		if c.R < 0 || c.R > 1 || c.G < 0 || c.G > 1 || c.B < 0 || c.B > 1 {
			t.Fatalf("channel out of range: %+v", c)
		}
	}
}
