package dem

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

func encodeMaskPNG(t *testing.T, land [][]bool) []byte {
	t.Helper()
	h := len(land)
	w := len(land[0])
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if land[y][x] {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding mask: %v", err)
	}
	return buf.Bytes()
}

func TestGenerateGradient_SeaStaysZero(t *testing.T) {
	// Island: land in the middle, sea around the border.
	land := make([][]bool, 9)
	for y := range land {
		land[y] = make([]bool, 9)
		for x := range land[y] {
			land[y][x] = y > 0 && y < 8 && x > 0 && x < 8
		}
	}
	mask := encodeMaskPNG(t, land)

	var out bytes.Buffer
	if err := GenerateGradient(bytes.NewReader(mask), &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	img, err := png.Decode(&out)
	if err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	g16, ok := img.(*image.Gray16)
	if !ok {
		t.Fatalf("expected 16-bit grayscale output, got %T", img)
	}

	// Sea pixels stay exactly 0.
	for x := 0; x < 9; x++ {
		if v := g16.Gray16At(x, 0).Y; v != 0 {
			t.Errorf("sea pixel (%d, 0) = %d, want 0", x, v)
		}
	}

	// The island center is the farthest point from the sea and must be
	// the peak, strictly above the coastal ring.
	center := g16.Gray16At(4, 4).Y
	coast := g16.Gray16At(1, 4).Y
	if center == 0 {
		t.Fatal("island center has zero elevation")
	}
	if center <= coast {
		t.Errorf("center (%d) not higher than coast (%d)", center, coast)
	}
}

func TestGenerateGradient_Undecodable(t *testing.T) {
	var out bytes.Buffer
	err := GenerateGradient(strings.NewReader("junk"), &out)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrImageDecode) {
		t.Errorf("expected ErrImageDecode, got %v", err)
	}
}
