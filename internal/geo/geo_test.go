package geo

import (
	"errors"
	"testing"
)

func TestParsePosition_ValidWithElevation(t *testing.T) {
	p, err := ParsePosition("100.5,200.25,50.0")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.X != 100.5 {
		t.Errorf("expected X=100.5, got %f", p.X)
	}
	if p.Y != 200.25 {
		t.Errorf("expected Y=200.25, got %f", p.Y)
	}
	if p.Z != 50.0 {
		t.Errorf("expected Z=50.0, got %f", p.Z)
	}
}

func TestParsePosition_ValidWithoutElevation(t *testing.T) {
	p, err := ParsePosition("100.5,200.25")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Z != 0 {
		t.Errorf("expected Z=0, got %f", p.Z)
	}
}

func TestParsePosition_Whitespace(t *testing.T) {
	p, err := ParsePosition(" 10 , 20 ")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.X != 10 || p.Y != 20 {
		t.Errorf("expected (10, 20), got (%f, %f)", p.X, p.Y)
	}
}

func TestParsePosition_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"single component", "100.5"},
		{"bad x", "abc,200"},
		{"bad y", "100,xyz"},
		{"bad z", "100,200,zzz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePosition(tt.input)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrInvalidCoordinates) {
				t.Errorf("expected ErrInvalidCoordinates, got %v", err)
			}
		})
	}
}

func TestBoundsToMeters_Origin(t *testing.T) {
	b := BoundsToMeters(0, 0, 0, 0)
	if b.MinX != 0 || b.MinY != 0 {
		t.Errorf("expected origin to map to origin, got %+v", b)
	}
}

func TestBoundsToMeters_NonZero(t *testing.T) {
	b := BoundsToMeters(-10, -10, 10, 10)
	if b.MinX >= 0 || b.MinY >= 0 {
		t.Errorf("expected negative min corner, got %+v", b)
	}
	if b.MaxX <= 0 || b.MaxY <= 0 {
		t.Errorf("expected positive max corner, got %+v", b)
	}
	if b.Width() != b.MaxX-b.MinX {
		t.Errorf("Width() inconsistent with corners")
	}
}
