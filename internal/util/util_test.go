package util

import (
	"reflect"
	"testing"
)

func TestTrimQuotes(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`"quoted"`, "quoted"},
		{`plain`, "plain"},
		{`""`, ""},
		{`"half`, "half"},
	}
	for _, tt := range tests {
		if got := TrimQuotes(tt.in); got != tt.want {
			t.Errorf("TrimQuotes(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseFloat(t *testing.T) {
	if v, ok := ParseFloat(" 12.5 "); !ok || v != 12.5 {
		t.Errorf("got %f, %v", v, ok)
	}
	if _, ok := ParseFloat("12,5"); ok {
		t.Error("expected failure for comma decimal")
	}
	if _, ok := ParseFloat(""); ok {
		t.Error("expected failure for empty input")
	}
}

func TestParseIDList(t *testing.T) {
	tests := []struct {
		in   string
		want []uint
	}{
		{"1 2 3", []uint{1, 2, 3}},
		{"1,2,3", []uint{1, 2, 3}},
		{"1, 2,  3", []uint{1, 2, 3}},
		{"1 x 3", []uint{1, 3}},
		{"", []uint{}},
	}
	for _, tt := range tests {
		if got := ParseIDList(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseIDList(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
