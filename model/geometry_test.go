package model

import (
	"errors"
	"testing"
)

func TestNewRect_Valid(t *testing.T) {
	r, err := NewRect(10, 20, 110, 40)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if r.Width() != 100 || r.Height() != 20 {
		t.Errorf("Expected 100x20, got %gx%g", r.Width(), r.Height())
	}
}

func TestNewRect_Malformed(t *testing.T) {
	cases := []struct {
		name           string
		x0, y0, x1, y1 float64
	}{
		{"x reversed", 110, 20, 10, 40},
		{"y reversed", 10, 40, 110, 20},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewRect(tc.x0, tc.y0, tc.x1, tc.y1)
			if !errors.Is(err, ErrMalformedGeometry) {
				t.Errorf("Expected ErrMalformedGeometry, got %v", err)
			}
		})
	}
}

func TestRect_Union(t *testing.T) {
	a := Rect{X0: 10, Y0: 10, X1: 50, Y1: 20}
	b := Rect{X0: 40, Y0: 5, X1: 90, Y1: 18}
	u := a.Union(b)
	want := Rect{X0: 10, Y0: 5, X1: 90, Y1: 20}
	if u != want {
		t.Errorf("Expected %+v, got %+v", want, u)
	}
}

func TestRect_VerticalOverlap(t *testing.T) {
	a := Rect{X0: 0, Y0: 100, X1: 50, Y1: 112}
	b := Rect{X0: 60, Y0: 100, X1: 90, Y1: 112}
	if got := a.VerticalOverlap(b); got != 1 {
		t.Errorf("Expected full overlap 1, got %g", got)
	}

	c := Rect{X0: 0, Y0: 106, X1: 50, Y1: 118}
	if got := a.VerticalOverlap(c); got != 0.5 {
		t.Errorf("Expected overlap 0.5, got %g", got)
	}

	d := Rect{X0: 0, Y0: 150, X1: 50, Y1: 162}
	if got := a.VerticalOverlap(d); got != 0 {
		t.Errorf("Expected no overlap, got %g", got)
	}
}

func TestRound3(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{1.23456, 1.235},
		{1.2344, 1.234},
		{0, 0},
		{-2.7185, -2.718},
	}
	for _, tc := range cases {
		if got := Round3(tc.in); got != tc.want {
			t.Errorf("Round3(%g): expected %g, got %g", tc.in, tc.want, got)
		}
	}
}

func TestRound3_Idempotent(t *testing.T) {
	values := []float64{1.235, 72.0, -3.141, 612.004, 0.001}
	for _, v := range values {
		if got := Round3(v); got != v {
			t.Errorf("Round3(%g) changed an already-rounded value to %g", v, got)
		}
	}
}

func TestColor_HexRoundTrip(t *testing.T) {
	c := Color{R: 18, G: 52, B: 86}
	hex := c.Hex()
	if hex != "#123456" {
		t.Errorf("Expected #123456, got %s", hex)
	}
	back, err := ParseHex(hex)
	if err != nil {
		t.Fatalf("ParseHex failed: %v", err)
	}
	if back != c {
		t.Errorf("Expected %+v, got %+v", c, back)
	}
}

func TestParseHex_Invalid(t *testing.T) {
	for _, s := range []string{"", "123456", "#12345", "#gggggg"} {
		if _, err := ParseHex(s); err == nil {
			t.Errorf("Expected error for %q", s)
		}
	}
}
