package model

import "fmt"

// Color is an opaque RGB color.
type Color struct {
	R, G, B uint8
}

// Black is the default text color.
var Black = Color{0, 0, 0}

// Hex returns the "#rrggbb" form used in the interchange document.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseHex parses a "#rrggbb" color string. Anything else is an error;
// callers that want a lenient default should fall back to Black themselves.
func ParseHex(s string) (Color, error) {
	var c Color
	if len(s) != 7 || s[0] != '#' {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return c, nil
}
