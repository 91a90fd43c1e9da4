package font

import (
	"fmt"
	"strings"

	"github.com/tsawler/refit/fit"
)

// Standard measures text against built-in metric tables for the
// fourteen base fonts. Unknown font names resolve to the closest base
// font, so Measure never fails on the name alone.
type Standard struct{}

// NewStandard creates a standard-font measurement provider.
func NewStandard() *Standard {
	return &Standard{}
}

// Measure returns the width of text and the line height for one of the
// base fonts. fontName is resolved with ResolveStandard first.
func (s *Standard) Measure(fontName string, fontSize float64, text string) (fit.Measurement, error) {
	if fontSize <= 0 {
		return fit.Measurement{}, fmt.Errorf("invalid font size %g", fontSize)
	}

	base := ResolveStandard(fontName)
	widths := standardWidths[base]
	fallback := 500.0
	if strings.HasPrefix(base, "Courier") {
		fallback = 600.0
	}

	total := 0.0
	for _, r := range text {
		if w, ok := widths[r]; ok {
			total += w
		} else {
			total += fallback
		}
	}

	return fit.Measurement{
		Width:      total * fontSize / 1000.0,
		LineHeight: fontSize * defaultLineSpacing,
	}, nil
}

const defaultLineSpacing = 1.2

// ResolveStandard maps an arbitrary document font name onto one of the
// fourteen base fonts. Subset prefixes ("ABCDEF+") and foundry
// suffixes are ignored; family and style are matched by keyword, so
// "Arial-BoldMT" resolves to "Helvetica-Bold" and "Georgia-Italic" to
// "Times-Italic".
func ResolveStandard(name string) string {
	lower := strings.ToLower(TrimSubsetPrefix(name))

	if strings.Contains(lower, "zapf") || strings.Contains(lower, "dingbat") {
		return "ZapfDingbats"
	}
	if lower == "symbol" {
		return "Symbol"
	}

	bold := strings.Contains(lower, "bold") ||
		strings.Contains(lower, "black") ||
		strings.Contains(lower, "heavy") ||
		strings.Contains(lower, "semibold")
	italic := strings.Contains(lower, "italic") || strings.Contains(lower, "oblique")

	switch {
	case strings.Contains(lower, "courier") || strings.Contains(lower, "mono"):
		switch {
		case bold && italic:
			return "Courier-BoldOblique"
		case bold:
			return "Courier-Bold"
		case italic:
			return "Courier-Oblique"
		}
		return "Courier"
	case strings.Contains(lower, "times") ||
		strings.Contains(lower, "serif") ||
		strings.Contains(lower, "georgia") ||
		strings.Contains(lower, "garamond") ||
		strings.Contains(lower, "roman"):
		switch {
		case bold && italic:
			return "Times-BoldItalic"
		case bold:
			return "Times-Bold"
		case italic:
			return "Times-Italic"
		}
		return "Times-Roman"
	}

	switch {
	case bold && italic:
		return "Helvetica-BoldOblique"
	case bold:
		return "Helvetica-Bold"
	case italic:
		return "Helvetica-Oblique"
	}
	return "Helvetica"
}

// TrimSubsetPrefix removes an embedded-subset tag like "ABCDEF+" from
// the front of a font name.
func TrimSubsetPrefix(name string) string {
	if len(name) > 7 && name[6] == '+' {
		prefix := name[:6]
		upper := true
		for _, r := range prefix {
			if r < 'A' || r > 'Z' {
				upper = false
				break
			}
		}
		if upper {
			return name[7:]
		}
	}
	return name
}

// CoreFontStyle splits a font name into the family and style flags
// used by PDF writers: ("Helvetica", "B") for any bold sans font,
// ("Times", "BI") for a bold italic serif, and so on.
func CoreFontStyle(name string) (family, style string) {
	base := ResolveStandard(name)

	switch {
	case strings.HasPrefix(base, "Courier"):
		family = "Courier"
	case strings.HasPrefix(base, "Times"):
		family = "Times"
	default:
		family = "Helvetica"
	}

	if strings.Contains(base, "Bold") {
		style += "B"
	}
	if strings.Contains(base, "Italic") || strings.Contains(base, "Oblique") {
		style += "I"
	}
	return family, style
}

// Width tables for the base fonts, in 1000ths of an em. Oblique and
// italic cuts share the metrics of their upright variant.
var standardWidths = map[string]map[rune]float64{
	"Helvetica":             helveticaWidths,
	"Helvetica-Bold":        helveticaBoldWidths,
	"Helvetica-Oblique":     helveticaWidths,
	"Helvetica-BoldOblique": helveticaBoldWidths,
	"Times-Roman":           timesWidths,
	"Times-Bold":            timesBoldWidths,
	"Times-Italic":          timesWidths,
	"Times-BoldItalic":      timesBoldWidths,
	"Courier":               courierWidths,
	"Courier-Bold":          courierWidths,
	"Courier-Oblique":       courierWidths,
	"Courier-BoldOblique":   courierWidths,
	"Symbol":                symbolWidths,
	"ZapfDingbats":          zapfDingbatsWidths,
}

var helveticaWidths = map[rune]float64{
	' ': 278, '!': 278, '"': 355, '#': 556, '$': 556, '%': 889,
	'&': 667, '\'': 191, '(': 333, ')': 333, '*': 389, '+': 584,
	',': 278, '-': 333, '.': 278, '/': 278,
	'0': 556, '1': 556, '2': 556, '3': 556, '4': 556,
	'5': 556, '6': 556, '7': 556, '8': 556, '9': 556,
	':': 278, ';': 278, '<': 584, '=': 584, '>': 584, '?': 556, '@': 1015,
	'A': 667, 'B': 667, 'C': 722, 'D': 722, 'E': 667, 'F': 611,
	'G': 778, 'H': 722, 'I': 278, 'J': 500, 'K': 667, 'L': 556,
	'M': 833, 'N': 722, 'O': 778, 'P': 667, 'Q': 778, 'R': 722,
	'S': 667, 'T': 611, 'U': 722, 'V': 667, 'W': 944, 'X': 667,
	'Y': 667, 'Z': 611,
	'[': 278, '\\': 278, ']': 278, '^': 469, '_': 556, '`': 333,
	'a': 556, 'b': 556, 'c': 500, 'd': 556, 'e': 556, 'f': 278,
	'g': 556, 'h': 556, 'i': 222, 'j': 222, 'k': 500, 'l': 222,
	'm': 833, 'n': 556, 'o': 556, 'p': 556, 'q': 556, 'r': 333,
	's': 500, 't': 278, 'u': 556, 'v': 500, 'w': 722, 'x': 500,
	'y': 500, 'z': 500,
	'{': 334, '|': 260, '}': 334, '~': 584,
}

var helveticaBoldWidths = map[rune]float64{
	' ': 278, '!': 333, '"': 474, '#': 556, '$': 556, '%': 889,
	'&': 722, '\'': 238, '(': 333, ')': 333, '*': 389, '+': 584,
	',': 278, '-': 333, '.': 278, '/': 278,
	'0': 556, '1': 556, '2': 556, '3': 556, '4': 556,
	'5': 556, '6': 556, '7': 556, '8': 556, '9': 556,
	':': 333, ';': 333, '<': 584, '=': 584, '>': 584, '?': 611, '@': 975,
	'A': 722, 'B': 722, 'C': 722, 'D': 722, 'E': 667, 'F': 611,
	'G': 778, 'H': 722, 'I': 278, 'J': 556, 'K': 722, 'L': 611,
	'M': 833, 'N': 722, 'O': 778, 'P': 667, 'Q': 778, 'R': 722,
	'S': 667, 'T': 611, 'U': 722, 'V': 667, 'W': 944, 'X': 667,
	'Y': 667, 'Z': 611,
	'[': 333, '\\': 278, ']': 333, '^': 584, '_': 556, '`': 333,
	'a': 556, 'b': 611, 'c': 556, 'd': 611, 'e': 556, 'f': 333,
	'g': 611, 'h': 611, 'i': 278, 'j': 278, 'k': 556, 'l': 278,
	'm': 889, 'n': 611, 'o': 611, 'p': 611, 'q': 611, 'r': 389,
	's': 556, 't': 333, 'u': 611, 'v': 556, 'w': 778, 'x': 556,
	'y': 556, 'z': 500,
	'{': 389, '|': 280, '}': 389, '~': 584,
}

var timesWidths = map[rune]float64{
	' ': 250, '!': 333, '"': 408, '#': 500, '$': 500, '%': 833,
	'&': 778, '\'': 180, '(': 333, ')': 333, '*': 500, '+': 564,
	',': 250, '-': 333, '.': 250, '/': 278,
	'0': 500, '1': 500, '2': 500, '3': 500, '4': 500,
	'5': 500, '6': 500, '7': 500, '8': 500, '9': 500,
	':': 278, ';': 278, '<': 564, '=': 564, '>': 564, '?': 444, '@': 921,
	'A': 722, 'B': 667, 'C': 667, 'D': 722, 'E': 611, 'F': 556,
	'G': 722, 'H': 722, 'I': 333, 'J': 389, 'K': 722, 'L': 611,
	'M': 889, 'N': 722, 'O': 722, 'P': 556, 'Q': 722, 'R': 667,
	'S': 556, 'T': 611, 'U': 722, 'V': 722, 'W': 944, 'X': 722,
	'Y': 722, 'Z': 611,
	'[': 333, '\\': 278, ']': 333, '^': 469, '_': 500, '`': 333,
	'a': 444, 'b': 500, 'c': 444, 'd': 500, 'e': 444, 'f': 333,
	'g': 500, 'h': 500, 'i': 278, 'j': 278, 'k': 500, 'l': 278,
	'm': 778, 'n': 500, 'o': 500, 'p': 500, 'q': 500, 'r': 333,
	's': 389, 't': 278, 'u': 500, 'v': 500, 'w': 722, 'x': 500,
	'y': 500, 'z': 444,
	'{': 480, '|': 200, '}': 480, '~': 541,
}

var timesBoldWidths = map[rune]float64{
	' ': 250, '!': 333, '"': 555, '#': 500, '$': 500, '%': 1000,
	'&': 833, '\'': 278, '(': 333, ')': 333, '*': 500, '+': 570,
	',': 250, '-': 333, '.': 250, '/': 278,
	'0': 500, '1': 500, '2': 500, '3': 500, '4': 500,
	'5': 500, '6': 500, '7': 500, '8': 500, '9': 500,
	':': 333, ';': 333, '<': 570, '=': 570, '>': 570, '?': 500, '@': 930,
	'A': 722, 'B': 667, 'C': 722, 'D': 722, 'E': 667, 'F': 611,
	'G': 778, 'H': 778, 'I': 389, 'J': 500, 'K': 778, 'L': 667,
	'M': 944, 'N': 722, 'O': 778, 'P': 611, 'Q': 778, 'R': 722,
	'S': 556, 'T': 667, 'U': 722, 'V': 722, 'W': 1000, 'X': 722,
	'Y': 722, 'Z': 667,
	'[': 333, '\\': 278, ']': 333, '^': 581, '_': 500, '`': 333,
	'a': 500, 'b': 556, 'c': 444, 'd': 556, 'e': 444, 'f': 333,
	'g': 500, 'h': 556, 'i': 278, 'j': 333, 'k': 556, 'l': 278,
	'm': 833, 'n': 556, 'o': 500, 'p': 556, 'q': 556, 'r': 444,
	's': 389, 't': 333, 'u': 556, 'v': 500, 'w': 722, 'x': 500,
	'y': 500, 'z': 444,
	'{': 394, '|': 220, '}': 394, '~': 520,
}

// Courier is monospaced. Symbol and ZapfDingbats only get a uniform
// approximation since they are rarely the target of replacement text.
var (
	courierWidths      = map[rune]float64{}
	symbolWidths       = map[rune]float64{}
	zapfDingbatsWidths = map[rune]float64{}
)

func init() {
	for r := rune(32); r <= 126; r++ {
		courierWidths[r] = 600
		symbolWidths[r] = 500
		zapfDingbatsWidths[r] = 500
	}
}
