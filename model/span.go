package model

import (
	"strings"
	"unicode"
)

// Direction is the coarse writing direction of a run of text. Only the
// three directions the rebuild stage distinguishes are tracked; full bidi
// shaping is out of scope.
type Direction int

const (
	// LTR (left-to-right) for Latin, Cyrillic, CJK in modern usage, etc.
	LTR Direction = iota
	// RTL (right-to-left) for Arabic, Hebrew, Syriac, Thaana, N'Ko.
	RTL
	// TTB (top-to-bottom) for vertical writing modes. TTB is reported by
	// the extraction backend, never inferred from characters.
	TTB
)

// String returns "ltr", "rtl" or "ttb", the interchange spelling.
func (d Direction) String() string {
	switch d {
	case RTL:
		return "rtl"
	case TTB:
		return "ttb"
	default:
		return "ltr"
	}
}

// ParseDirection parses the interchange spelling. Unknown values map to
// LTR, the dominant case.
func ParseDirection(s string) Direction {
	switch s {
	case "rtl":
		return RTL
	case "ttb":
		return TTB
	default:
		return LTR
	}
}

// DetectDirection returns the dominant horizontal direction of s by
// counting strong directional characters. Digits, punctuation and
// whitespace are neutral. An empty or fully neutral string is LTR.
func DetectDirection(s string) Direction {
	ltr, rtl := 0, 0
	for _, r := range s {
		if unicode.IsDigit(r) || unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r) {
			continue
		}
		if isRTLScript(r) {
			rtl++
		} else {
			ltr++
		}
	}
	if rtl > ltr {
		return RTL
	}
	return LTR
}

// isRTLScript reports whether r belongs to a script written right-to-left.
func isRTLScript(r rune) bool {
	return unicode.Is(unicode.Arabic, r) ||
		unicode.Is(unicode.Hebrew, r) ||
		unicode.Is(unicode.Syriac, r) ||
		unicode.Is(unicode.Thaana, r) ||
		unicode.Is(unicode.Nko, r)
}

// Span is one atomic run of identically-styled text with its bounding box,
// as delivered by the extraction backend. Spans are immutable and scoped
// to a single page.
type Span struct {
	Text      string
	BBox      Rect
	FontName  string
	FontSize  float64
	Color     Color
	BaselineY float64
	Direction Direction
}

// Validate rejects spans with malformed geometry or a non-positive font
// size. The offending span is reported; validation never mutates.
func (s Span) Validate() error {
	if err := s.BBox.Validate(); err != nil {
		return err
	}
	if s.FontSize <= 0 {
		return ErrMalformedGeometry
	}
	return nil
}

// Line is an ordered run of spans believed to lie on one visual text line.
type Line struct {
	BBox  Rect
	Spans []Span
}

// NewLine builds a line from spans, computing the union bounding box.
func NewLine(spans []Span) Line {
	line := Line{Spans: spans}
	if len(spans) == 0 {
		return line
	}
	line.BBox = spans[0].BBox
	for _, s := range spans[1:] {
		line.BBox = line.BBox.Union(s.BBox)
	}
	return line
}

// Text returns the concatenated span text. A space is inserted
// between spans separated by a visible horizontal gap, so word-level
// spans (OCR output) join readably while glyph runs that carry their
// own spacing concatenate unchanged.
func (l Line) Text() string {
	var b strings.Builder
	for i, s := range l.Spans {
		if i > 0 {
			prev := l.Spans[i-1]
			gap := s.BBox.X0 - prev.BBox.X1
			if gap > 0.13*prev.FontSize &&
				!strings.HasSuffix(prev.Text, " ") && !strings.HasPrefix(s.Text, " ") {
				b.WriteString(" ")
			}
		}
		b.WriteString(s.Text)
	}
	return b.String()
}

// DominantFontSize returns the font size of the span contributing the most
// characters to the line, so a short superscript never dictates the size.
func (l Line) DominantFontSize() float64 {
	best, bestCount := 0.0, -1
	for _, s := range l.Spans {
		n := len([]rune(s.Text))
		if n > bestCount {
			best, bestCount = s.FontSize, n
		}
	}
	return best
}
