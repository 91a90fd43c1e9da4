package pipeline

import (
	"fmt"
	"strings"

	"github.com/tsawler/refit/exchange"
	"github.com/tsawler/refit/model"
)

// WarningCode identifies the kind of non-fatal condition a Warning
// reports.
type WarningCode string

const (
	// WarnMissingTranslation marks a block whose id is absent from the
	// translation map; the block keeps its original text.
	WarnMissingTranslation WarningCode = "missing_translation"

	// WarnFitOverflow marks a block whose replacement text still
	// overflows at the minimum font size.
	WarnFitOverflow WarningCode = "fit_overflow"

	// WarnSpanRejected marks a span dropped during extraction because
	// its geometry was malformed.
	WarnSpanRejected WarningCode = "span_rejected"

	// WarnFontSubstituted marks a block measured with the fallback
	// font because its own font could not be measured.
	WarnFontSubstituted WarningCode = "font_substituted"
)

// Warning reports a non-fatal condition encountered while extracting
// or rebuilding a document.
type Warning struct {
	Code    WarningCode
	Message string
	BlockID string
	Page    int
}

func (w Warning) String() string {
	var b strings.Builder
	b.WriteString(string(w.Code))
	if w.Page > 0 {
		fmt.Fprintf(&b, " page %d", w.Page)
	}
	if w.BlockID != "" {
		fmt.Fprintf(&b, " block %s", w.BlockID)
	}
	if w.Message != "" {
		b.WriteString(": ")
		b.WriteString(w.Message)
	}
	return b.String()
}

// FormatWarnings joins warnings into a single human-readable string.
func FormatWarnings(warnings []Warning) string {
	parts := make([]string, len(warnings))
	for i, w := range warnings {
		parts[i] = w.String()
	}
	return strings.Join(parts, "; ")
}

// Result summarizes a completed rebuild.
type Result struct {
	OutputFile string
	Pages      int
	Blocks     int
	Translated int
	Overflowed int
	Warnings   []Warning
}

// Pipeline is one extraction and rebuild strategy. Extract reads the
// source document into the layout model; Rebuild renders a copy of
// the source with each block's text replaced from the translation
// map.
type Pipeline interface {
	Name() string
	Extract(src string) (*model.Document, []Warning, error)
	Rebuild(src string, doc *model.Document, tm exchange.TranslationMap, out string) (*Result, error)
}

// Names lists the closed set of strategy names.
func Names() []string {
	return []string{"direct", "scanned"}
}

// Known reports whether name is one of the supported strategies.
func Known(name string) bool {
	for _, n := range Names() {
		if n == name {
			return true
		}
	}
	return false
}

// New creates the named strategy with default configuration. The
// scanned strategy additionally needs an image source and a word
// recognizer before Extract will work; see NewScanned.
func New(name string) (Pipeline, error) {
	switch name {
	case "direct":
		return NewDirect(), nil
	case "scanned":
		return NewScanned(nil, nil), nil
	default:
		return nil, fmt.Errorf("unknown pipeline %q (supported: %s)", name, strings.Join(Names(), ", "))
	}
}
