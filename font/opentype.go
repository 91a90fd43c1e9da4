package font

import (
	"fmt"
	"os"
	"sync"

	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/tsawler/refit/fit"
)

// OpenType measures text using glyph advances from registered
// TrueType or OpenType font files. It is safe for concurrent use.
type OpenType struct {
	mu       sync.Mutex
	buf      sfnt.Buffer
	fonts    map[string]*sfnt.Font
	fallback *sfnt.Font
}

// NewOpenType creates an empty provider. Fonts must be registered
// before they can be measured.
func NewOpenType() *OpenType {
	return &OpenType{fonts: make(map[string]*sfnt.Font)}
}

// Register parses font file data and makes it available under name.
func (o *OpenType) Register(name string, data []byte) error {
	f, err := sfnt.Parse(data)
	if err != nil {
		return fmt.Errorf("parsing font %q: %w", name, err)
	}
	o.mu.Lock()
	o.fonts[name] = f
	o.mu.Unlock()
	return nil
}

// RegisterFile reads a font file from disk and registers it under name.
func (o *OpenType) RegisterFile(name, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading font file: %w", err)
	}
	return o.Register(name, data)
}

// Measure returns the advance width of text and the font's
// recommended line height at fontSize. The lookup tries the exact
// name, then the name with any subset prefix removed, then the
// provider's fallback font if it has one.
func (o *OpenType) Measure(fontName string, fontSize float64, text string) (fit.Measurement, error) {
	if fontSize <= 0 {
		return fit.Measurement{}, fmt.Errorf("invalid font size %g", fontSize)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	f, ok := o.fonts[fontName]
	if !ok {
		f, ok = o.fonts[TrimSubsetPrefix(fontName)]
	}
	if !ok {
		if o.fallback == nil {
			return fit.Measurement{}, fmt.Errorf("font %q not registered", fontName)
		}
		f = o.fallback
	}

	ppem := fixed.Int26_6(fontSize * 64)

	total := fixed.Int26_6(0)
	for _, r := range text {
		idx, err := f.GlyphIndex(&o.buf, r)
		if err != nil {
			return fit.Measurement{}, fmt.Errorf("glyph lookup for %q: %w", r, err)
		}
		adv, err := f.GlyphAdvance(&o.buf, idx, ppem, xfont.HintingNone)
		if err != nil {
			return fit.Measurement{}, fmt.Errorf("glyph advance for %q: %w", r, err)
		}
		total += adv
	}

	lineHeight := fontSize * defaultLineSpacing
	if m, err := f.Metrics(&o.buf, ppem, xfont.HintingNone); err == nil && m.Height > 0 {
		lineHeight = float64(m.Height) / 64.0
	}

	return fit.Measurement{
		Width:      float64(total) / 64.0,
		LineHeight: lineHeight,
	}, nil
}

var (
	fallbackOnce     sync.Once
	fallbackProvider *OpenType
)

// Fallback returns a shared provider backed by an embedded
// general-purpose font. It serves every font name, so Measure never
// fails on an unknown font.
func Fallback() *OpenType {
	fallbackOnce.Do(func() {
		f, err := sfnt.Parse(goregular.TTF)
		if err != nil {
			panic("font: embedded fallback font failed to parse: " + err.Error())
		}
		fallbackProvider = &OpenType{
			fonts:    make(map[string]*sfnt.Font),
			fallback: f,
		}
	})
	return fallbackProvider
}
