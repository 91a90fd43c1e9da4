package fit

import (
	"fmt"
	"strings"

	"github.com/tsawler/refit/model"
)

// Measurement is the rendered extent of a string at a given font and size.
type Measurement struct {
	Width      float64
	LineHeight float64
}

// Metrics measures text. Implementations live outside the core engine (see
// the font package); the engine only consumes the interface.
type Metrics interface {
	Measure(fontName string, fontSize float64, text string) (Measurement, error)
}

// MetricsError reports that a metrics provider could not measure a given
// font. It is propagated to the caller of Fit, which is expected to retry
// with a fallback provider rather than abort the whole rebuild.
type MetricsError struct {
	FontName string
	Err      error
}

func (e *MetricsError) Error() string {
	return fmt.Sprintf("metrics unavailable for font %q: %v", e.FontName, e.Err)
}

func (e *MetricsError) Unwrap() error {
	return e.Err
}

// Config holds the search parameters. Read-only after construction.
type Config struct {
	// MinFontSize is the floor of the size search (default: 6.0).
	MinFontSize float64

	// FontStep is the size decrement per iteration (default: 0.5).
	FontStep float64

	// LineSpacingFactor converts font size to line advance (default: 1.2).
	LineSpacingFactor float64
}

// DefaultConfig returns the search parameters used when none are supplied.
func DefaultConfig() Config {
	return Config{
		MinFontSize:       6.0,
		FontStep:          0.5,
		LineSpacingFactor: 1.2,
	}
}

// PlannedLine is one wrapped line of the plan, positioned inside the
// block's bounding box.
type PlannedLine struct {
	Text string
	BBox model.Rect
}

// Plan is the rendering plan for one block: the accepted font size and the
// wrapped, positioned lines. Overflow means the search hit MinFontSize
// without fitting; the rendering collaborator decides the degradation
// policy (clip, tighten spacing, let text exceed the box).
type Plan struct {
	BlockID  string
	FontSize float64
	Lines    []PlannedLine
	Overflow bool
}

// Engine runs the fit search against a metrics provider.
type Engine struct {
	metrics Metrics
	config  Config
}

// NewEngine creates an engine with default configuration.
func NewEngine(metrics Metrics) *Engine {
	return NewEngineWithConfig(metrics, DefaultConfig())
}

// NewEngineWithConfig creates an engine with custom search parameters.
// Non-positive step or spacing values fall back to the defaults so the
// search always terminates.
func NewEngineWithConfig(metrics Metrics, config Config) *Engine {
	def := DefaultConfig()
	if config.FontStep <= 0 {
		config.FontStep = def.FontStep
	}
	if config.MinFontSize <= 0 {
		config.MinFontSize = def.MinFontSize
	}
	if config.LineSpacingFactor <= 0 {
		config.LineSpacingFactor = def.LineSpacingFactor
	}
	return &Engine{metrics: metrics, config: config}
}

// Fit finds a font size and wrap plan that fits replacement inside the
// block's bounding box, or reports best-effort overflow at the floor size.
// The search starts at the block's original size and steps down by
// Config.FontStep; it runs at most ceil((start-min)/step)+1 iterations.
func (e *Engine) Fit(block model.Block, replacement string) (Plan, error) {
	if err := block.BBox.Validate(); err != nil {
		return Plan{}, err
	}

	// Horizontal text wraps against the box width and stacks lines down
	// the height; vertical text wraps against the height and stacks
	// columns across the width.
	runExtent := model.Round3(block.BBox.Width())
	stackExtent := model.Round3(block.BBox.Height())
	if block.Direction == model.TTB {
		runExtent, stackExtent = stackExtent, runExtent
	}
	logical := strings.Split(replacement, "\n")

	start := model.Round3(block.FontSize)
	if start < e.config.MinFontSize {
		start = e.config.MinFontSize
	}

	var lastWrap []wrappedLine
	var lastSize float64

	for k := 0; ; k++ {
		size := model.Round3(start - float64(k)*e.config.FontStep)
		if size < e.config.MinFontSize {
			break
		}

		wrapped, err := e.wrapAll(logical, block.FontName, size, runExtent)
		if err != nil {
			return Plan{}, err
		}
		lastWrap, lastSize = wrapped, size

		if e.fits(wrapped, size, runExtent, stackExtent) {
			return e.plan(block, wrapped, size, false), nil
		}
	}

	// Nothing fit down to the floor. The floor-size wrap has the smallest
	// line count any size can produce; keep it and report the overflow.
	if lastSize != e.config.MinFontSize {
		wrapped, err := e.wrapAll(logical, block.FontName, e.config.MinFontSize, runExtent)
		if err != nil {
			return Plan{}, err
		}
		lastWrap = wrapped
	}
	return e.plan(block, lastWrap, e.config.MinFontSize, true), nil
}

// wrappedLine carries a wrapped line's text and measured width.
type wrappedLine struct {
	text  string
	width float64
}

// wrapAll wraps every logical line at the candidate size. Lines whose run
// fits runExtent stay whole; longer ones are greedily packed word by word.
// A single word is never split, even when it alone exceeds the extent.
func (e *Engine) wrapAll(logical []string, fontName string, size, runExtent float64) ([]wrappedLine, error) {
	var out []wrappedLine
	for _, line := range logical {
		width, err := e.measure(fontName, size, line)
		if err != nil {
			return nil, err
		}
		if width <= runExtent {
			out = append(out, wrappedLine{text: line, width: width})
			continue
		}

		words := strings.Fields(line)
		if len(words) == 0 {
			out = append(out, wrappedLine{text: line, width: width})
			continue
		}
		current := words[0]
		for _, word := range words[1:] {
			candidate := current + " " + word
			cw, err := e.measure(fontName, size, candidate)
			if err != nil {
				return nil, err
			}
			if cw <= runExtent {
				current = candidate
				continue
			}
			w, err := e.measure(fontName, size, current)
			if err != nil {
				return nil, err
			}
			out = append(out, wrappedLine{text: current, width: w})
			current = word
		}
		w, err := e.measure(fontName, size, current)
		if err != nil {
			return nil, err
		}
		out = append(out, wrappedLine{text: current, width: w})
	}
	return out, nil
}

// fits reports whether the wrap is inside the box at the candidate size:
// every line's run within runExtent, the stacked line advances within
// stackExtent.
func (e *Engine) fits(wrapped []wrappedLine, size, runExtent, stackExtent float64) bool {
	required := model.Round3(float64(len(wrapped)) * size * e.config.LineSpacingFactor)
	if required > stackExtent {
		return false
	}
	for _, line := range wrapped {
		if line.width > runExtent {
			return false
		}
	}
	return true
}

// measure wraps the metrics provider, rounding the result so comparisons
// are identical on every platform, and tagging failures as MetricsError.
func (e *Engine) measure(fontName string, size float64, text string) (float64, error) {
	m, err := e.metrics.Measure(fontName, size, text)
	if err != nil {
		return 0, &MetricsError{FontName: fontName, Err: err}
	}
	return model.Round3(m.Width), nil
}

// plan positions the wrapped lines inside the block box. Horizontal text
// advances top-down, left-aligned for LTR and right-aligned for RTL;
// vertical text becomes columns advancing from the right edge.
func (e *Engine) plan(block model.Block, wrapped []wrappedLine, size float64, overflow bool) Plan {
	p := Plan{
		BlockID:  block.BlockID,
		FontSize: size,
		Overflow: overflow,
		Lines:    make([]PlannedLine, 0, len(wrapped)),
	}
	advance := model.Round3(size * e.config.LineSpacingFactor)

	for i, line := range wrapped {
		var box model.Rect
		switch block.Direction {
		case model.TTB:
			x1 := model.Round3(block.BBox.X1 - float64(i)*advance)
			box = model.Rect{
				X0: model.Round3(x1 - advance),
				Y0: block.BBox.Y0,
				X1: x1,
				Y1: model.Round3(block.BBox.Y0 + line.width),
			}
		case model.RTL:
			y0 := model.Round3(block.BBox.Y0 + float64(i)*advance)
			box = model.Rect{
				X0: model.Round3(block.BBox.X1 - line.width),
				Y0: y0,
				X1: block.BBox.X1,
				Y1: model.Round3(y0 + advance),
			}
		default:
			y0 := model.Round3(block.BBox.Y0 + float64(i)*advance)
			box = model.Rect{
				X0: block.BBox.X0,
				Y0: y0,
				X1: model.Round3(block.BBox.X0 + line.width),
				Y1: model.Round3(y0 + advance),
			}
		}
		p.Lines = append(p.Lines, PlannedLine{Text: line.text, BBox: box})
	}
	return p
}
