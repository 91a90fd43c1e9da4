package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/tsawler/refit/exchange"
	"github.com/tsawler/refit/fit"
	"github.com/tsawler/refit/font"
	"github.com/tsawler/refit/model"
	"github.com/tsawler/refit/segment"
)

// A4 dimensions in points, used when a page carries no usable MediaBox.
const (
	defaultPageWidth  = 595.28
	defaultPageHeight = 841.89
)

// Direct extracts positioned text straight from a digital PDF and
// rebuilds a rendered copy with replacement text.
type Direct struct {
	segmenter *segment.Segmenter
	planner   *Planner
	renderer  *Renderer
}

// NewDirect creates a direct pipeline with default segmentation and
// fitting configuration, measuring with the built-in standard font
// metrics.
func NewDirect() *Direct {
	return NewDirectWithConfig(segment.DefaultConfig(), fit.DefaultConfig())
}

// NewDirectWithConfig creates a direct pipeline with explicit
// segmentation and fitting configuration.
func NewDirectWithConfig(segCfg segment.Config, fitCfg fit.Config) *Direct {
	return &Direct{
		segmenter: segment.NewWithConfig(segCfg),
		planner: &Planner{
			Engine:   fit.NewEngineWithConfig(font.NewStandard(), fitCfg),
			Fallback: fit.NewEngineWithConfig(font.Fallback(), fitCfg),
		},
		renderer: &Renderer{},
	}
}

// SetFontFile registers a TrueType font file used for all rendered
// text, for replacement text outside the cp1252 repertoire.
func (d *Direct) SetFontFile(path string) {
	d.renderer.FontFile = path
}

// SetWorkers caps the number of concurrently planned pages during
// rebuild. Zero means no cap.
func (d *Direct) SetWorkers(n int) {
	d.planner.Workers = n
}

// Name returns the strategy name.
func (d *Direct) Name() string {
	return "direct"
}

// Extract reads src and returns its layout document: every page's
// text runs grouped into blocks in reading order. Spans with
// malformed geometry are dropped with a warning, not fatal.
func (d *Direct) Extract(src string) (*model.Document, []Warning, error) {
	f, r, err := pdf.Open(src)
	if err != nil {
		return nil, nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer f.Close()

	doc := &model.Document{
		SourceFile: src,
		Pipeline:   d.Name(),
	}
	var warnings []Warning

	for pageNum := 1; pageNum <= r.NumPage(); pageNum++ {
		p := r.Page(pageNum)
		if p.V.IsNull() {
			continue
		}

		width, height := pageSize(p)
		spans, rejected := pageSpans(p, height)
		warnings = append(warnings, rejected...)
		spans = CoalesceSpans(spans, 0.3)

		blocks, err := d.segmenter.Segment(pageNum, spans)
		if err != nil {
			return nil, nil, fmt.Errorf("segmenting page %d: %w", pageNum, err)
		}

		doc.Pages = append(doc.Pages, model.Page{
			PageNumber: pageNum,
			Width:      width,
			Height:     height,
			Blocks:     blocks,
		})
	}

	doc.RebuildOrder()
	if err := doc.Validate(); err != nil {
		return nil, nil, fmt.Errorf("extracted document: %w", err)
	}
	return doc, warnings, nil
}

// Rebuild fits the replacement text of every block and renders the
// result to out.
func (d *Direct) Rebuild(src string, doc *model.Document, tm exchange.TranslationMap, out string) (*Result, error) {
	return rebuild(d.planner, d.renderer, doc, tm, out)
}

// rebuild is the plan-then-render path shared by all strategies.
func rebuild(planner *Planner, renderer *Renderer, doc *model.Document, tm exchange.TranslationMap, out string) (*Result, error) {
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("layout document: %w", err)
	}

	plans, warnings, err := planner.PlanDocument(context.Background(), doc, tm)
	if err != nil {
		return nil, err
	}

	if err := renderer.Render(doc, plans, out); err != nil {
		return nil, err
	}

	result := &Result{
		OutputFile: out,
		Pages:      len(doc.Pages),
		Blocks:     len(doc.BlockOrder),
		Warnings:   warnings,
	}
	for _, id := range doc.BlockOrder {
		if _, ok := tm.Lookup(id); ok {
			result.Translated++
		}
	}
	for _, plan := range plans {
		if plan.Overflow {
			result.Overflowed++
		}
	}
	return result, nil
}

// pageSize reads the page MediaBox, falling back to A4.
func pageSize(p pdf.Page) (width, height float64) {
	width, height = defaultPageWidth, defaultPageHeight

	mb := p.V.Key("MediaBox")
	if mb.Kind() != pdf.Array || mb.Len() != 4 {
		return width, height
	}
	w := mb.Index(2).Float64() - mb.Index(0).Float64()
	h := mb.Index(3).Float64() - mb.Index(1).Float64()
	if w > 0 && h > 0 {
		width, height = w, h
	}
	return width, height
}

// pageSpans converts the page's text runs to spans with top-left
// geometry. The extraction backend reports the baseline in bottom-up
// page coordinates; the glyph box is approximated as one font size of
// height sitting on the baseline.
func pageSpans(p pdf.Page, pageHeight float64) ([]model.Span, []Warning) {
	content := p.Content()

	spans := make([]model.Span, 0, len(content.Text))
	var warnings []Warning
	for _, t := range content.Text {
		if t.S == "" {
			continue
		}

		baseline := pageHeight - t.Y
		span := model.Span{
			Text:      t.S,
			BBox:      model.Rect{X0: t.X, Y0: baseline - t.FontSize, X1: t.X + t.W, Y1: baseline},
			FontName:  t.Font,
			FontSize:  t.FontSize,
			Color:     model.Black,
			BaselineY: baseline,
			Direction: model.DetectDirection(t.S),
		}
		if err := span.Validate(); err != nil {
			warnings = append(warnings, Warning{
				Code:    WarnSpanRejected,
				Message: fmt.Sprintf("span %q: %v", t.S, err),
			})
			continue
		}
		spans = append(spans, span)
	}
	return spans, warnings
}

// CoalesceSpans merges consecutive spans that share font, size, and
// baseline and whose horizontal gap is at most gapFactor times the
// font size. Extraction backends often report one run per glyph;
// merging runs keeps span counts proportional to words, not
// characters.
func CoalesceSpans(spans []model.Span, gapFactor float64) []model.Span {
	if len(spans) < 2 {
		return spans
	}

	merged := make([]model.Span, 0, len(spans))
	current := spans[0]
	for _, next := range spans[1:] {
		if joinable(current, next, gapFactor) {
			if needsSpace(current, next) {
				current.Text += " "
			}
			current.Text += next.Text
			current.BBox = current.BBox.Union(next.BBox)
			continue
		}
		merged = append(merged, current)
		current = next
	}
	merged = append(merged, current)
	return merged
}

func joinable(a, b model.Span, gapFactor float64) bool {
	if a.FontName != b.FontName || a.Direction != b.Direction {
		return false
	}
	if model.Round3(a.FontSize) != model.Round3(b.FontSize) {
		return false
	}
	if model.Round3(a.BaselineY) != model.Round3(b.BaselineY) {
		return false
	}
	gap := b.BBox.X0 - a.BBox.X1
	return gap >= 0 && model.Round3(gap) <= model.Round3(gapFactor*a.FontSize)
}

// needsSpace reports whether a word gap sits between two joinable
// runs that carry no explicit space glyph of their own.
func needsSpace(a, b model.Span) bool {
	if strings.HasSuffix(a.Text, " ") || strings.HasPrefix(b.Text, " ") {
		return false
	}
	gap := b.BBox.X0 - a.BBox.X1
	return gap > 0.13*a.FontSize
}
