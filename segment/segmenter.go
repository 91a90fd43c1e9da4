package segment

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/tsawler/refit/model"
)

// Config holds the grouping thresholds. All values are read-only after
// construction and safe to share across concurrent page workers.
type Config struct {
	// LineOverlapFraction is the minimum vertical bbox overlap (as a
	// fraction of the shorter span) for two spans to share a line
	// (default: 0.5).
	LineOverlapFraction float64

	// HorizontalGapFactor is the maximum horizontal gap between adjacent
	// spans on a line, as a multiple of the smaller span's average
	// character width (default: 3.0). Wider gaps are treated as visually
	// disjoint runs.
	HorizontalGapFactor float64

	// VerticalGapFactor is the maximum gap between a line's bottom and the
	// next line's top, as a multiple of line height, for the lines to share
	// a block (default: 1.5).
	VerticalGapFactor float64

	// LeftAlignTolerance is the maximum left-edge delta, in points, between
	// consecutive lines of one block (default: 10).
	LeftAlignTolerance float64

	// FontSizeRatioTolerance is the maximum larger/smaller dominant font
	// size ratio for two lines to share a block (default: 1.3). Bold and
	// italic runs sit well inside this; heading jumps of 1.5x and more
	// split, since large size changes usually mark a paragraph boundary.
	FontSizeRatioTolerance float64
}

// DefaultConfig returns the thresholds used when none are supplied.
func DefaultConfig() Config {
	return Config{
		LineOverlapFraction:    0.5,
		HorizontalGapFactor:    3.0,
		VerticalGapFactor:      1.5,
		LeftAlignTolerance:     10.0,
		FontSizeRatioTolerance: 1.3,
	}
}

// Segmenter groups spans into blocks in deterministic reading order.
type Segmenter struct {
	config Config
}

// New creates a segmenter with default configuration.
func New() *Segmenter {
	return &Segmenter{config: DefaultConfig()}
}

// NewWithConfig creates a segmenter with custom thresholds.
func NewWithConfig(config Config) *Segmenter {
	return &Segmenter{config: config}
}

// Segment groups spans into reading-order blocks for one page. An empty
// span set yields zero blocks and no error. Spans are never deduplicated or
// dropped: every input span appears in exactly one line of one block. A
// span with malformed geometry makes the whole call fail so the caller can
// decide whether to filter and retry.
func (s *Segmenter) Segment(pageNumber int, spans []model.Span) ([]model.Block, error) {
	if pageNumber < 1 {
		return nil, fmt.Errorf("page number %d: must be >= 1", pageNumber)
	}
	if len(spans) == 0 {
		return nil, nil
	}
	for i, span := range spans {
		if err := span.Validate(); err != nil {
			return nil, fmt.Errorf("span %d: %w", i, err)
		}
	}

	band := s.toleranceBand(spans)
	sorted := sortReadingOrder(spans, band)
	lines := s.groupIntoLines(sorted)
	groups := s.groupLinesIntoBlocks(lines)

	blocks := make([]model.Block, 0, len(groups))
	for _, group := range groups {
		blocks = append(blocks, buildBlock(pageNumber, group))
	}

	// Lines were produced in reading order, but block bounding boxes can
	// reorder slightly once short leading lines merge into taller blocks.
	// Sort again on the final boxes so ranks are assigned on block position.
	sort.SliceStable(blocks, func(i, j int) bool {
		bi := math.Round(blocks[i].BBox.Y0 / band)
		bj := math.Round(blocks[j].BBox.Y0 / band)
		if bi != bj {
			return bi < bj
		}
		return blocks[i].BBox.X0 < blocks[j].BBox.X0
	})
	for i := range blocks {
		blocks[i].BlockID = model.BlockIDFor(pageNumber, i)
	}
	return blocks, nil
}

// toleranceBand returns the quantization band for top coordinates: half the
// median font size. Raw extraction rarely yields identical baselines for
// spans on one typographic line, so near-equal tops must collapse into the
// same band before sorting.
func (s *Segmenter) toleranceBand(spans []model.Span) float64 {
	sizes := make([]float64, len(spans))
	for i, span := range spans {
		sizes[i] = span.FontSize
	}
	sort.Float64s(sizes)
	median := sizes[len(sizes)/2]
	band := median / 2
	if band < 1 {
		band = 1
	}
	return band
}

// sortReadingOrder sorts spans top-to-bottom (quantized into bands), then
// left-to-right. The sort is stable so equal keys preserve input order.
func sortReadingOrder(spans []model.Span, band float64) []model.Span {
	sorted := make([]model.Span, len(spans))
	copy(sorted, spans)
	sort.SliceStable(sorted, func(i, j int) bool {
		bi := math.Round(sorted[i].BBox.Y0 / band)
		bj := math.Round(sorted[j].BBox.Y0 / band)
		if bi != bj {
			return bi < bj
		}
		return sorted[i].BBox.X0 < sorted[j].BBox.X0
	})
	return sorted
}

// groupIntoLines walks the sorted spans and starts a new line whenever the
// next span stops overlapping vertically or sits beyond the horizontal gap
// threshold.
func (s *Segmenter) groupIntoLines(sorted []model.Span) []model.Line {
	var lines []model.Line
	var current []model.Span

	for _, span := range sorted {
		if len(current) == 0 {
			current = []model.Span{span}
			continue
		}
		last := current[len(current)-1]
		if s.sameLine(last, span) {
			current = append(current, span)
		} else {
			lines = append(lines, model.NewLine(current))
			current = []model.Span{span}
		}
	}
	if len(current) > 0 {
		lines = append(lines, model.NewLine(current))
	}
	return lines
}

// sameLine reports whether next continues the line ending at prev.
func (s *Segmenter) sameLine(prev, next model.Span) bool {
	if prev.BBox.VerticalOverlap(next.BBox) < s.config.LineOverlapFraction {
		return false
	}
	gap := next.BBox.X0 - prev.BBox.X1
	smaller := math.Min(prev.FontSize, next.FontSize)
	// Monospaced estimate: average character width is half the font
	// size.
	maxGap := s.config.HorizontalGapFactor * (smaller / 2)
	return gap <= maxGap
}

// groupLinesIntoBlocks attaches each line to the most recently started
// block whose last line it continues, or starts a new block. Scanning open
// blocks (newest first) instead of only the immediately preceding line
// keeps multi-column pages intact: column lines interleave in reading
// order, but each attaches back to its own column's block.
func (s *Segmenter) groupLinesIntoBlocks(lines []model.Line) [][]model.Line {
	var groups [][]model.Line

	for _, line := range lines {
		attached := false
		for g := len(groups) - 1; g >= 0; g-- {
			last := groups[g][len(groups[g])-1]
			if s.sameBlock(last, line) {
				groups[g] = append(groups[g], line)
				attached = true
				break
			}
		}
		if !attached {
			groups = append(groups, []model.Line{line})
		}
	}
	return groups
}

// sameBlock reports whether next continues the block ending at prev.
func (s *Segmenter) sameBlock(prev, next model.Line) bool {
	gap := next.BBox.Y0 - prev.BBox.Y1
	avgHeight := (prev.BBox.Height() + next.BBox.Height()) / 2
	if avgHeight <= 0 {
		avgHeight = prev.DominantFontSize()
	}
	if gap > s.config.VerticalGapFactor*avgHeight {
		return false
	}
	if math.Abs(next.BBox.X0-prev.BBox.X0) > s.config.LeftAlignTolerance {
		return false
	}
	return s.compatibleFonts(prev, next)
}

// compatibleFonts allows minor size variance within a block (bold or
// italic runs, inline emphasis) while splitting on the size jumps that
// mark heading/paragraph boundaries.
func (s *Segmenter) compatibleFonts(a, b model.Line) bool {
	sa, sb := a.DominantFontSize(), b.DominantFontSize()
	if sa <= 0 || sb <= 0 {
		return true
	}
	ratio := sa / sb
	if ratio < 1 {
		ratio = 1 / ratio
	}
	if ratio > s.config.FontSizeRatioTolerance {
		return false
	}
	return baseFamily(dominantFontName(a)) == baseFamily(dominantFontName(b))
}

// buildBlock assembles one block from its lines: union bbox, joined text,
// and dominant font attributes weighted by character count, so a stray
// superscript or footnote marker never dictates block styling.
func buildBlock(pageNumber int, lines []model.Line) model.Block {
	block := model.Block{
		PageNumber: pageNumber,
		Lines:      lines,
		BBox:       lines[0].BBox,
	}
	for _, line := range lines[1:] {
		block.BBox = block.BBox.Union(line.BBox)
	}
	block.Text = model.JoinLines(lines)

	nameWeight := make(map[string]int)
	sizeWeight := make(map[float64]int)
	colorWeight := make(map[model.Color]int)
	dirWeight := make(map[model.Direction]int)
	for _, line := range lines {
		for _, span := range line.Spans {
			n := len([]rune(span.Text))
			nameWeight[span.FontName] += n
			sizeWeight[model.Round3(span.FontSize)] += n
			colorWeight[span.Color] += n
			dirWeight[span.Direction] += n
		}
	}
	block.FontName = heaviestString(nameWeight)
	block.FontSize = heaviestFloat(sizeWeight)
	block.Color = heaviestColor(colorWeight)
	block.Direction = heaviestDirection(dirWeight)
	return block
}

// dominantFontName returns the font name of the span contributing the most
// characters to the line.
func dominantFontName(l model.Line) string {
	best, bestCount := "", -1
	for _, s := range l.Spans {
		n := len([]rune(s.Text))
		if n > bestCount {
			best, bestCount = s.FontName, n
		}
	}
	return best
}

// baseFamily strips subset prefixes ("ABCDEF+Times-Bold") and style
// suffixes ("Times-Bold", "Times,Italic") down to the family name, so bold
// and italic runs compare equal to their regular face.
func baseFamily(name string) string {
	if i := strings.IndexByte(name, '+'); i >= 0 && i == 6 {
		name = name[i+1:]
	}
	if i := strings.IndexAny(name, "-,"); i >= 0 {
		name = name[:i]
	}
	return name
}

// Weighted-majority helpers. Ties break on the smaller key so results never
// depend on map iteration order.

func heaviestString(weights map[string]int) string {
	best, bestWeight := "", -1
	for k, w := range weights {
		if w > bestWeight || (w == bestWeight && k < best) {
			best, bestWeight = k, w
		}
	}
	return best
}

func heaviestFloat(weights map[float64]int) float64 {
	best, bestWeight := 0.0, -1
	for k, w := range weights {
		if w > bestWeight || (w == bestWeight && k < best) {
			best, bestWeight = k, w
		}
	}
	return best
}

func heaviestColor(weights map[model.Color]int) model.Color {
	best, bestWeight := model.Black, -1
	for k, w := range weights {
		if w > bestWeight || (w == bestWeight && k.Hex() < best.Hex()) {
			best, bestWeight = k, w
		}
	}
	return best
}

func heaviestDirection(weights map[model.Direction]int) model.Direction {
	best, bestWeight := model.LTR, -1
	for k, w := range weights {
		if w > bestWeight || (w == bestWeight && k < best) {
			best, bestWeight = k, w
		}
	}
	return best
}
