package model

import (
	"fmt"
	"strings"
)

// Block is one reading-order semantic unit (paragraph or line group). Its
// identifier is derived solely from the page number and reading-order rank,
// never from content, so identical input always yields identical IDs.
type Block struct {
	BlockID    string
	PageNumber int
	BBox       Rect

	// Text is the block's content, lines joined by "\n". It is stored
	// rather than derived because the interchange document does not carry
	// span geometry back through a round trip.
	Text string

	Lines     []Line
	FontName  string
	FontSize  float64
	Color     Color
	Direction Direction
}

// BlockIDFor formats the stable identifier for a block: "p{page}_b{rank}".
func BlockIDFor(pageNumber, rank int) string {
	return fmt.Sprintf("p%d_b%d", pageNumber, rank)
}

// JoinLines returns the text of the given lines joined by "\n", the
// block-internal line break marker.
func JoinLines(lines []Line) string {
	parts := make([]string, len(lines))
	for i, line := range lines {
		parts[i] = line.Text()
	}
	return strings.Join(parts, "\n")
}

// SpanCount returns the number of spans across all lines.
func (b *Block) SpanCount() int {
	n := 0
	for _, line := range b.Lines {
		n += len(line.Spans)
	}
	return n
}

// Page holds one page's dimensions and its blocks in reading order.
type Page struct {
	PageNumber int
	Width      float64
	Height     float64
	Rotation   int
	Blocks     []Block
}

// Validate checks page-level invariants: positive page number, a known
// rotation, unique block IDs, and well-formed block geometry.
func (p *Page) Validate() error {
	if p.PageNumber < 1 {
		return fmt.Errorf("page number %d: must be >= 1", p.PageNumber)
	}
	switch p.Rotation {
	case 0, 90, 180, 270:
	default:
		return fmt.Errorf("page %d: invalid rotation %d", p.PageNumber, p.Rotation)
	}
	seen := make(map[string]bool, len(p.Blocks))
	for i := range p.Blocks {
		b := &p.Blocks[i]
		if seen[b.BlockID] {
			return fmt.Errorf("page %d: duplicate block id %q", p.PageNumber, b.BlockID)
		}
		seen[b.BlockID] = true
		if err := b.BBox.Validate(); err != nil {
			return fmt.Errorf("block %s: %w", b.BlockID, err)
		}
	}
	return nil
}

// Document is the persisted layout artifact: the contract between the
// extraction pass and the rebuild pass. Pages own their blocks; there is no
// shared mutable state between pages.
type Document struct {
	// SourceFile identifies the document the layout was extracted from.
	SourceFile string

	// Pipeline is an opaque tag naming the backend that produced this
	// document. The rebuild stage uses it to pick the matching strategy.
	Pipeline string

	Pages []Page

	// BlockOrder is the global reading order across all pages. It is
	// redundant with the page lists but load-bearing: the translation
	// codecs index into it, so it is validated rather than recomputed.
	BlockOrder []string
}

// BlocksInOrder returns pointers to all blocks in page order. When
// BlockOrder is populated it is guaranteed (by Validate) to match this
// sequence.
func (d *Document) BlocksInOrder() []*Block {
	var out []*Block
	for i := range d.Pages {
		page := &d.Pages[i]
		for j := range page.Blocks {
			out = append(out, &page.Blocks[j])
		}
	}
	return out
}

// Block returns the block with the given id, or nil.
func (d *Document) Block(id string) *Block {
	for i := range d.Pages {
		page := &d.Pages[i]
		for j := range page.Blocks {
			if page.Blocks[j].BlockID == id {
				return &page.Blocks[j]
			}
		}
	}
	return nil
}

// RebuildOrder recomputes BlockOrder from the page lists. Extraction calls
// this once before persisting.
func (d *Document) RebuildOrder() {
	d.BlockOrder = d.BlockOrder[:0]
	for _, block := range d.BlocksInOrder() {
		d.BlockOrder = append(d.BlockOrder, block.BlockID)
	}
}

// Validate checks document-level invariants: every page validates, and
// BlockOrder equals the concatenation of each page's block list in page
// order.
func (d *Document) Validate() error {
	for i := range d.Pages {
		if err := d.Pages[i].Validate(); err != nil {
			return err
		}
	}
	blocks := d.BlocksInOrder()
	if len(d.BlockOrder) != len(blocks) {
		return fmt.Errorf("block_order has %d entries, document has %d blocks",
			len(d.BlockOrder), len(blocks))
	}
	for i, block := range blocks {
		if d.BlockOrder[i] != block.BlockID {
			return fmt.Errorf("block_order[%d] = %q, document order has %q",
				i, d.BlockOrder[i], block.BlockID)
		}
	}
	return nil
}
