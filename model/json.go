package model

import (
	"encoding/json"
	"fmt"
	"io"
)

// The interchange document is plain JSON. Numeric fields are rounded to 3
// decimals on write and again on read, so a file produced on any host
// decodes to identical values everywhere. Span geometry is deliberately not
// persisted; the rebuild stage works from block-level data.

type documentJSON struct {
	SourceFile string     `json:"source_file"`
	Pipeline   string     `json:"pipeline"`
	Pages      []pageJSON `json:"pages"`
	BlockOrder []string   `json:"block_order"`
}

type pageJSON struct {
	PageNumber int         `json:"page_number"`
	Width      float64     `json:"width"`
	Height     float64     `json:"height"`
	Rotation   int         `json:"rotation"`
	Blocks     []blockJSON `json:"blocks"`
}

type blockJSON struct {
	BlockID   string     `json:"block_id"`
	BBox      [4]float64 `json:"bbox"`
	Text      string     `json:"text"`
	FontName  string     `json:"font_name"`
	FontSize  float64    `json:"font_size"`
	Color     string     `json:"color"`
	Direction string     `json:"direction"`
	Lines     []lineJSON `json:"lines,omitempty"`
}

type lineJSON struct {
	BBox  [4]float64 `json:"bbox"`
	Spans []spanJSON `json:"spans"`
}

type spanJSON struct {
	Text string  `json:"text"`
	Size float64 `json:"size"`
}

func rectToArray(r Rect) [4]float64 {
	r = r.Round()
	return [4]float64{r.X0, r.Y0, r.X1, r.Y1}
}

func rectFromArray(a [4]float64) (Rect, error) {
	return NewRect(Round3(a[0]), Round3(a[1]), Round3(a[2]), Round3(a[3]))
}

// WriteTo encodes the document as interchange JSON. The document is
// validated first so a malformed graph never reaches disk.
func (d *Document) WriteTo(w io.Writer) error {
	if err := d.Validate(); err != nil {
		return fmt.Errorf("refusing to encode invalid document: %w", err)
	}

	out := documentJSON{
		SourceFile: d.SourceFile,
		Pipeline:   d.Pipeline,
		BlockOrder: d.BlockOrder,
		Pages:      make([]pageJSON, 0, len(d.Pages)),
	}
	for i := range d.Pages {
		page := &d.Pages[i]
		pj := pageJSON{
			PageNumber: page.PageNumber,
			Width:      Round3(page.Width),
			Height:     Round3(page.Height),
			Rotation:   page.Rotation,
			Blocks:     make([]blockJSON, 0, len(page.Blocks)),
		}
		for j := range page.Blocks {
			b := &page.Blocks[j]
			bj := blockJSON{
				BlockID:   b.BlockID,
				BBox:      rectToArray(b.BBox),
				Text:      b.Text,
				FontName:  b.FontName,
				FontSize:  Round3(b.FontSize),
				Color:     b.Color.Hex(),
				Direction: b.Direction.String(),
			}
			for _, line := range b.Lines {
				lj := lineJSON{BBox: rectToArray(line.BBox)}
				for _, span := range line.Spans {
					lj.Spans = append(lj.Spans, spanJSON{
						Text: span.Text,
						Size: Round3(span.FontSize),
					})
				}
				bj.Lines = append(bj.Lines, lj)
			}
			pj.Blocks = append(pj.Blocks, bj)
		}
		out.Pages = append(out.Pages, pj)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(out)
}

// ReadDocument decodes and validates an interchange document. Decoding
// rejects malformed rectangles and inconsistent block ordering instead of
// repairing them.
func ReadDocument(r io.Reader) (*Document, error) {
	var in documentJSON
	dec := json.NewDecoder(r)
	if err := dec.Decode(&in); err != nil {
		return nil, fmt.Errorf("decoding layout document: %w", err)
	}

	doc := &Document{
		SourceFile: in.SourceFile,
		Pipeline:   in.Pipeline,
		BlockOrder: in.BlockOrder,
		Pages:      make([]Page, 0, len(in.Pages)),
	}
	for _, pj := range in.Pages {
		page := Page{
			PageNumber: pj.PageNumber,
			Width:      Round3(pj.Width),
			Height:     Round3(pj.Height),
			Rotation:   pj.Rotation,
			Blocks:     make([]Block, 0, len(pj.Blocks)),
		}
		for _, bj := range pj.Blocks {
			bbox, err := rectFromArray(bj.BBox)
			if err != nil {
				return nil, fmt.Errorf("block %s: %w", bj.BlockID, err)
			}
			color, err := ParseHex(bj.Color)
			if err != nil {
				color = Black
			}
			block := Block{
				BlockID:    bj.BlockID,
				PageNumber: pj.PageNumber,
				BBox:       bbox,
				Text:       bj.Text,
				FontName:   bj.FontName,
				FontSize:   Round3(bj.FontSize),
				Color:      color,
				Direction:  ParseDirection(bj.Direction),
			}
			for _, lj := range bj.Lines {
				lbox, err := rectFromArray(lj.BBox)
				if err != nil {
					return nil, fmt.Errorf("block %s line: %w", bj.BlockID, err)
				}
				line := Line{BBox: lbox}
				for _, sj := range lj.Spans {
					line.Spans = append(line.Spans, Span{
						Text:     sj.Text,
						FontSize: Round3(sj.Size),
					})
				}
				block.Lines = append(block.Lines, line)
			}
			page.Blocks = append(page.Blocks, block)
		}
		doc.Pages = append(doc.Pages, page)
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}
