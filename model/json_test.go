package model

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestDocument_JSONRoundTrip(t *testing.T) {
	doc := twoBlockDocument()
	doc.Pages[0].Blocks[0].Lines = []Line{
		NewLine([]Span{makeSpan("First block", 72, 72, 300, 90, 12)}),
	}

	var buf bytes.Buffer
	if err := doc.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}

	got, err := ReadDocument(&buf)
	if err != nil {
		t.Fatalf("ReadDocument failed: %v", err)
	}

	if got.SourceFile != "test.pdf" || got.Pipeline != "direct" {
		t.Errorf("Header mismatch: %q %q", got.SourceFile, got.Pipeline)
	}
	if len(got.Pages) != 1 || len(got.Pages[0].Blocks) != 2 {
		t.Fatalf("Expected 1 page with 2 blocks, got %+v", got.Pages)
	}
	b := got.Pages[0].Blocks[0]
	if b.BlockID != "p1_b0" || b.Text != "First block" {
		t.Errorf("Block mismatch: %+v", b)
	}
	if len(b.Lines) != 1 || len(b.Lines[0].Spans) != 1 {
		t.Errorf("Expected 1 line with 1 span, got %+v", b.Lines)
	}
	if got.BlockOrder[0] != "p1_b0" || got.BlockOrder[1] != "p1_b1" {
		t.Errorf("block_order mismatch: %v", got.BlockOrder)
	}
}

func TestDocument_JSONRounding(t *testing.T) {
	doc := twoBlockDocument()
	doc.Pages[0].Blocks[0].BBox = Rect{X0: 72.00049, Y0: 72.0001, X1: 300.49999, Y1: 90.123456}
	doc.Pages[0].Blocks[0].FontSize = 11.9999

	var buf bytes.Buffer
	if err := doc.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}
	got, err := ReadDocument(&buf)
	if err != nil {
		t.Fatalf("ReadDocument failed: %v", err)
	}

	b := got.Pages[0].Blocks[0]
	want := Rect{X0: 72, Y0: 72, X1: 300.5, Y1: 90.123}
	if b.BBox != want {
		t.Errorf("Expected rounded bbox %+v, got %+v", want, b.BBox)
	}
	if b.FontSize != 12 {
		t.Errorf("Expected font size 12, got %g", b.FontSize)
	}
}

func TestReadDocument_RejectsMalformedBBox(t *testing.T) {
	in := `{
  "source_file": "x.pdf",
  "pipeline": "direct",
  "pages": [
    {"page_number": 1, "width": 612, "height": 792, "rotation": 0,
     "blocks": [
       {"block_id": "p1_b0", "bbox": [300, 72, 72, 90], "text": "t",
        "font_name": "Helvetica", "font_size": 12, "color": "#000000",
        "direction": "ltr"}
     ]}
  ],
  "block_order": ["p1_b0"]
}`
	_, err := ReadDocument(strings.NewReader(in))
	if !errors.Is(err, ErrMalformedGeometry) {
		t.Errorf("Expected ErrMalformedGeometry, got %v", err)
	}
}

func TestReadDocument_RejectsOrderMismatch(t *testing.T) {
	in := `{
  "source_file": "x.pdf",
  "pipeline": "direct",
  "pages": [
    {"page_number": 1, "width": 612, "height": 792, "rotation": 0,
     "blocks": [
       {"block_id": "p1_b0", "bbox": [72, 72, 300, 90], "text": "t",
        "font_name": "Helvetica", "font_size": 12, "color": "#000000",
        "direction": "ltr"}
     ]}
  ],
  "block_order": ["p1_b0", "phantom"]
}`
	if _, err := ReadDocument(strings.NewReader(in)); err == nil {
		t.Error("Expected error for block_order mismatch")
	}
}

func TestWriteTo_RefusesInvalidDocument(t *testing.T) {
	doc := twoBlockDocument()
	doc.BlockOrder = doc.BlockOrder[:1]
	var buf bytes.Buffer
	if err := doc.WriteTo(&buf); err == nil {
		t.Error("Expected error encoding document with truncated block_order")
	}
}
