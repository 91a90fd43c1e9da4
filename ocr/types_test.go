package ocr

import (
	"testing"

	"github.com/tsawler/refit/model"
)

func TestSpansFromWords(t *testing.T) {
	words := []WordBox{
		{X0: 200, Y0: 100, X1: 260, Y1: 120, Text: "world", Confidence: 90},
		{X0: 100, Y0: 100, X1: 180, Y1: 120, Text: "Hello", Confidence: 95},
		{X0: 100, Y0: 150, X1: 150, Y1: 168, Text: "below", Confidence: 80},
	}

	spans := SpansFromWords(words, 40)
	if len(spans) != 3 {
		t.Fatalf("Expected 3 spans, got %d", len(spans))
	}

	// Sorted top to bottom, left to right.
	if spans[0].Text != "Hello" || spans[1].Text != "world" || spans[2].Text != "below" {
		t.Errorf("Wrong order: %q %q %q", spans[0].Text, spans[1].Text, spans[2].Text)
	}

	if spans[0].FontSize != 20 {
		t.Errorf("Expected font size 20 from box height, got %g", spans[0].FontSize)
	}
	if spans[0].BaselineY != 120 {
		t.Errorf("Expected baseline 120, got %g", spans[0].BaselineY)
	}
	if spans[0].Direction != model.LTR {
		t.Errorf("Expected LTR, got %v", spans[0].Direction)
	}
}

func TestSpansFromWordsFiltersLowConfidence(t *testing.T) {
	words := []WordBox{
		{X0: 100, Y0: 100, X1: 180, Y1: 120, Text: "keep", Confidence: 85},
		{X0: 200, Y0: 100, X1: 260, Y1: 120, Text: "noise", Confidence: 12},
		{X0: 300, Y0: 100, X1: 360, Y1: 120, Text: "", Confidence: 99},
		{X0: 400, Y0: 100, X1: 400, Y1: 120, Text: "zerowidth", Confidence: 99},
	}

	spans := SpansFromWords(words, 40)
	if len(spans) != 1 {
		t.Fatalf("Expected 1 span, got %d", len(spans))
	}
	if spans[0].Text != "keep" {
		t.Errorf("Expected 'keep', got %q", spans[0].Text)
	}
}

func TestSpansFromWordsValidGeometry(t *testing.T) {
	words := []WordBox{
		{X0: 10, Y0: 20, X1: 90, Y1: 44, Text: "word", Confidence: 70},
	}

	spans := SpansFromWords(words, 40)
	if len(spans) != 1 {
		t.Fatalf("Expected 1 span, got %d", len(spans))
	}
	if err := spans[0].Validate(); err != nil {
		t.Errorf("Span must validate: %v", err)
	}
}
