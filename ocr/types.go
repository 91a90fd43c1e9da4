package ocr

import (
	"sort"

	"github.com/tsawler/refit/model"
)

// WordBox is one recognized word with its position on the page image
// and the recognizer's confidence in percent.
type WordBox struct {
	X0, Y0, X1, Y1 float64
	Text           string
	Confidence     float64
}

// SpansFromWords converts recognized words into positioned spans.
// Words below minConfidence or with empty text are dropped. The word
// box height stands in for the font size, and the box bottom for the
// baseline, which is close enough for segmentation purposes. Spans
// come back sorted top to bottom, left to right.
func SpansFromWords(words []WordBox, minConfidence float64) []model.Span {
	spans := make([]model.Span, 0, len(words))
	for _, w := range words {
		if w.Text == "" || w.Confidence < minConfidence {
			continue
		}
		height := w.Y1 - w.Y0
		if height <= 0 || w.X1 <= w.X0 {
			continue
		}
		spans = append(spans, model.Span{
			Text:      w.Text,
			BBox:      model.Rect{X0: w.X0, Y0: w.Y0, X1: w.X1, Y1: w.Y1},
			FontName:  "Helvetica",
			FontSize:  model.Round3(height),
			Color:     model.Black,
			BaselineY: w.Y1,
			Direction: model.DetectDirection(w.Text),
		})
	}

	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].BBox.Y0 != spans[j].BBox.Y0 {
			return spans[i].BBox.Y0 < spans[j].BBox.Y0
		}
		return spans[i].BBox.X0 < spans[j].BBox.X0
	})
	return spans
}
