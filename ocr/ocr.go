//go:build ocr

// Package ocr recognizes positioned words in page images of scanned
// documents, so they can be segmented like text extracted from a
// digital original.
//
// This package wraps the Tesseract OCR engine via gosseract. It
// requires Tesseract to be installed on the system. On macOS, install
// via:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
package ocr

import (
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/tsawler/refit/model"
)

// DefaultMinConfidence drops words Tesseract itself is unsure about.
const DefaultMinConfidence = 40.0

// Client wraps Tesseract for OCR operations.
type Client struct {
	client        *gosseract.Client
	minConfidence float64
}

// New creates a new OCR client.
// The client should be closed when no longer needed to release resources.
func New() (*Client, error) {
	return &Client{
		client:        gosseract.NewClient(),
		minConfidence: DefaultMinConfidence,
	}, nil
}

// Close releases OCR resources.
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// SetLanguage sets the language(s) for OCR recognition.
// Multiple languages can be specified as a "+" separated string (e.g.
// "eng+fra"). Default is "eng" (English).
func (c *Client) SetLanguage(lang string) error {
	return c.client.SetLanguage(lang)
}

// SetMinConfidence sets the confidence threshold in percent below
// which recognized words are discarded.
func (c *Client) SetMinConfidence(min float64) {
	c.minConfidence = min
}

// RecognizeImage performs OCR on image data (PNG, TIFF, JPEG, etc.).
// Returns the recognized text with leading/trailing whitespace trimmed.
func (c *Client) RecognizeImage(imageData []byte) (string, error) {
	if err := c.client.SetImageFromBytes(imageData); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := c.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}

	return strings.TrimSpace(text), nil
}

// Words performs OCR on image data and returns one positioned span
// per recognized word, ready for segmentation. Pixel coordinates are
// passed through unchanged; callers that know the scan resolution can
// rescale the resulting geometry to points.
func (c *Client) Words(imageData []byte) ([]model.Span, error) {
	if err := c.client.SetImageFromBytes(imageData); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := c.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	words := make([]WordBox, 0, len(boxes))
	for _, b := range boxes {
		words = append(words, WordBox{
			X0:         float64(b.Box.Min.X),
			Y0:         float64(b.Box.Min.Y),
			X1:         float64(b.Box.Max.X),
			Y1:         float64(b.Box.Max.Y),
			Text:       strings.TrimSpace(b.Word),
			Confidence: b.Confidence,
		})
	}
	return SpansFromWords(words, c.minConfidence), nil
}
