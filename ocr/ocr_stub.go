//go:build !ocr

// Package ocr recognizes positioned words in page images of scanned
// documents, so they can be segmented like text extracted from a
// digital original.
//
// This is the stub implementation used when the "ocr" build tag is
// not set. All recognition functions return ErrOCRNotEnabled.
//
// To enable OCR, rebuild with the "ocr" build tag:
//
//	go build -tags ocr
//
// This requires Tesseract to be installed. On macOS:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
package ocr

import (
	"errors"

	"github.com/tsawler/refit/model"
)

// ErrOCRNotEnabled is returned when OCR functions are called but OCR
// support was not compiled in. Rebuild with -tags ocr to enable it.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// DefaultMinConfidence drops words the recognizer is unsure about.
const DefaultMinConfidence = 40.0

// Client is a placeholder for the OCR client.
type Client struct{}

// New returns ErrOCRNotEnabled.
func New() (*Client, error) {
	return nil, ErrOCRNotEnabled
}

// Close is a no-op on the stub.
func (c *Client) Close() error {
	return nil
}

// SetLanguage returns ErrOCRNotEnabled.
func (c *Client) SetLanguage(lang string) error {
	return ErrOCRNotEnabled
}

// SetMinConfidence is a no-op on the stub.
func (c *Client) SetMinConfidence(min float64) {}

// RecognizeImage returns ErrOCRNotEnabled.
func (c *Client) RecognizeImage(imageData []byte) (string, error) {
	return "", ErrOCRNotEnabled
}

// Words returns ErrOCRNotEnabled.
func (c *Client) Words(imageData []byte) ([]model.Span, error) {
	return nil, ErrOCRNotEnabled
}
