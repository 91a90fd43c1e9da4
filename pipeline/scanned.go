package pipeline

import (
	"errors"
	"fmt"

	"github.com/tsawler/refit/exchange"
	"github.com/tsawler/refit/fit"
	"github.com/tsawler/refit/font"
	"github.com/tsawler/refit/model"
	"github.com/tsawler/refit/segment"
)

// ImageSource supplies the page images of a scanned document.
type ImageSource interface {
	PageCount() (int, error)

	// PageImage returns the encoded image of page n (1-based) along
	// with the page dimensions in the same units as the recognizer's
	// word coordinates.
	PageImage(n int) (data []byte, width, height float64, err error)
}

// WordRecognizer turns a page image into positioned word spans.
// The OCR client satisfies this when built with OCR support.
type WordRecognizer interface {
	Words(image []byte) ([]model.Span, error)
}

// ErrNoImageSource is returned by the scanned strategy when it has no
// image source or word recognizer to extract with.
var ErrNoImageSource = errors.New("scanned pipeline needs an image source and a word recognizer")

// Scanned extracts text from page images through a word recognizer
// and rebuilds the document like the direct strategy.
type Scanned struct {
	images    ImageSource
	recognize WordRecognizer
	segmenter *segment.Segmenter
	planner   *Planner
	renderer  *Renderer
}

// NewScanned creates a scanned pipeline reading page images from
// images and recognizing words with recognize.
func NewScanned(images ImageSource, recognize WordRecognizer) *Scanned {
	return NewScannedWithConfig(images, recognize, segment.DefaultConfig(), fit.DefaultConfig())
}

// NewScannedWithConfig creates a scanned pipeline with explicit
// segmentation and fitting configuration.
func NewScannedWithConfig(images ImageSource, recognize WordRecognizer, segCfg segment.Config, fitCfg fit.Config) *Scanned {
	return &Scanned{
		images:    images,
		recognize: recognize,
		segmenter: segment.NewWithConfig(segCfg),
		planner: &Planner{
			Engine:   fit.NewEngineWithConfig(font.NewStandard(), fitCfg),
			Fallback: fit.NewEngineWithConfig(font.Fallback(), fitCfg),
		},
		renderer: &Renderer{},
	}
}

// SetWorkers caps the number of concurrently planned pages during
// rebuild. Zero means no cap.
func (s *Scanned) SetWorkers(n int) {
	s.planner.Workers = n
}

// SetFontFile registers a TrueType font file used for all rendered
// text.
func (s *Scanned) SetFontFile(path string) {
	s.renderer.FontFile = path
}

// Name returns the strategy name.
func (s *Scanned) Name() string {
	return "scanned"
}

// Extract recognizes and segments every page image. src only labels
// the resulting document; the page data comes from the image source.
func (s *Scanned) Extract(src string) (*model.Document, []Warning, error) {
	if s.images == nil || s.recognize == nil {
		return nil, nil, ErrNoImageSource
	}

	pageCount, err := s.images.PageCount()
	if err != nil {
		return nil, nil, fmt.Errorf("counting pages: %w", err)
	}

	doc := &model.Document{
		SourceFile: src,
		Pipeline:   s.Name(),
	}

	for pageNum := 1; pageNum <= pageCount; pageNum++ {
		data, width, height, err := s.images.PageImage(pageNum)
		if err != nil {
			return nil, nil, fmt.Errorf("reading page image %d: %w", pageNum, err)
		}

		spans, err := s.recognize.Words(data)
		if err != nil {
			return nil, nil, fmt.Errorf("recognizing page %d: %w", pageNum, err)
		}

		blocks, err := s.segmenter.Segment(pageNum, spans)
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
	return doc, nil, nil
}

// Rebuild fits the replacement text of every block and renders the
// result to out.
func (s *Scanned) Rebuild(src string, doc *model.Document, tm exchange.TranslationMap, out string) (*Result, error) {
	return rebuild(s.planner, s.renderer, doc, tm, out)
}
