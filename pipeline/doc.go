// Package pipeline implements the extraction and rebuild strategies
// that turn a source document into a layout document and a layout
// document plus replacement text into rendered output.
//
// # Strategies
//
// The set of strategies is closed:
//
//   - "direct" - text extracted straight from a digital PDF
//   - "scanned" - text recognized from page images by OCR
//
// All strategies share the same segmenter and fitting engine; they
// differ only in where spans come from and how output is written.
//
// # Warnings
//
// Non-fatal conditions (a missing translation, an overflowing block, a
// rejected span) are reported as warning values next to the result,
// never as errors and never silently dropped.
package pipeline
