// Package refit replaces the text of a document while preserving its
// visual layout. It segments extracted text into stable blocks,
// carries block text through translation exchange formats, and fits
// replacement text back into each block's original bounding box.
//
// Basic two-stage usage:
//
//	// Stage one: extract the layout document and the text to translate.
//	doc, warnings, err := refit.Open("report.pdf").Extract()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", refit.FormatWarnings(warnings))
//	}
//
//	// Stage two: rebuild with translated text.
//	tm, err := exchange.DecodeTagged(translatedFile, doc)
//	if err != nil {
//	    // handle error
//	}
//	result, err := refit.Open("report.pdf").Rebuild(doc, tm, "report_fr.pdf")
//
// With options:
//
//	result, err := refit.Open("report.pdf").
//	    Pipeline("direct").
//	    MinFontSize(7).
//	    FontStep(0.25).
//	    Rebuild(doc, tm, "out.pdf")
//
// For advanced use cases, the lower-level segment, fit, exchange, and
// pipeline packages are also available.
package refit

import (
	"github.com/tsawler/refit/pipeline"
)

// Warning reports a non-fatal condition encountered while extracting
// or rebuilding.
type Warning = pipeline.Warning

// Result summarizes a completed rebuild.
type Result = pipeline.Result

// FormatWarnings joins warnings into a single human-readable string.
func FormatWarnings(warnings []Warning) string {
	return pipeline.FormatWarnings(warnings)
}

// Open prepares a Job for a source document. Nothing is read until a
// terminal operation like Extract or Rebuild runs.
//
// Example:
//
//	doc, warnings, err := refit.Open("document.pdf").Extract()
func Open(filename string) *Job {
	return &Job{
		filename: filename,
		options:  defaultJobOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	name := refit.Must(refit.Open("document.pdf").Detect())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustExtract wraps a call to Extract and panics if the error is
// non-nil. It discards warnings and returns just the value.
//
// Example:
//
//	doc := refit.MustExtract(refit.Open("document.pdf").Extract())
func MustExtract[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
