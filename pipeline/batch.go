package pipeline

import (
	"context"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"golang.org/x/sync/errgroup"

	"github.com/tsawler/refit/exchange"
)

// BatchJob is one document in a batch rebuild.
type BatchJob struct {
	Source       string
	Output       string
	Translations exchange.TranslationMap
}

// BatchResult pairs a job with its outcome.
type BatchResult struct {
	Source string
	Result *Result
	Err    error
}

// ProcessBatch extracts and rebuilds every job's document with p,
// running up to workers jobs concurrently. A failure, including a
// translation integrity failure, is recorded in that job's result and
// aborts only that document; the rest of the batch continues.
func ProcessBatch(ctx context.Context, p Pipeline, jobs []BatchJob, workers int) []BatchResult {
	results := make([]BatchResult, len(jobs))

	var g errgroup.Group
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			results[i] = runJob(ctx, p, job)
			return nil
		})
	}
	g.Wait()
	return results
}

func runJob(ctx context.Context, p Pipeline, job BatchJob) BatchResult {
	if err := ctx.Err(); err != nil {
		return BatchResult{Source: job.Source, Err: err}
	}

	doc, warnings, err := p.Extract(job.Source)
	if err != nil {
		return BatchResult{Source: job.Source, Err: fmt.Errorf("extracting: %w", err)}
	}

	result, err := p.Rebuild(job.Source, doc, job.Translations, job.Output)
	if err != nil {
		return BatchResult{Source: job.Source, Err: fmt.Errorf("rebuilding: %w", err)}
	}

	result.Warnings = append(warnings, result.Warnings...)
	return BatchResult{Source: job.Source, Result: result}
}

// PageCount returns the number of pages in a PDF file.
func PageCount(path string) (int, error) {
	n, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("counting pages: %w", err)
	}
	return n, nil
}

// ValidatePDF checks that a file is a structurally valid PDF.
func ValidatePDF(path string) error {
	if err := api.ValidateFile(path, nil); err != nil {
		return fmt.Errorf("validating %s: %w", path, err)
	}
	return nil
}

// SplitPages writes each page of a PDF as its own single-page file in
// outDir, for feeding pages to page-at-a-time tools.
func SplitPages(path, outDir string) error {
	if err := api.SplitFile(path, outDir, 1, nil); err != nil {
		return fmt.Errorf("splitting %s: %w", path, err)
	}
	return nil
}
