package refit

import (
	"github.com/tsawler/refit/fit"
	"github.com/tsawler/refit/pipeline"
	"github.com/tsawler/refit/segment"
)

// JobOptions holds configuration for extraction and rebuild.
type JobOptions struct {
	// Strategy selection; empty means detect from the source file.
	pipelineName string

	// Segmentation and fitting configuration.
	segCfg segment.Config
	fitCfg fit.Config

	// Rendering font file for text outside the core font repertoire.
	fontFile string

	// Page image access for the scanned strategy.
	images    pipeline.ImageSource
	recognize pipeline.WordRecognizer

	// Concurrently planned pages during rebuild; zero means no cap.
	workers int
}

// defaultJobOptions returns the default job options.
func defaultJobOptions() JobOptions {
	return JobOptions{
		pipelineName: "",
		segCfg:       segment.DefaultConfig(),
		fitCfg:       fit.DefaultConfig(),
	}
}

// clone creates a copy of JobOptions. All fields are values or
// read-only references, so a shallow copy is a safe one.
func (o JobOptions) clone() JobOptions {
	return o
}
