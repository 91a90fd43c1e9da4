package refit

import (
	"fmt"
	"os"

	"github.com/tsawler/refit/exchange"
	"github.com/tsawler/refit/model"
	"github.com/tsawler/refit/pipeline"
	"github.com/tsawler/refit/segment"
)

// Job configures and runs extraction and rebuild for one source
// document. Each configuration method returns a new Job instance,
// making it safe for concurrent use and allowing method chaining.
type Job struct {
	filename string
	options  JobOptions

	// Accumulated error (fail-fast)
	err error
}

// clone creates a copy of the Job with a copy of its options.
func (j *Job) clone() *Job {
	return &Job{
		filename: j.filename,
		options:  j.options.clone(),
		err:      j.err,
	}
}

// Pipeline selects the extraction strategy by name ("direct" or
// "scanned"). Without it the strategy is detected from the source
// file.
func (j *Job) Pipeline(name string) *Job {
	newJob := j.clone()
	if !pipeline.Known(name) {
		newJob.err = fmt.Errorf("unknown pipeline %q", name)
		return newJob
	}
	newJob.options.pipelineName = name
	return newJob
}

// MinFontSize sets the size floor the fitting search will not go
// under.
func (j *Job) MinFontSize(size float64) *Job {
	newJob := j.clone()
	newJob.options.fitCfg.MinFontSize = size
	return newJob
}

// FontStep sets the decrement between attempted font sizes.
func (j *Job) FontStep(step float64) *Job {
	newJob := j.clone()
	newJob.options.fitCfg.FontStep = step
	return newJob
}

// LineSpacing sets the line height as a multiple of the font size.
func (j *Job) LineSpacing(factor float64) *Job {
	newJob := j.clone()
	newJob.options.fitCfg.LineSpacingFactor = factor
	return newJob
}

// SegmentConfig replaces the whole segmentation configuration.
func (j *Job) SegmentConfig(cfg segment.Config) *Job {
	newJob := j.clone()
	newJob.options.segCfg = cfg
	return newJob
}

// FontFile sets a TrueType font file used for all rendered text, for
// replacement text outside the core font repertoire.
func (j *Job) FontFile(path string) *Job {
	newJob := j.clone()
	newJob.options.fontFile = path
	return newJob
}

// WithImages supplies the page images and word recognizer the scanned
// strategy extracts from.
func (j *Job) WithImages(images pipeline.ImageSource, recognize pipeline.WordRecognizer) *Job {
	newJob := j.clone()
	newJob.options.images = images
	newJob.options.recognize = recognize
	return newJob
}

// Workers caps the number of concurrently planned pages during
// rebuild.
func (j *Job) Workers(n int) *Job {
	newJob := j.clone()
	newJob.options.workers = n
	return newJob
}

// Detect returns the strategy name that would be used for the source
// file: the explicitly selected one, or the detected one.
func (j *Job) Detect() (string, error) {
	if j.err != nil {
		return "", j.err
	}
	if j.options.pipelineName != "" {
		return j.options.pipelineName, nil
	}
	return pipeline.DetectSource(j.filename)
}

// Extract reads the source document and returns its layout document.
func (j *Job) Extract() (*model.Document, []Warning, error) {
	p, err := j.build()
	if err != nil {
		return nil, nil, err
	}
	return p.Extract(j.filename)
}

// ExtractTo extracts the layout document and writes it as JSON to
// path, the first half of the two-stage translation flow.
func (j *Job) ExtractTo(path string) (*model.Document, []Warning, error) {
	doc, warnings, err := j.Extract()
	if err != nil {
		return nil, warnings, err
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, warnings, fmt.Errorf("creating layout file: %w", err)
	}
	defer f.Close()

	if err := doc.WriteTo(f); err != nil {
		return nil, warnings, fmt.Errorf("writing layout file: %w", err)
	}
	return doc, warnings, nil
}

// Rebuild renders a copy of the source document with each block's
// text replaced from the translation map.
func (j *Job) Rebuild(doc *model.Document, tm exchange.TranslationMap, out string) (*Result, error) {
	p, err := j.build()
	if err != nil {
		return nil, err
	}
	return p.Rebuild(j.filename, doc, tm, out)
}

// RebuildFromFiles runs the second half of the two-stage flow: it
// reads the layout document from layoutPath and tagged translation
// text from taggedPath, then rebuilds to out.
func (j *Job) RebuildFromFiles(layoutPath, taggedPath, out string) (*Result, error) {
	if j.err != nil {
		return nil, j.err
	}

	lf, err := os.Open(layoutPath)
	if err != nil {
		return nil, fmt.Errorf("opening layout file: %w", err)
	}
	defer lf.Close()

	doc, err := model.ReadDocument(lf)
	if err != nil {
		return nil, fmt.Errorf("reading layout file: %w", err)
	}

	tf, err := os.Open(taggedPath)
	if err != nil {
		return nil, fmt.Errorf("opening translation file: %w", err)
	}
	defer tf.Close()

	tm, err := exchange.DecodeTagged(tf, doc)
	if err != nil {
		return nil, err
	}

	return j.Rebuild(doc, tm, out)
}

// build resolves the strategy and constructs it with the job's
// configuration.
func (j *Job) build() (pipeline.Pipeline, error) {
	if j.err != nil {
		return nil, j.err
	}

	name, err := j.Detect()
	if err != nil {
		return nil, err
	}

	switch name {
	case "direct":
		d := pipeline.NewDirectWithConfig(j.options.segCfg, j.options.fitCfg)
		if j.options.fontFile != "" {
			d.SetFontFile(j.options.fontFile)
		}
		d.SetWorkers(j.options.workers)
		return d, nil
	case "scanned":
		s := pipeline.NewScannedWithConfig(j.options.images, j.options.recognize, j.options.segCfg, j.options.fitCfg)
		if j.options.fontFile != "" {
			s.SetFontFile(j.options.fontFile)
		}
		s.SetWorkers(j.options.workers)
		return s, nil
	default:
		return nil, fmt.Errorf("unknown pipeline %q", name)
	}
}
