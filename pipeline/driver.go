package pipeline

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/tsawler/refit/exchange"
	"github.com/tsawler/refit/fit"
	"github.com/tsawler/refit/model"
)

// Planner computes fit plans for every block of a document. Pages
// carry no shared mutable state, so they are planned on parallel
// workers; results are merged back in page order to keep warning
// output deterministic.
type Planner struct {
	// Engine measures with the document's own fonts.
	Engine *fit.Engine

	// Fallback, when set, is retried for blocks whose font the
	// primary engine cannot measure.
	Fallback *fit.Engine

	// Workers caps the number of concurrently planned pages.
	// Zero means no cap.
	Workers int
}

type pagePlans struct {
	plans    map[string]fit.Plan
	warnings []Warning
}

// PlanDocument fits replacement text for every block of doc. Blocks
// missing from tm keep their original text and are flagged with a
// MissingTranslation warning; blocks that still overflow at the
// minimum font size are flagged with a FitOverflow warning. A block
// with malformed geometry is skipped, not fatal.
func (p *Planner) PlanDocument(ctx context.Context, doc *model.Document, tm exchange.TranslationMap) (map[string]fit.Plan, []Warning, error) {
	results := make([]pagePlans, len(doc.Pages))

	g, ctx := errgroup.WithContext(ctx)
	if p.Workers > 0 {
		g.SetLimit(p.Workers)
	}
	for i := range doc.Pages {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			pp, err := p.planPage(&doc.Pages[i], tm)
			if err != nil {
				return err
			}
			results[i] = pp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	plans := make(map[string]fit.Plan, len(doc.BlockOrder))
	var warnings []Warning
	for _, pp := range results {
		for id, plan := range pp.plans {
			plans[id] = plan
		}
		warnings = append(warnings, pp.warnings...)
	}
	return plans, warnings, nil
}

func (p *Planner) planPage(page *model.Page, tm exchange.TranslationMap) (pagePlans, error) {
	pp := pagePlans{plans: make(map[string]fit.Plan, len(page.Blocks))}

	for _, block := range page.Blocks {
		text, ok := tm.Lookup(block.BlockID)
		if !ok {
			text = block.Text
			pp.warnings = append(pp.warnings, Warning{
				Code:    WarnMissingTranslation,
				Message: "no replacement text, keeping original",
				BlockID: block.BlockID,
				Page:    page.PageNumber,
			})
		}

		plan, err := p.fit(block, text, page.PageNumber, &pp)
		if err != nil {
			if errors.Is(err, model.ErrMalformedGeometry) {
				pp.warnings = append(pp.warnings, Warning{
					Code:    WarnSpanRejected,
					Message: "malformed block geometry, block skipped",
					BlockID: block.BlockID,
					Page:    page.PageNumber,
				})
				continue
			}
			return pagePlans{}, fmt.Errorf("fitting block %s: %w", block.BlockID, err)
		}

		if plan.Overflow {
			pp.warnings = append(pp.warnings, Warning{
				Code:    WarnFitOverflow,
				Message: fmt.Sprintf("text overflows at minimum size %g", plan.FontSize),
				BlockID: block.BlockID,
				Page:    page.PageNumber,
			})
		}
		pp.plans[block.BlockID] = plan
	}
	return pp, nil
}

// fit runs the primary engine, falling back to the substitute font
// engine when the block's font cannot be measured.
func (p *Planner) fit(block model.Block, text string, pageNumber int, pp *pagePlans) (fit.Plan, error) {
	plan, err := p.Engine.Fit(block, text)

	var me *fit.MetricsError
	if err != nil && errors.As(err, &me) && p.Fallback != nil {
		plan, err = p.Fallback.Fit(block, text)
		if err == nil {
			pp.warnings = append(pp.warnings, Warning{
				Code:    WarnFontSubstituted,
				Message: fmt.Sprintf("font %q not measurable, substituted fallback", me.FontName),
				BlockID: block.BlockID,
				Page:    pageNumber,
			})
		}
	}
	return plan, err
}
