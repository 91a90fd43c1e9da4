package pipeline

import (
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/tsawler/refit/fit"
	"github.com/tsawler/refit/font"
	"github.com/tsawler/refit/model"
)

// Renderer writes a rebuilt document as a fresh PDF, placing each
// block's planned lines at their computed positions. Pages keep their
// original dimensions.
type Renderer struct {
	// FontFile, when set, names a TrueType file registered as a UTF-8
	// font and used for all text. Without it the core fonts are used,
	// which only cover the cp1252 repertoire.
	FontFile string

	// FontFamily is the family name the registered font file is used
	// under. Defaults to "replacement".
	FontFamily string
}

// Render writes doc to out, drawing every block that has a plan.
func (r *Renderer) Render(doc *model.Document, plans map[string]fit.Plan, out string) error {
	pdf := gofpdf.New("P", "pt", "A4", "")

	custom := ""
	if r.FontFile != "" {
		custom = r.FontFamily
		if custom == "" {
			custom = "replacement"
		}
		pdf.AddUTF8Font(custom, "", r.FontFile)
	}

	for i := range doc.Pages {
		page := &doc.Pages[i]
		orientation := "P"
		if page.Width > page.Height {
			orientation = "L"
		}
		pdf.AddPageFormat(orientation, gofpdf.SizeType{Wd: page.Width, Ht: page.Height})

		for _, block := range page.Blocks {
			plan, ok := plans[block.BlockID]
			if !ok {
				continue
			}
			renderBlock(pdf, block, plan, custom)
		}
	}

	if err := pdf.OutputFileAndClose(out); err != nil {
		return fmt.Errorf("writing output PDF: %w", err)
	}
	return nil
}

func renderBlock(pdf *gofpdf.Fpdf, block model.Block, plan fit.Plan, custom string) {
	family, style := font.CoreFontStyle(block.FontName)
	if custom != "" {
		family, style = custom, ""
	}
	pdf.SetFont(family, style, plan.FontSize)
	pdf.SetTextColor(int(block.Color.R), int(block.Color.G), int(block.Color.B))

	for _, line := range plan.Lines {
		pdf.SetXY(line.BBox.X0, line.BBox.Y0)
		pdf.CellFormat(line.BBox.Width(), line.BBox.Height(), line.Text, "", 0, "L", false, 0, "")
	}
}
