package pipeline

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// Producer strings left behind by scanner software.
var scannerKeywords = []string{
	"scan",
	"scanner",
	"image capture",
	"paperstream",
	"naps2",
	"epson",
	"canon ij",
}

// DetectSource inspects a PDF and picks the extraction strategy for
// it: "scanned" when the document metadata names scanner software or
// the first pages carry no extractable text, "direct" otherwise.
func DetectSource(src string) (string, error) {
	f, r, err := pdf.Open(src)
	if err != nil {
		return "", fmt.Errorf("opening PDF: %w", err)
	}
	defer f.Close()

	info := r.Trailer().Key("Info")
	meta := strings.ToLower(info.Key("Creator").RawString() + " " + info.Key("Producer").RawString())
	for _, kw := range scannerKeywords {
		if strings.Contains(meta, kw) {
			return "scanned", nil
		}
	}

	if hasExtractableText(r) {
		return "direct", nil
	}
	return "scanned", nil
}

// hasExtractableText probes the first pages for real text content.
func hasExtractableText(r *pdf.Reader) bool {
	pagesToCheck := 3
	if r.NumPage() < pagesToCheck {
		pagesToCheck = r.NumPage()
	}

	textLength := 0
	for pageNum := 1; pageNum <= pagesToCheck; pageNum++ {
		p := r.Page(pageNum)
		if p.V.IsNull() {
			continue
		}
		for _, t := range p.Content().Text {
			for _, c := range t.S {
				if !unicode.IsSpace(c) {
					textLength++
				}
			}
			if textLength > 50 {
				return true
			}
		}
	}
	return false
}
