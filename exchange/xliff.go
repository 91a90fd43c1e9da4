package exchange

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/tsawler/refit/model"
)

// XLIFF 1.2 document structure, one trans-unit per block.
type xliffXML struct {
	XMLName xml.Name     `xml:"xliff"`
	Version string       `xml:"version,attr"`
	XMLNS   string       `xml:"xmlns,attr,omitempty"`
	File    xliffFileXML `xml:"file"`
}

type xliffFileXML struct {
	Original   string       `xml:"original,attr"`
	SourceLang string       `xml:"source-language,attr"`
	TargetLang string       `xml:"target-language,attr,omitempty"`
	DataType   string       `xml:"datatype,attr"`
	Body       xliffBodyXML `xml:"body"`
}

type xliffBodyXML struct {
	Units []transUnitXML `xml:"trans-unit"`
}

type transUnitXML struct {
	ID     string `xml:"id,attr"`
	Source string `xml:"source"`
	Target string `xml:"target"`
}

const xliffNamespace = "urn:oasis:names:tc:xliff:document:1.2"

// EncodeXLIFF writes the document's blocks as an XLIFF 1.2 file with
// one trans-unit per block, identified by block id. Targets are left
// empty for the translator to fill in.
func EncodeXLIFF(doc *model.Document, w io.Writer, sourceLang, targetLang string) error {
	x := xliffXML{
		Version: "1.2",
		XMLNS:   xliffNamespace,
		File: xliffFileXML{
			Original:   doc.SourceFile,
			SourceLang: sourceLang,
			TargetLang: targetLang,
			DataType:   "plaintext",
		},
	}
	for _, block := range doc.BlocksInOrder() {
		x.File.Body.Units = append(x.File.Body.Units, transUnitXML{
			ID:     block.BlockID,
			Source: block.Text,
		})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(x); err != nil {
		return fmt.Errorf("encoding XLIFF: %w", err)
	}
	return enc.Close()
}

// DecodeXLIFF reads an XLIFF 1.2 file and returns the targets keyed
// by trans-unit id. Units whose id does not name a block of doc fail
// with an *IntegrityError; units with an empty target are skipped so
// those blocks keep their original text.
func DecodeXLIFF(r io.Reader, doc *model.Document) (TranslationMap, error) {
	text, err := readAll(r)
	if err != nil {
		return nil, err
	}

	var x xliffXML
	if err := xml.NewDecoder(strings.NewReader(text)).Decode(&x); err != nil {
		return nil, fmt.Errorf("parsing XLIFF: %w", err)
	}

	known := make(map[string]bool, len(doc.BlockOrder))
	for _, id := range doc.BlockOrder {
		known[id] = true
	}

	m := make(TranslationMap)
	for _, unit := range x.File.Body.Units {
		if !known[unit.ID] {
			return nil, &IntegrityError{Reason: fmt.Sprintf("trans-unit %q does not name a block", unit.ID)}
		}
		if unit.Target == "" {
			continue
		}
		m[unit.ID] = unit.Target
	}
	return m, nil
}
