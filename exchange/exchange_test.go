package exchange

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/tsawler/refit/model"
)

func sampleDocument() *model.Document {
	makeBlock := func(id, text string, y float64) model.Block {
		return model.Block{
			BlockID:  id,
			BBox:     model.Rect{X0: 72, Y0: y, X1: 300, Y1: y + 20},
			Text:     text,
			FontName: "Helvetica",
			FontSize: 12,
		}
	}
	return &model.Document{
		SourceFile: "sample.pdf",
		Pipeline:   "direct",
		Pages: []model.Page{
			{
				PageNumber: 1,
				Width:      612,
				Height:     792,
				Blocks: []model.Block{
					makeBlock("p1_b0", "Hello world", 72),
					makeBlock("p1_b1", "Multi\nline text", 120),
				},
			},
			{
				PageNumber: 2,
				Width:      612,
				Height:     792,
				Blocks: []model.Block{
					makeBlock("p2_b0", `Path C:\tmp`, 72),
				},
			},
		},
		BlockOrder: []string{"p1_b0", "p1_b1", "p2_b0"},
	}
}

func TestEncodeTaggedFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeTagged(sampleDocument(), &buf); err != nil {
		t.Fatalf("EncodeTagged failed: %v", err)
	}

	expected := "<0>Hello world</0>\n" +
		`<1>Multi\nline text</1>` + "\n" +
		`<2>Path C:\\tmp</2>` + "\n"
	if buf.String() != expected {
		t.Errorf("Expected:\n%s\ngot:\n%s", expected, buf.String())
	}
}

func TestTaggedRoundTrip(t *testing.T) {
	doc := sampleDocument()

	var buf bytes.Buffer
	if err := EncodeTagged(doc, &buf); err != nil {
		t.Fatalf("EncodeTagged failed: %v", err)
	}
	m, err := DecodeTagged(&buf, doc)
	if err != nil {
		t.Fatalf("DecodeTagged failed: %v", err)
	}

	expected := TranslationMap{
		"p1_b0": "Hello world",
		"p1_b1": "Multi\nline text",
		"p2_b0": `Path C:\tmp`,
	}
	if !reflect.DeepEqual(m, expected) {
		t.Errorf("Round trip mismatch: %#v", m)
	}
}

func documentWithTexts(texts ...string) *model.Document {
	doc := &model.Document{
		SourceFile: "sample.pdf",
		Pipeline:   "direct",
		Pages:      []model.Page{{PageNumber: 1, Width: 612, Height: 792}},
	}
	for i, text := range texts {
		doc.Pages[0].Blocks = append(doc.Pages[0].Blocks, model.Block{
			BlockID:  model.BlockIDFor(1, i),
			BBox:     model.Rect{X0: 72, Y0: float64(72 + i*30), X1: 300, Y1: float64(92 + i*30)},
			Text:     text,
			FontName: "Helvetica",
			FontSize: 12,
		})
	}
	doc.RebuildOrder()
	return doc
}

func TestTaggedRoundTripDelimiterText(t *testing.T) {
	// Text containing the tag delimiters themselves must survive the
	// round trip instead of ending the segment early.
	texts := []string{
		"see </0> marker",
		"a < b and <1>nested</1> tags",
		`backslash before tag \</2>`,
		"carriage\rreturn and CRLF\r\nbreak",
	}
	doc := documentWithTexts(texts...)

	var buf bytes.Buffer
	if err := EncodeTagged(doc, &buf); err != nil {
		t.Fatalf("EncodeTagged failed: %v", err)
	}
	if !strings.Contains(buf.String(), `see \</0> marker`) {
		t.Errorf("Closing tag in text not escaped: %q", buf.String())
	}

	m, err := DecodeTagged(&buf, doc)
	if err != nil {
		t.Fatalf("DecodeTagged failed: %v", err)
	}
	for i, text := range texts {
		id := model.BlockIDFor(1, i)
		if m[id] != text {
			t.Errorf("Round trip mismatch for %s: expected %q, got %q", id, text, m[id])
		}
	}
}

func TestParallelRoundTripDelimiterText(t *testing.T) {
	doc := documentWithTexts("a < b", "tag </1> inside", "line\r\nbreak")

	var source, mapping bytes.Buffer
	if err := EncodeParallel(doc, &source, &mapping); err != nil {
		t.Fatalf("EncodeParallel failed: %v", err)
	}
	m, err := DecodeParallel(&source, &mapping)
	if err != nil {
		t.Fatalf("DecodeParallel failed: %v", err)
	}
	if m["p1_b2"] != "line\r\nbreak" {
		t.Errorf("CRLF lost in parallel round trip: %q", m["p1_b2"])
	}
	if m["p1_b1"] != "tag </1> inside" {
		t.Errorf("Delimiter text lost: %q", m["p1_b1"])
	}
}

func TestDecodeTaggedTranslated(t *testing.T) {
	input := "<0>Bonjour le monde</0>\n<1>Texte\\nmultiligne</1>\n<2>Chemin</2>\n"
	m, err := DecodeTagged(strings.NewReader(input), sampleDocument())
	if err != nil {
		t.Fatalf("DecodeTagged failed: %v", err)
	}
	if m["p1_b0"] != "Bonjour le monde" {
		t.Errorf("Unexpected text for p1_b0: %q", m["p1_b0"])
	}
	if m["p1_b1"] != "Texte\nmultiligne" {
		t.Errorf("Escape not decoded: %q", m["p1_b1"])
	}
}

func TestDecodeTaggedCountMismatch(t *testing.T) {
	input := "<0>One</0>\n<1>Two</1>\n"
	_, err := DecodeTagged(strings.NewReader(input), sampleDocument())
	var ie *IntegrityError
	if !errors.As(err, &ie) {
		t.Fatalf("Expected IntegrityError, got %v", err)
	}
	if ie.Want != 3 || ie.Got != 2 {
		t.Errorf("Expected want=3 got=2, have want=%d got=%d", ie.Want, ie.Got)
	}
}

func TestDecodeTaggedOutOfOrder(t *testing.T) {
	input := "<1>Two</1>\n<0>One</0>\n<2>Three</2>\n"
	_, err := DecodeTagged(strings.NewReader(input), sampleDocument())
	var ie *IntegrityError
	if !errors.As(err, &ie) {
		t.Fatalf("Expected IntegrityError, got %v", err)
	}
}

func TestDecodeTaggedUnterminated(t *testing.T) {
	input := "<0>One</0>\n<1>never closed\n<2>Three</2>\n"
	if _, err := DecodeTagged(strings.NewReader(input), sampleDocument()); err == nil {
		t.Error("Expected error for unterminated segment")
	}
}

func TestDecodeTaggedIgnoresSurroundingText(t *testing.T) {
	input := "Translated by SomeTool v2\n<0>One</0> <1>Two</1>\n<2>Three</2>\nend of file\n"
	m, err := DecodeTagged(strings.NewReader(input), sampleDocument())
	if err != nil {
		t.Fatalf("DecodeTagged failed: %v", err)
	}
	if m["p2_b0"] != "Three" {
		t.Errorf("Unexpected text: %q", m["p2_b0"])
	}
}

func TestDecodeTaggedUTF16Input(t *testing.T) {
	plain := "<0>Un</0>\n<1>Deux</1>\n<2>Trois</2>\n"
	enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	encoded, _, err := transform.String(enc, plain)
	if err != nil {
		t.Fatalf("encoding test input: %v", err)
	}

	m, err := DecodeTagged(strings.NewReader(encoded), sampleDocument())
	if err != nil {
		t.Fatalf("DecodeTagged failed on UTF-16 input: %v", err)
	}
	if m["p1_b0"] != "Un" {
		t.Errorf("Unexpected text: %q", m["p1_b0"])
	}
}

func TestParallelRoundTrip(t *testing.T) {
	doc := sampleDocument()

	var source, mapping bytes.Buffer
	if err := EncodeParallel(doc, &source, &mapping); err != nil {
		t.Fatalf("EncodeParallel failed: %v", err)
	}

	if !strings.Contains(mapping.String(), "0\tp1_b0") {
		t.Errorf("Mapping file missing entry: %q", mapping.String())
	}

	m, err := DecodeParallel(&source, &mapping)
	if err != nil {
		t.Fatalf("DecodeParallel failed: %v", err)
	}
	if m["p1_b1"] != "Multi\nline text" {
		t.Errorf("Escape lost in parallel round trip: %q", m["p1_b1"])
	}
}

func TestDecodeParallelLineCountMismatch(t *testing.T) {
	target := strings.NewReader("one\ntwo\n")
	mapping := strings.NewReader("0\tp1_b0\n1\tp1_b1\n2\tp2_b0\n")

	_, err := DecodeParallel(target, mapping)
	var ie *IntegrityError
	if !errors.As(err, &ie) {
		t.Fatalf("Expected IntegrityError, got %v", err)
	}
}

func TestDecodeParallelMissingMappingEntry(t *testing.T) {
	target := strings.NewReader("one\ntwo\nthree\n")
	mapping := strings.NewReader("0\tp1_b0\n1\tp1_b1\n5\tp2_b0\n")

	_, err := DecodeParallel(target, mapping)
	var ie *IntegrityError
	if !errors.As(err, &ie) {
		t.Fatalf("Expected IntegrityError, got %v", err)
	}
}

func TestDecodeParallelMalformedMapping(t *testing.T) {
	target := strings.NewReader("one\n")
	mapping := strings.NewReader("no tab here\n")

	if _, err := DecodeParallel(target, mapping); err == nil {
		t.Error("Expected error for malformed mapping line")
	}
}

func TestXLIFFRoundTrip(t *testing.T) {
	doc := sampleDocument()

	var buf bytes.Buffer
	if err := EncodeXLIFF(doc, &buf, "en", "fr"); err != nil {
		t.Fatalf("EncodeXLIFF failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, `id="p1_b0"`) {
		t.Errorf("XLIFF missing trans-unit id: %s", out)
	}
	if !strings.Contains(out, `source-language="en"`) {
		t.Errorf("XLIFF missing source language: %s", out)
	}

	// Untranslated file: every target empty, so nothing is mapped.
	m, err := DecodeXLIFF(&buf, doc)
	if err != nil {
		t.Fatalf("DecodeXLIFF failed: %v", err)
	}
	if len(m) != 0 {
		t.Errorf("Expected empty map for untranslated XLIFF, got %#v", m)
	}
}

func TestDecodeXLIFFTranslated(t *testing.T) {
	input := `<?xml version="1.0" encoding="UTF-8"?>
<xliff version="1.2" xmlns="urn:oasis:names:tc:xliff:document:1.2">
  <file original="sample.pdf" source-language="en" target-language="fr" datatype="plaintext">
    <body>
      <trans-unit id="p1_b0"><source>Hello world</source><target>Bonjour le monde</target></trans-unit>
      <trans-unit id="p1_b1"><source>Multi</source><target></target></trans-unit>
    </body>
  </file>
</xliff>`

	m, err := DecodeXLIFF(strings.NewReader(input), sampleDocument())
	if err != nil {
		t.Fatalf("DecodeXLIFF failed: %v", err)
	}
	if m["p1_b0"] != "Bonjour le monde" {
		t.Errorf("Unexpected target: %q", m["p1_b0"])
	}
	if _, ok := m["p1_b1"]; ok {
		t.Error("Empty target must be skipped")
	}
}

func TestDecodeXLIFFUnknownUnit(t *testing.T) {
	input := `<?xml version="1.0"?>
<xliff version="1.2"><file original="x" source-language="en" datatype="plaintext"><body>
<trans-unit id="p9_b9"><source>x</source><target>y</target></trans-unit>
</body></file></xliff>`

	_, err := DecodeXLIFF(strings.NewReader(input), sampleDocument())
	var ie *IntegrityError
	if !errors.As(err, &ie) {
		t.Fatalf("Expected IntegrityError, got %v", err)
	}
}

func TestHTMLRoundTrip(t *testing.T) {
	doc := sampleDocument()

	var buf bytes.Buffer
	if err := EncodeHTML(doc, &buf); err != nil {
		t.Fatalf("EncodeHTML failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, `data-block="p1_b1"`) {
		t.Errorf("HTML missing data-block attribute: %s", out)
	}
	if !strings.Contains(out, "<br/>") {
		t.Errorf("Line break not encoded as br: %s", out)
	}

	m, err := DecodeHTML(&buf, doc)
	if err != nil {
		t.Fatalf("DecodeHTML failed: %v", err)
	}
	if m["p1_b0"] != "Hello world" {
		t.Errorf("Unexpected text: %q", m["p1_b0"])
	}
	if m["p1_b1"] != "Multi\nline text" {
		t.Errorf("br not decoded to line break: %q", m["p1_b1"])
	}
}

func TestDecodeHTMLUnknownBlock(t *testing.T) {
	input := `<html><body><div data-block="p9_b9">text</div></body></html>`

	_, err := DecodeHTML(strings.NewReader(input), sampleDocument())
	var ie *IntegrityError
	if !errors.As(err, &ie) {
		t.Fatalf("Expected IntegrityError, got %v", err)
	}
}

func TestTranslationMapMerge(t *testing.T) {
	m := TranslationMap{"a": "1", "b": "2"}
	m.Merge(TranslationMap{"b": "3", "c": "4"})

	expected := TranslationMap{"a": "1", "b": "3", "c": "4"}
	if !reflect.DeepEqual(m, expected) {
		t.Errorf("Merge mismatch: %#v", m)
	}

	if _, ok := m.Lookup("missing"); ok {
		t.Error("Lookup must report absence")
	}
}
