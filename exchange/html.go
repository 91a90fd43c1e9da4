package exchange

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/tsawler/refit/model"
)

// EncodeHTML writes the document's blocks as a minimal HTML page, one
// div per block carrying the block id in a data-block attribute.
// Tools that translate markup in place can process the file and hand
// it back with the attributes untouched.
func EncodeHTML(doc *model.Document, w io.Writer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "<!DOCTYPE html>")
	fmt.Fprintln(bw, `<html><head><meta charset="utf-8"></head><body>`)
	for _, block := range doc.BlocksInOrder() {
		text := html.EscapeString(block.Text)
		text = strings.ReplaceAll(text, "\n", "<br/>")
		fmt.Fprintf(bw, "<div data-block=%q>%s</div>\n", block.BlockID, text)
	}
	fmt.Fprintln(bw, "</body></html>")

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing HTML: %w", err)
	}
	return nil
}

// DecodeHTML parses an HTML file and returns the text content of
// every element with a data-block attribute, keyed by that attribute.
// An attribute value that does not name a block of doc fails with an
// *IntegrityError. br elements become line breaks.
func DecodeHTML(r io.Reader, doc *model.Document) (TranslationMap, error) {
	text, err := readAll(r)
	if err != nil {
		return nil, err
	}

	root, err := html.Parse(strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	known := make(map[string]bool, len(doc.BlockOrder))
	for _, id := range doc.BlockOrder {
		known[id] = true
	}

	m := make(TranslationMap)
	var walk func(n *html.Node) error
	walk = func(n *html.Node) error {
		if n.Type == html.ElementNode {
			if id, ok := blockAttr(n); ok {
				if !known[id] {
					return &IntegrityError{Reason: fmt.Sprintf("data-block %q does not name a block", id)}
				}
				m[id] = blockText(n)
				return nil
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if err := walk(c); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(root); err != nil {
		return nil, err
	}
	return m, nil
}

func blockAttr(n *html.Node) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Key == "data-block" {
			return attr.Val, true
		}
	}
	return "", false
}

// blockText collects the text content of a node, turning br elements
// into line breaks.
func blockText(n *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
		case html.ElementNode:
			if n.Data == "br" {
				b.WriteString("\n")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return b.String()
}
