package exchange

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tsawler/refit/model"
)

// EncodeTagged writes one <N>text</N> segment per block to w, where N
// is the block's 0-based position in global document order. Embedded
// line breaks are escaped so every segment occupies a single line.
func EncodeTagged(doc *model.Document, w io.Writer) error {
	bw := bufio.NewWriter(w)
	for i, block := range doc.BlocksInOrder() {
		if _, err := fmt.Fprintf(bw, "<%d>%s</%d>\n", i, escapeSegment(block.Text), i); err != nil {
			return fmt.Errorf("writing segment %d: %w", i, err)
		}
	}
	return bw.Flush()
}

// DecodeTagged parses tagged translation text and associates each
// segment with a block of doc by position. The segment count must
// equal the document's block count and the tag indices must run 0..n-1
// in order; any disagreement returns an *IntegrityError.
func DecodeTagged(r io.Reader, doc *model.Document) (TranslationMap, error) {
	text, err := readAll(r)
	if err != nil {
		return nil, err
	}

	segments, err := parseTagged(text)
	if err != nil {
		return nil, err
	}

	order := doc.BlockOrder
	if len(segments) != len(order) {
		return nil, integrityf(len(order), len(segments), "segment count mismatch")
	}

	m := make(TranslationMap, len(segments))
	for i, seg := range segments {
		if seg.index != i {
			return nil, integrityf(i, seg.index, "segment out of order at position %d", i)
		}
		m[order[i]] = unescapeSegment(seg.text)
	}
	return m, nil
}

type taggedSegment struct {
	index int
	text  string
}

// parseTagged scans text for <N>...</N> segments in file order.
// Content between segments is ignored; translators tend to leave
// stray whitespace or tool banners around the tags.
func parseTagged(text string) ([]taggedSegment, error) {
	var segments []taggedSegment

	i := 0
	for i < len(text) {
		open := strings.Index(text[i:], "<")
		if open < 0 {
			break
		}
		i += open

		j := i + 1
		for j < len(text) && text[j] >= '0' && text[j] <= '9' {
			j++
		}
		if j == i+1 || j >= len(text) || text[j] != '>' {
			i++
			continue
		}

		digits := text[i+1 : j]
		index, err := strconv.Atoi(digits)
		if err != nil {
			i++
			continue
		}

		closing := "</" + digits + ">"
		end := findUnescaped(text, j+1, closing)
		if end < 0 {
			return nil, &IntegrityError{Reason: fmt.Sprintf("segment %d is not terminated", index)}
		}

		segments = append(segments, taggedSegment{
			index: index,
			text:  text[j+1 : j+1+end],
		})
		i = j + 1 + end + len(closing)
	}

	return segments, nil
}

// findUnescaped returns the offset of sub within text[from:], skipping
// occurrences preceded by an odd run of backslashes; those sit inside
// escaped content, not at a segment boundary. Returns -1 when no real
// occurrence exists.
func findUnescaped(text string, from int, sub string) int {
	off := 0
	for {
		k := strings.Index(text[from+off:], sub)
		if k < 0 {
			return -1
		}
		pos := from + off + k
		run := 0
		for p := pos - 1; p >= from && text[p] == '\\'; p-- {
			run++
		}
		if run%2 == 0 {
			return pos - from
		}
		off += k + 1
	}
}

// escapeSegment makes block text single-line and delimiter-free:
// backslashes double, line breaks become the two characters \n,
// carriage returns \r, and < becomes the pair \<. Escaping < keeps a
// literal closing tag in the text from ending the segment early.
func escapeSegment(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '<':
			b.WriteString(`\<`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// unescapeSegment reverses escapeSegment. A trailing lone backslash
// or an unknown escape is kept literally rather than dropped.
func unescapeSegment(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case '\\':
				b.WriteByte('\\')
				i++
				continue
			case 'n':
				b.WriteByte('\n')
				i++
				continue
			case 'r':
				b.WriteByte('\r')
				i++
				continue
			case '<':
				b.WriteByte('<')
				i++
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
