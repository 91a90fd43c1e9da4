package exchange

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tsawler/refit/model"
)

// EncodeParallel writes the document's block text as flat
// line-delimited source text plus a mapping file, for tools that only
// handle one segment per line. Each source line is the escaped text
// of one block; the mapping file ties line numbers to block
// identifiers as "N<TAB>block_id".
func EncodeParallel(doc *model.Document, source, mapping io.Writer) error {
	sw := bufio.NewWriter(source)
	mw := bufio.NewWriter(mapping)

	for i, block := range doc.BlocksInOrder() {
		if _, err := fmt.Fprintln(sw, escapeSegment(block.Text)); err != nil {
			return fmt.Errorf("writing source line %d: %w", i, err)
		}
		if _, err := fmt.Fprintf(mw, "%d\t%s\n", i, block.BlockID); err != nil {
			return fmt.Errorf("writing mapping line %d: %w", i, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return err
	}
	return mw.Flush()
}

// DecodeParallel reads translated lines from target and re-associates
// them with block identifiers through the mapping file. The line
// counts must agree and every target line must have a mapping entry;
// otherwise decoding fails with an *IntegrityError.
func DecodeParallel(target, mapping io.Reader) (TranslationMap, error) {
	ids, err := readMapping(mapping)
	if err != nil {
		return nil, err
	}

	text, err := readAll(target)
	if err != nil {
		return nil, err
	}
	lines := splitLines(text)

	if len(lines) != len(ids) {
		return nil, integrityf(len(ids), len(lines), "target line count mismatch")
	}

	m := make(TranslationMap, len(lines))
	for i, line := range lines {
		id, ok := ids[i]
		if !ok {
			return nil, &IntegrityError{Reason: fmt.Sprintf("line %d has no mapping entry", i)}
		}
		m[id] = unescapeSegment(line)
	}
	return m, nil
}

func readMapping(r io.Reader) (map[int]string, error) {
	text, err := readAll(r)
	if err != nil {
		return nil, err
	}

	ids := make(map[int]string)
	for lineNo, line := range splitLines(text) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n, id, ok := strings.Cut(line, "\t")
		if !ok {
			return nil, fmt.Errorf("mapping line %d: missing tab separator", lineNo)
		}
		index, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return nil, fmt.Errorf("mapping line %d: %w", lineNo, err)
		}
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, fmt.Errorf("mapping line %d: empty block id", lineNo)
		}
		if _, dup := ids[index]; dup {
			return nil, fmt.Errorf("mapping line %d: duplicate entry for line %d", lineNo, index)
		}
		ids[index] = id
	}
	return ids, nil
}

// splitLines splits on \n, tolerates \r\n, and drops the empty
// remainder after a trailing newline.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
