package exchange

import (
	"fmt"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// readAll reads r into a UTF-8 string. A UTF-8, UTF-16LE, or UTF-16BE
// byte order mark at the start of the stream selects the input
// encoding; without one the input is taken as UTF-8.
func readAll(r io.Reader) (string, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	data, err := io.ReadAll(transform.NewReader(r, decoder))
	if err != nil {
		return "", fmt.Errorf("reading exchange text: %w", err)
	}
	return string(data), nil
}
