package exchange

import "fmt"

// IntegrityError reports a translation file that disagrees with the
// layout document it is paired with: wrong segment count, duplicate
// or out-of-order tags, or a line without a mapping entry. It is
// fatal for the document; decoding must not produce a partial or
// misaligned mapping.
type IntegrityError struct {
	Reason string
	Want   int
	Got    int
}

func (e *IntegrityError) Error() string {
	if e.Want != e.Got {
		return fmt.Sprintf("translation integrity: %s (want %d, got %d)", e.Reason, e.Want, e.Got)
	}
	return "translation integrity: " + e.Reason
}

func integrityf(want, got int, format string, args ...any) *IntegrityError {
	return &IntegrityError{
		Reason: fmt.Sprintf(format, args...),
		Want:   want,
		Got:    got,
	}
}
