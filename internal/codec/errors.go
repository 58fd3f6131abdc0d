package codec

import (
	"errors"
	"fmt"
)

// ErrFormat matches every *FormatError via errors.Is.
var ErrFormat = errors.New("malformed expense record")

// FormatError reports a persisted record that cannot be parsed.
type FormatError struct {
	Line  int    // 1-based line or row number, 0 when unknown
	Field string // "fields", "amount" or "date"
	Text  string // offending input
	Err   error
}

func (e *FormatError) Error() string {
	msg := fmt.Sprintf("invalid %s %q", e.Field, e.Text)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, msg)
	}
	return msg
}

func (e *FormatError) Unwrap() error { return e.Err }

func (e *FormatError) Is(target error) bool { return target == ErrFormat }

// AtLine returns a copy of err with Line set when err is a *FormatError,
// otherwise err unchanged.
func AtLine(err error, line int) error {
	var fe *FormatError
	if errors.As(err, &fe) {
		cp := *fe
		cp.Line = line
		return &cp
	}
	return err
}
