package storage

import (
	"errors"
	"fmt"
)

// ErrIO matches every *IOError via errors.Is.
var ErrIO = errors.New("storage i/o failure")

// IOError reports a file or database that cannot be opened, read or written.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func (e *IOError) Is(target error) bool { return target == ErrIO }
