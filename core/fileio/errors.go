package fileio

import (
	"errors"
	"fmt"
)

// ErrIO classifies every failure reported as *IOError.
var ErrIO = errors.New("io failure")

// IOError carries the operation and path of a failed file access.
type IOError struct {
	Op   string // open | read | write | rename | mkdir | close | remove
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrIO) match any IOError.
func (e *IOError) Is(target error) bool { return target == ErrIO }

// Wrap returns nil for a nil err, an unchanged *IOError, or a new *IOError.
func Wrap(op, path string, err error) error {
	if err == nil {
		return nil
	}
	var ioe *IOError
	if errors.As(err, &ioe) {
		return err
	}
	return &IOError{Op: op, Path: path, Err: err}
}
