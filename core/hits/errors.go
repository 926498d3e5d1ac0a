package hits

import (
	"errors"
	"fmt"
)

// ErrMissingPrimer classifies hits that reference an unknown primer id.
var ErrMissingPrimer = errors.New("missing primer")

// MissingPrimerError reports a record whose sseqid is absent from the primer table.
type MissingPrimerError struct {
	Sample   string
	PrimerID string
	Line     int
}

func (e *MissingPrimerError) Error() string {
	return fmt.Sprintf("sample %s line %d: hit references unknown primer %q", e.Sample, e.Line, e.PrimerID)
}

func (e *MissingPrimerError) Is(target error) bool { return target == ErrMissingPrimer }

// ParseError reports a malformed aligner record.
type ParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
