package primer

import (
	"errors"
	"fmt"
)

// ErrInvalidSequence classifies every primer validation failure.
var ErrInvalidSequence = errors.New("invalid primer sequence")

// InvalidSequenceError reports a primer whose sequence holds a character
// outside the IUPAC alphabet (Pos is the 0-based offset, -1 when empty).
type InvalidSequenceError struct {
	ID       string
	Sequence string
	Pos      int
}

func (e *InvalidSequenceError) Error() string {
	if e.Pos < 0 {
		return fmt.Sprintf("primer %s: empty sequence", e.ID)
	}
	return fmt.Sprintf("primer %s: invalid base %q at %d in %s; allowed: %s",
		e.ID, e.Sequence[e.Pos], e.Pos+1, e.Sequence, Alphabet)
}

func (e *InvalidSequenceError) Is(target error) bool { return target == ErrInvalidSequence }

// DuplicateIDError reports two primers (input or expansion variants) sharing an id.
type DuplicateIDError struct {
	ID string
}

func (e *DuplicateIDError) Error() string { return fmt.Sprintf("duplicate primer id %q", e.ID) }

func (e *DuplicateIDError) Is(target error) bool { return target == ErrInvalidSequence }

// TooManyVariantsError reports a primer whose expansion exceeds the configured cap.
type TooManyVariantsError struct {
	ID    string
	Count int
	Max   int
}

func (e *TooManyVariantsError) Error() string {
	if e.Max <= 0 {
		return fmt.Sprintf("primer %s expands to too many variants (more than %d)", e.ID, maxInt)
	}
	return fmt.Sprintf("primer %s expands to %d variants (max %d)", e.ID, e.Count, e.Max)
}

func (e *TooManyVariantsError) Is(target error) bool { return target == ErrInvalidSequence }
