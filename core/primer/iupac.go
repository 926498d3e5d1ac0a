package primer

/* -------------------------- IUPAC lookup table -------------------------- */

// degenerate lists the concrete bases of every ambiguity code, in the fixed
// enumeration order used for expansion. Never mutated.
var degenerate = [256]string{
	'R': "AG",
	'Y': "CT",
	'S': "GC",
	'W': "AT",
	'K': "GT",
	'M': "AC",
	'B': "GCT",
	'D': "AGT",
	'H': "ACT",
	'V': "ACG",
	'N': "ACGT",
}

// Alphabet is the set of letters a primer sequence may contain.
const Alphabet = "ATCGRYSWKMBDHVN"

func isConcrete(c byte) bool { return c == 'A' || c == 'C' || c == 'G' || c == 'T' }

// IsDegenerate reports whether c is one of the eleven ambiguity codes.
func IsDegenerate(c byte) bool { return degenerate[c] != "" }

// Bases returns the concrete bases represented by an ambiguity code.
func Bases(c byte) (string, bool) {
	s := degenerate[c]
	return s, s != ""
}

// HasDegenerate reports whether seq contains at least one ambiguity code.
func HasDegenerate(seq string) bool {
	for i := 0; i < len(seq); i++ {
		if IsDegenerate(seq[i]) {
			return true
		}
	}
	return false
}

// Validate checks that seq is non-empty and uses only the 15-letter alphabet.
func Validate(id, seq string) error {
	if seq == "" {
		return &InvalidSequenceError{ID: id, Sequence: seq, Pos: -1}
	}
	for i := 0; i < len(seq); i++ {
		if c := seq[i]; !isConcrete(c) && !IsDegenerate(c) {
			return &InvalidSequenceError{ID: id, Sequence: seq, Pos: i}
		}
	}
	return nil
}
