package primer

import "strconv"

const (
	maxInt = int(^uint(0) >> 1)
	// maxPrealloc bounds slice and map preallocation during expansion.
	maxPrealloc = 1 << 16
)

// Primer is one oligo entry of a primer set.
type Primer struct {
	ID  string
	Seq string
}

// Count returns the number of concrete variants of seq: the product of the
// base-set sizes of its degenerate positions (1 for a concrete sequence).
// Overflow saturates at the maximum int.
func Count(seq string) int {
	n := 1
	for i := 0; i < len(seq); i++ {
		if b, ok := Bases(seq[i]); ok {
			if n > maxInt/len(b) {
				return maxInt
			}
			n *= len(b)
		}
	}
	return n
}

// Expand returns every concrete variant of seq. Positions are resolved by
// index from left to right, so the leftmost degenerate position varies
// slowest. seq is assumed valid (see Validate); non-IUPAC letters are copied
// through unchanged.
func Expand(seq string) []string {
	out := make([]string, 0, min(Count(seq), maxPrealloc))
	buf := []byte(seq)
	var walk func(i int)
	walk = func(i int) {
		for ; i < len(buf); i++ {
			if bases, ok := Bases(seq[i]); ok {
				for j := 0; j < len(bases); j++ {
					buf[i] = bases[j]
					walk(i + 1)
				}
				buf[i] = seq[i]
				return
			}
		}
		out = append(out, string(buf))
	}
	walk(0)
	return out
}

// ExpandOptions tunes ExpandAll.
type ExpandOptions struct {
	// MaxVariants bounds the variants of a single primer; 0 = unlimited.
	MaxVariants int
}

// ExpandAll validates the whole batch, then replaces every degenerate primer
// by its variants "<id>_<n>" (n from 0, in Expand order) at the primer's
// position. Concrete primers pass through under their own id. On any error
// nothing is returned.
func ExpandAll(list []Primer, opt ExpandOptions) ([]Primer, error) {
	total := 0
	for _, p := range list {
		if err := Validate(p.ID, p.Seq); err != nil {
			return nil, err
		}
		n := Count(p.Seq)
		if opt.MaxVariants > 0 && n > opt.MaxVariants {
			return nil, &TooManyVariantsError{ID: p.ID, Count: n, Max: opt.MaxVariants}
		}
		if n == maxInt || total > maxInt-n {
			return nil, &TooManyVariantsError{ID: p.ID, Count: n, Max: opt.MaxVariants}
		}
		total += n
	}

	out := make([]Primer, 0, min(total, maxPrealloc))
	seen := make(map[string]struct{}, min(total, maxPrealloc))
	add := func(p Primer) error {
		if _, dup := seen[p.ID]; dup {
			return &DuplicateIDError{ID: p.ID}
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
		return nil
	}
	for _, p := range list {
		if !HasDegenerate(p.Seq) {
			if err := add(p); err != nil {
				return nil, err
			}
			continue
		}
		for i, v := range Expand(p.Seq) {
			if err := add(Primer{ID: p.ID + "_" + strconv.Itoa(i), Seq: v}); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// Lengths maps every primer id to its sequence length.
func Lengths(list []Primer) map[string]int {
	m := make(map[string]int, len(list))
	for _, p := range list {
		m[p.ID] = len(p.Seq)
	}
	return m
}
