package primer

import "strings"

// Direction is the role of a primer within its gene's assay.
type Direction int

const (
	Unknown Direction = iota
	Forward
	Reverse
	Probe
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Reverse:
		return "reverse"
	case Probe:
		return "probe"
	}
	return "unknown"
}

// DirectionOf classifies a direction token by its first character
// (F, R or P; "F_2" is a forward expansion variant).
func DirectionOf(token string) Direction {
	if token == "" {
		return Unknown
	}
	switch token[0] {
	case 'F':
		return Forward
	case 'R':
		return Reverse
	case 'P':
		return Probe
	}
	return Unknown
}

// ParseID splits "<gene>-<direction>" on the last '-'. ok is false when the
// id has no '-' at all.
func ParseID(id string) (gene, token string, dir Direction, ok bool) {
	i := strings.LastIndexByte(id, '-')
	if i < 0 {
		return "", "", Unknown, false
	}
	gene, token = id[:i], id[i+1:]
	return gene, token, DirectionOf(token), true
}
