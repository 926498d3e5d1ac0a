// Package sample models one sequenced sample and the primer hits found in it.
package sample

import (
	"sort"

	"blastpcr/core/fasta"
	"blastpcr/core/hits"
)

// Sample is a named group of sequence files plus the accepted hits per primer id.
type Sample struct {
	name  string
	Files []string // sorted
	Kind  fasta.Format

	hits map[string]hits.Hit
}

// New returns an empty sample.
func New(name string, files ...string) *Sample {
	fs := append([]string(nil), files...)
	sort.Strings(fs)
	return &Sample{name: name, Files: fs, hits: make(map[string]hits.Hit)}
}

// Name returns the sample name.
func (s *Sample) Name() string { return s.name }

// AddHit stores h under its primer id. A later hit for the same id replaces
// the earlier one; the return value reports whether that happened.
func (s *Sample) AddHit(h hits.Hit) bool {
	if s.hits == nil {
		s.hits = make(map[string]hits.Hit)
	}
	_, dup := s.hits[h.SubjectID]
	s.hits[h.SubjectID] = h
	return dup
}

// Hit returns the hit for primer id.
func (s *Sample) Hit(id string) (hits.Hit, bool) {
	h, ok := s.hits[id]
	return h, ok
}

// HitIDs returns the primer ids with a hit, sorted.
func (s *Sample) HitIDs() []string {
	ids := make([]string, 0, len(s.hits))
	for id := range s.hits {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len is the number of primers with a hit.
func (s *Sample) Len() int { return len(s.hits) }
