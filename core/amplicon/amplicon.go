// Package amplicon pairs forward, reverse and probe hits of a sample into
// amplicon records.
package amplicon

import (
	"sort"

	"blastpcr/core/hits"
	"blastpcr/core/primer"
)

// Source is the read-only view of a sample the assembler needs.
type Source interface {
	Name() string
	HitIDs() []string
	Hit(id string) (hits.Hit, bool)
}

// Record is one forward/reverse pair on a contig.
type Record struct {
	Sample    string
	Gene      string
	Start     int
	End       int
	Size      int
	Contig    string
	Forward   string
	Reverse   string
	ForwardMM int
	ReverseMM int
	Probes    []ProbeRecord
}

// ProbeRecord is a probe hit strictly inside an amplicon.
type ProbeRecord struct {
	Sample   string
	Gene     string
	Start    int
	End      int
	Size     int
	Contig   string
	Probe    string
	Mismatch int
}

// Options controls assembly.
type Options struct {
	// Less orders genes and primer ids. nil means byte-wise string order.
	Less func(a, b string) bool
	// ProbeSameContig rejects probes on a contig other than the amplicon's.
	ProbeSameContig bool
}

func (o Options) less() func(a, b string) bool {
	if o.Less != nil {
		return o.Less
	}
	return func(a, b string) bool { return a < b }
}

type group struct {
	fwd, rev, probe []string
}

// Assemble builds the amplicon records of src. Records are ordered by gene,
// then forward id, then reverse id; probes within a record by probe id.
func Assemble(src Source, opt Options) []Record {
	less := opt.less()
	groups := map[string]*group{}
	for _, id := range src.HitIDs() {
		gene, _, dir, ok := primer.ParseID(id)
		if !ok {
			continue
		}
		g := groups[gene]
		if g == nil {
			g = &group{}
			groups[gene] = g
		}
		switch dir {
		case primer.Forward:
			g.fwd = append(g.fwd, id)
		case primer.Reverse:
			g.rev = append(g.rev, id)
		case primer.Probe:
			g.probe = append(g.probe, id)
		}
	}

	genes := make([]string, 0, len(groups))
	for gene, g := range groups {
		if len(g.fwd) > 0 && len(g.rev) > 0 {
			genes = append(genes, gene)
		}
	}
	sortBy(genes, less)

	var out []Record
	for _, gene := range genes {
		g := groups[gene]
		sortBy(g.fwd, less)
		sortBy(g.rev, less)
		sortBy(g.probe, less)
		for _, fid := range g.fwd {
			f, _ := src.Hit(fid)
			for _, rid := range g.rev {
				r, _ := src.Hit(rid)
				if f.QueryID != r.QueryID {
					continue
				}
				rec := pair(src.Name(), gene, f, r)
				for _, pid := range g.probe {
					p, _ := src.Hit(pid)
					if opt.ProbeSameContig && p.QueryID != rec.Contig {
						continue
					}
					if !Contains(rec.Start, rec.End, p.Start, p.End) {
						continue
					}
					rec.Probes = append(rec.Probes, ProbeRecord{
						Sample:   rec.Sample,
						Gene:     gene,
						Start:    p.Start,
						End:      p.End,
						Size:     p.End - p.Start + 1,
						Contig:   rec.Contig,
						Probe:    pid,
						Mismatch: p.Mismatch,
					})
				}
				out = append(out, rec)
			}
		}
	}
	return out
}

func pair(sample, gene string, f, r hits.Hit) Record {
	lo, hi := f.Start, f.Start
	for _, v := range [...]int{f.End, r.Start, r.End} {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return Record{
		Sample:    sample,
		Gene:      gene,
		Start:     lo,
		End:       hi,
		Size:      hi - lo + 1,
		Contig:    f.QueryID,
		Forward:   f.SubjectID,
		Reverse:   r.SubjectID,
		ForwardMM: f.Mismatch,
		ReverseMM: r.Mismatch,
	}
}

// Contains reports whether [ps,pe] lies strictly inside [start,end].
func Contains(start, end, ps, pe int) bool {
	return ps > start && pe < end
}

func sortBy(s []string, less func(a, b string) bool) {
	sort.SliceStable(s, func(i, j int) bool { return less(s[i], s[j]) })
}

// Count returns the number of amplicon and probe records in recs.
func Count(recs []Record) (amplicons, probes int) {
	for _, r := range recs {
		amplicons++
		probes += len(r.Probes)
	}
	return amplicons, probes
}
