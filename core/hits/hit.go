// Package hits parses tabular aligner output into primer hits.
package hits

import "strings"

// Columns is the fixed field order of aligner output records.
var Columns = []string{
	"qseqid", "sseqid", "positive", "mismatch", "gaps", "evalue",
	"bitscore", "slen", "length", "qstart", "qend", "qseq", "sstart", "send", "sseq",
}

// Column indexes used by the parser.
const (
	colQSeqID   = 0
	colSSeqID   = 1
	colMismatch = 3
	colLength   = 8
	colQStart   = 9
	colQEnd     = 10
	colSSeq     = 14
)

// Header is the canonical header line (no terminator).
var Header = strings.Join(Columns, "\t")

// OutFmt is the blastn -outfmt value producing Columns.
var OutFmt = "6 " + strings.Join(Columns, " ")

// Hit is one accepted alignment of a primer (subject) on a sample contig (query).
// Start/End are 1-based inclusive query coordinates with Start <= End.
type Hit struct {
	Sample     string
	QueryID    string
	SubjectID  string
	Mismatch   int
	Start      int
	End        int
	Length     int
	SubjectSeq string
}

// Filter is the acceptance rule of the parser.
type Filter struct {
	Lengths     map[string]int // primer id -> sequence length
	MaxMismatch int
}

// Accept reports whether an alignment of length alnLen with mm mismatches
// passes for a primer of length primerLen.
func (f Filter) Accept(alnLen, primerLen, mm int) bool {
	return alnLen == primerLen && mm <= f.MaxMismatch
}

// Stats counts what a parse saw.
type Stats struct {
	Records  int // data lines
	Accepted int
	Rejected int
	Replaced int // accepted hits that replaced an earlier hit for the same primer
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Records += o.Records
	s.Accepted += o.Accepted
	s.Rejected += o.Rejected
	s.Replaced += o.Replaced
}
