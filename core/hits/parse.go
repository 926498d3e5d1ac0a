package hits

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"blastpcr/core/fileio"
)

// Parse reads tab-separated aligner records for one sample. Blank lines and
// header lines (first column "qseqid") are skipped. Each record is checked
// against f; accepted hits are handed to sink, which reports whether the hit
// replaced an earlier one for the same primer. An sseqid missing from
// f.Lengths aborts with *MissingPrimerError.
func Parse(r io.Reader, sample string, f Filter, sink func(Hit) bool) (Stats, error) {
	var st Stats
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	ln := 0
	for sc.Scan() {
		ln++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if fields[0] == Columns[0] {
			continue
		}
		if len(fields) != len(Columns) {
			return st, &ParseError{Line: ln, Err: fmt.Errorf("want %d columns, got %d", len(Columns), len(fields))}
		}
		st.Records++

		sseqid := fields[colSSeqID]
		primerLen, ok := f.Lengths[sseqid]
		if !ok {
			return st, &MissingPrimerError{Sample: sample, PrimerID: sseqid, Line: ln}
		}
		ints, err := atois(fields, colMismatch, colLength, colQStart, colQEnd)
		if err != nil {
			return st, &ParseError{Line: ln, Err: err}
		}
		mm, length, start, end := ints[0], ints[1], ints[2], ints[3]
		if !f.Accept(length, primerLen, mm) {
			st.Rejected++
			continue
		}
		if start > end {
			start, end = end, start
		}
		st.Accepted++
		if sink(Hit{
			Sample:     sample,
			QueryID:    fields[colQSeqID],
			SubjectID:  sseqid,
			Mismatch:   mm,
			Start:      start,
			End:        end,
			Length:     length,
			SubjectSeq: fields[colSSeq],
		}) {
			st.Replaced++
		}
	}
	if err := sc.Err(); err != nil {
		return st, err
	}
	return st, nil
}

func atois(fields []string, idx ...int) ([]int, error) {
	out := make([]int, len(idx))
	for i, c := range idx {
		v, err := strconv.Atoi(strings.TrimSpace(fields[c]))
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", Columns[c], err)
		}
		if v < 0 {
			return nil, fmt.Errorf("column %s: negative value %d", Columns[c], v)
		}
		out[i] = v
	}
	return out, nil
}

// ParseFile parses one aligner output file. An empty sample name is derived
// from the file name (see SampleName).
func ParseFile(path, sample string, f Filter, sink func(Hit) bool) (Stats, error) {
	if sample == "" {
		sample = SampleName(path)
	}
	rc, err := fileio.Open(path)
	if err != nil {
		return Stats{}, err
	}
	defer func() { _ = rc.Close() }()

	st, err := Parse(rc, sample, f, sink)
	var pe *ParseError
	switch {
	case err == nil:
	case errors.As(err, &pe):
		pe.Path = path
	case errors.Is(err, ErrMissingPrimer):
	default:
		err = fileio.Wrap("read", path, err)
	}
	return st, err
}

// SampleName is the base name of an aligner output file up to its first '.'.
func SampleName(path string) string {
	base := filepath.Base(path)
	if i := strings.IndexByte(base, '.'); i > 0 {
		return base[:i]
	}
	return base
}
