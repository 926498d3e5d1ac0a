// Package report renders amplicon records as the consolidated tab-separated report.
package report

import (
	"bufio"
	"fmt"
	"io"
	"runtime"
	"strconv"
	"strings"

	"blastpcr/core/amplicon"
)

// Columns of the consolidated report, in order.
var Columns = []string{
	"Sample", "Gene", "GenomeLocation", "AmpliconSize", "Contig",
	"ForwardPrimers", "ReversePrimers", "ForwardMismatches", "ReverseMismatches",
}

// Header is the tab-joined column line (no terminator).
var Header = strings.Join(Columns, "\t")

// NA fills the reverse fields of probe rows.
const NA = "N/A"

// ProbeSuffix is appended to the sample name on probe rows.
const ProbeSuffix = "_probe"

// LineEnding is the row terminator for the running platform.
var LineEnding = lineEnding(runtime.GOOS)

func lineEnding(goos string) string {
	if goos == "windows" {
		return "\r\n"
	}
	return "\n"
}

// Row is one report line.
type Row struct {
	Sample    string
	Gene      string
	Location  string
	Size      string
	Contig    string
	Forward   string
	Reverse   string
	ForwardMM string
	ReverseMM string
}

// Fields returns the row in column order.
func (r Row) Fields() []string {
	return []string{r.Sample, r.Gene, r.Location, r.Size, r.Contig, r.Forward, r.Reverse, r.ForwardMM, r.ReverseMM}
}

// IsProbe reports whether the row describes a probe.
func (r Row) IsProbe() bool { return strings.HasSuffix(r.Sample, ProbeSuffix) && r.Reverse == NA }

// Location formats an inclusive interval as "start-end".
func Location(start, end int) string {
	return strconv.Itoa(start) + "-" + strconv.Itoa(end)
}

// ParseLocation is the inverse of Location.
func ParseLocation(s string) (start, end int, err error) {
	a, b, ok := strings.Cut(s, "-")
	if !ok {
		return 0, 0, fmt.Errorf("location %q: want start-end", s)
	}
	if start, err = strconv.Atoi(a); err != nil {
		return 0, 0, fmt.Errorf("location %q: %w", s, err)
	}
	if end, err = strconv.Atoi(b); err != nil {
		return 0, 0, fmt.Errorf("location %q: %w", s, err)
	}
	return start, end, nil
}

// Rows returns the amplicon row of rec followed by one row per probe.
func Rows(rec amplicon.Record) []Row {
	out := make([]Row, 0, 1+len(rec.Probes))
	out = append(out, Row{
		Sample:    rec.Sample,
		Gene:      rec.Gene,
		Location:  Location(rec.Start, rec.End),
		Size:      strconv.Itoa(rec.Size),
		Contig:    rec.Contig,
		Forward:   rec.Forward,
		Reverse:   rec.Reverse,
		ForwardMM: strconv.Itoa(rec.ForwardMM),
		ReverseMM: strconv.Itoa(rec.ReverseMM),
	})
	for _, p := range rec.Probes {
		out = append(out, Row{
			Sample:    p.Sample + ProbeSuffix,
			Gene:      p.Gene,
			Location:  Location(p.Start, p.End),
			Size:      strconv.Itoa(p.Size),
			Contig:    p.Contig,
			Forward:   p.Probe,
			Reverse:   NA,
			ForwardMM: strconv.Itoa(p.Mismatch),
			ReverseMM: NA,
		})
	}
	return out
}

// TSVWriter writes the header once and then rows.
type TSVWriter struct {
	w      *bufio.Writer
	header bool
}

// NewTSVWriter wraps w. Call Flush when done.
func NewTSVWriter(w io.Writer) *TSVWriter {
	return &TSVWriter{w: bufio.NewWriter(w)}
}

func (t *TSVWriter) line(s string) error {
	_, err := t.w.WriteString(s + LineEnding)
	return err
}

// WriteHeader writes the header line if it has not been written yet.
func (t *TSVWriter) WriteHeader() error {
	if t.header {
		return nil
	}
	t.header = true
	return t.line(Header)
}

// Write emits the rows of rec.
func (t *TSVWriter) Write(rec amplicon.Record) error {
	if err := t.WriteHeader(); err != nil {
		return err
	}
	for _, r := range Rows(rec) {
		if err := t.line(strings.Join(r.Fields(), "\t")); err != nil {
			return err
		}
	}
	return nil
}

// Flush writes buffered data.
func (t *TSVWriter) Flush() error { return t.w.Flush() }

// WriteTSV writes the header and every record.
func WriteTSV(w io.Writer, recs []amplicon.Record) error {
	tw := NewTSVWriter(w)
	if err := tw.WriteHeader(); err != nil {
		return err
	}
	for _, rec := range recs {
		if err := tw.Write(rec); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// StreamTSV writes the header and then records as they arrive on in, until
// in is closed. On a write error the channel is drained.
func StreamTSV(w io.Writer, in <-chan amplicon.Record) error {
	tw := NewTSVWriter(w)
	err := tw.WriteHeader()
	for rec := range in {
		if err != nil {
			continue
		}
		err = tw.Write(rec)
	}
	if err != nil {
		return err
	}
	return tw.Flush()
}

// ReadTSV parses a report. The header line is required.
func ReadTSV(r io.Reader) ([]Row, error) {
	sc := bufio.NewScanner(r)
	var out []Row
	ln := 0
	for sc.Scan() {
		ln++
		line := strings.TrimRight(sc.Text(), "\r")
		if ln == 1 {
			if line != Header {
				return nil, fmt.Errorf("line 1: unexpected header %q", line)
			}
			continue
		}
		if line == "" {
			continue
		}
		f := strings.Split(line, "\t")
		if len(f) != len(Columns) {
			return nil, fmt.Errorf("line %d: want %d columns, got %d", ln, len(Columns), len(f))
		}
		out = append(out, Row{f[0], f[1], f[2], f[3], f[4], f[5], f[6], f[7], f[8]})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if ln == 0 {
		return nil, fmt.Errorf("empty report")
	}
	return out, nil
}
