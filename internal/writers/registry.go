package writers

import (
	"fmt"
	"io"
	"sort"

	"blastpcr/core/amplicon"
)

// Report formats.
const (
	FormatTSV   = "tsv"
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
)

// StreamFunc consumes records from in until it is closed and writes them to w.
type StreamFunc func(w io.Writer, in <-chan amplicon.Record) error

// Writer registry (format -> handler). Registered from init() blocks; last wins.
var reportWriters = map[string]StreamFunc{}

// Register installs fn for format.
func Register(format string, fn StreamFunc) { reportWriters[format] = fn }

// Formats lists the registered formats, sorted.
func Formats() []string {
	out := make([]string, 0, len(reportWriters))
	for f := range reportWriters {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Lookup returns the handler for format.
func Lookup(format string) (StreamFunc, error) {
	fn, ok := reportWriters[format]
	if !ok {
		return nil, fmt.Errorf("unknown report format %q (no writer registered)", format)
	}
	return fn, nil
}

// Ext is the file extension used for format.
func Ext(format string) string { return "." + format }
