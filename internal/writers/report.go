package writers

import (
	"errors"
	"io"
	"syscall"

	"blastpcr/core/amplicon"
	"blastpcr/core/report"
)

func init() {
	Register(FormatTSV, report.StreamTSV)
	Register(FormatJSON, streamJSON)
	Register(FormatJSONL, streamJSONL)
}

// StartReportWriter spins up a writer goroutine for amplicon records in the
// given format. Close the returned channel when done and read the error.
func StartReportWriter(out io.Writer, format string, bufSize int) (chan<- amplicon.Record, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan amplicon.Record, bufSize)
	errCh := make(chan error, 1)

	fn, err := Lookup(format)
	go func() {
		if err != nil {
			for range in {
			}
			errCh <- err
			return
		}
		err := fn(out, in)
		for range in {
		}
		if IsBrokenPipe(err) {
			err = nil
		}
		errCh <- err
	}()
	return in, errCh
}

// IsBrokenPipe reports whether the consumer of a report closed its end early,
// as `blastpcr expand ... | head` does.
func IsBrokenPipe(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe)
}
