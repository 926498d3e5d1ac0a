// Package fasta reads FASTA/FASTQ sequence files and writes FASTA records.
package fasta

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"blastpcr/core/fileio"
)

// Record is one parsed sequence record.
type Record struct {
	ID  string
	Seq []byte
}

// Format is the record layout of a sequence file.
type Format int

const (
	FormatUnknown Format = iota
	FormatFASTA
	FormatFASTQ
)

func (f Format) String() string {
	switch f {
	case FormatFASTA:
		return "fasta"
	case FormatFASTQ:
		return "fastq"
	}
	return "unknown"
}

// ErrNotSequence is returned when a file does not start with '>' or '@'.
var ErrNotSequence = errors.New("not a FASTA/FASTQ file")

const maxLine = 64 * 1024 * 1024 // allow very long single-line sequences (64 MiB)

func newScanner(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLine)
	return sc
}

// Sniff reports the format of the first non-empty line in br without consuming it.
func Sniff(br *bufio.Reader) (Format, error) {
	for {
		b, err := br.Peek(1)
		if err != nil {
			if err == io.EOF {
				return FormatUnknown, ErrNotSequence
			}
			return FormatUnknown, err
		}
		switch b[0] {
		case '>':
			return FormatFASTA, nil
		case '@':
			return FormatFASTQ, nil
		case '\n', '\r', ' ', '\t':
			_, _ = br.ReadByte()
		default:
			return FormatUnknown, ErrNotSequence
		}
	}
}

// Scan parses FASTA or FASTQ from r (detected from the first record marker)
// and calls emit for each record. It returns promptly when ctx is done.
func Scan(ctx context.Context, r io.Reader, emit func(Record) error) (Format, error) {
	br := bufio.NewReaderSize(r, 64*1024)
	format, err := Sniff(br)
	if err != nil {
		return format, err
	}
	if format == FormatFASTQ {
		return format, scanFASTQ(ctx, br, emit)
	}
	return format, scanFASTA(ctx, br, emit)
}

func scanFASTA(ctx context.Context, r io.Reader, emit func(Record) error) error {
	sc := newScanner(r)
	var (
		id   string
		seq  = make([]byte, 0, 1<<16)
		have bool
	)
	flush := func() error {
		if !have {
			return nil
		}
		return emit(Record{ID: id, Seq: append([]byte(nil), seq...)})
	}

	for sc.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			if err := flush(); err != nil {
				return err
			}
			id, have = parseHeaderID(line[1:]), true
			seq = seq[:0]
			continue
		}
		seq = append(seq, line...)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("fasta scan: %w", err)
	}
	return flush()
}

func scanFASTQ(ctx context.Context, r io.Reader, emit func(Record) error) error {
	sc := newScanner(r)
	ln := 0
	next := func() ([]byte, bool) {
		for sc.Scan() {
			ln++
			if line := bytes.TrimSpace(sc.Bytes()); len(line) > 0 {
				return line, true
			}
		}
		return nil, false
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		hdr, ok := next()
		if !ok {
			break
		}
		if hdr[0] != '@' {
			return fmt.Errorf("fastq line %d: expected '@' header", ln)
		}
		id := parseHeaderID(hdr[1:])
		seq, ok := next()
		if !ok {
			return fmt.Errorf("fastq record %q: missing sequence", id)
		}
		seq = append([]byte(nil), seq...)
		plus, ok := next()
		if !ok || plus[0] != '+' {
			return fmt.Errorf("fastq record %q: missing '+' separator", id)
		}
		if _, ok := next(); !ok {
			return fmt.Errorf("fastq record %q: missing quality line", id)
		}
		if err := emit(Record{ID: id, Seq: seq}); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("fastq scan: %w", err)
	}
	return nil
}

// ScanFile opens path (gzip aware) and scans it. Open and read failures are
// reported as *fileio.IOError.
func ScanFile(ctx context.Context, path string, emit func(Record) error) (Format, error) {
	rc, err := fileio.Open(path)
	if err != nil {
		return FormatUnknown, err
	}
	defer func() { _ = rc.Close() }()

	format, err := Scan(ctx, rc, emit)
	if errors.Is(err, ErrNotSequence) {
		return format, fmt.Errorf("%s: %w", path, err)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return format, fileio.Wrap("read", path, err)
	}
	return format, err
}

// Verify checks that path starts like a FASTA or FASTQ file.
func Verify(path string) (Format, error) {
	rc, err := fileio.Open(path)
	if err != nil {
		return FormatUnknown, err
	}
	defer func() { _ = rc.Close() }()
	format, err := Sniff(bufio.NewReader(rc))
	if err != nil {
		return format, fmt.Errorf("%s: %w", path, err)
	}
	return format, nil
}

func parseHeaderID(hdr []byte) string {
	hdr = bytes.TrimSpace(hdr)
	if i := bytes.IndexAny(hdr, " \t"); i >= 0 {
		return string(hdr[:i])
	}
	return string(hdr)
}
