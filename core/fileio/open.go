// Package fileio holds the scoped file access shared by the core packages:
// gzip-aware readers and all-or-nothing writers.
package fileio

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// multiReadCloser closes multiple io.Closers when Close() is called.
type multiReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiReadCloser) Close() error {
	var err error
	for _, c := range m.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// IsGzip reports whether the first two bytes of br are the gzip magic number.
func IsGzip(br *bufio.Reader) bool {
	sig, err := br.Peek(2)
	return err == nil && sig[0] == 0x1f && sig[1] == 0x8b
}

// Open opens path for reading, transparently decompressing gzip input
// (detected by magic number or a .gz suffix). "-" reads stdin.
func Open(path string) (io.ReadCloser, error) {
	if path == "-" {
		return Reader(io.NopCloser(os.Stdin), false)
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, Wrap("open", path, err)
	}
	rc, err := Reader(fh, strings.HasSuffix(path, ".gz"))
	if err != nil {
		_ = fh.Close()
		return nil, Wrap("read", path, err)
	}
	return rc, nil
}

// Reader wraps rc so that gzip content is decompressed. forceGzip skips the
// magic-number check.
func Reader(rc io.ReadCloser, forceGzip bool) (io.ReadCloser, error) {
	br := bufio.NewReaderSize(rc, 64*1024)
	if !forceGzip && !IsGzip(br) {
		return &multiReadCloser{Reader: br, closers: []io.Closer{rc}}, nil
	}
	gr, err := gzip.NewReader(br)
	if err != nil {
		return nil, err
	}
	return &multiReadCloser{Reader: gr, closers: []io.Closer{gr, rc}}, nil
}
