package hits

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"blastpcr/core/fileio"
)

// PrependHeader rewrites path so that it starts with the single canonical
// Header line; header lines already present anywhere in the file are dropped.
// The rewrite is atomic. The source is read and closed before the rename, so
// it never replaces a file that is still open.
func PrependHeader(path string) error {
	rc, err := fileio.Open(path)
	if err != nil {
		return err
	}
	data, err := io.ReadAll(rc)
	if cerr := rc.Close(); err == nil && cerr != nil {
		err = cerr
	}
	if err != nil {
		return fileio.Wrap("read", path, err)
	}

	return fileio.WriteAtomic(path, func(w io.Writer) error {
		return CopyWithHeader(w, bytes.NewReader(data))
	})
}

// CopyWithHeader writes Header and then every non-header line of r to w.
func CopyWithHeader(w io.Writer, r io.Reader) error {
	if _, err := io.WriteString(w, Header+"\n"); err != nil {
		return err
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, Columns[0]+"\t") || line == Columns[0] {
			continue
		}
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return err
		}
	}
	return sc.Err()
}
