package fileio

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
)

// WriteAtomic writes path through fill. The content goes to a temporary file in
// the same directory which is renamed over path only after fill and every
// flush/sync/close succeed. On failure nothing is left behind and any existing
// file at path is untouched.
func WriteAtomic(path string, fill func(w io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Wrap("mkdir", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return Wrap("create", path, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	bw := bufio.NewWriterSize(tmp, 64*1024)
	if err = fill(bw); err != nil {
		return Wrap("write", path, err)
	}
	if err = bw.Flush(); err != nil {
		return Wrap("write", tmpName, err)
	}
	if err = tmp.Sync(); err != nil {
		return Wrap("sync", tmpName, err)
	}
	if err = tmp.Close(); err != nil {
		return Wrap("close", tmpName, err)
	}
	if err = os.Chmod(tmpName, 0o644); err != nil {
		return Wrap("chmod", tmpName, err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return Wrap("rename", path, err)
	}
	return nil
}
