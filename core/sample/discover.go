package sample

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"blastpcr/core/fasta"
	"blastpcr/core/fileio"
)

var seqExts = []string{".fasta", ".fa", ".fna", ".fas", ".fastq", ".fq"}

// BaseName strips the gzip suffix, the sequence extension and a trailing
// read-pair marker (_R1/_R2). ok is false for names without a sequence extension.
func BaseName(file string) (name string, ok bool) {
	name = filepath.Base(file)
	lower := strings.ToLower(name)
	if strings.HasSuffix(lower, ".gz") {
		name, lower = name[:len(name)-3], lower[:len(lower)-3]
	}
	for _, ext := range seqExts {
		if strings.HasSuffix(lower, ext) {
			name = name[:len(name)-len(ext)]
			ok = true
			break
		}
	}
	if !ok {
		return "", false
	}
	for _, r := range []string{"_R1", "_R2"} {
		if strings.HasSuffix(name, r) {
			name = strings.TrimSuffix(name, r)
			break
		}
	}
	return name, name != ""
}

// Discover lists samples under path. A regular file is a single sample; a
// directory groups its sequence files by BaseName. Sub-directories and
// non-sequence files are ignored. Samples are returned sorted by name.
func Discover(path string) ([]*Sample, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fileio.Wrap("stat", path, err)
	}
	if !fi.IsDir() {
		name, ok := BaseName(path)
		if !ok {
			name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		return []*Sample{New(name, path)}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fileio.Wrap("readdir", path, err)
	}
	groups := map[string][]string{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name, ok := BaseName(e.Name())
		if !ok {
			continue
		}
		groups[name] = append(groups[name], filepath.Join(path, e.Name()))
	}
	out := make([]*Sample, 0, len(groups))
	for name, files := range groups {
		out = append(out, New(name, files...))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out, nil
}

// Verify checks that every file of s is a sequence file of a single kind and
// records that kind on s.
func (s *Sample) Verify() error {
	if len(s.Files) == 0 {
		return fmt.Errorf("sample %s: no files", s.name)
	}
	for _, f := range s.Files {
		k, err := fasta.Verify(f)
		if err != nil {
			return fmt.Errorf("sample %s: %w", s.name, err)
		}
		if s.Kind != fasta.FormatUnknown && s.Kind != k {
			return fmt.Errorf("sample %s: mixed %s and %s files", s.name, s.Kind, k)
		}
		s.Kind = k
	}
	return nil
}
