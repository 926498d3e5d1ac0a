package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"blastpcr/core/fileio"
	"blastpcr/core/hits"
	"blastpcr/core/primer"
	"blastpcr/core/sample"
	"blastpcr/internal/ctxlog"
)

// HitFile is one existing aligner output file and the sample it belongs to.
type HitFile struct {
	Sample string
	Path   string
}

// FindHitFiles lists aligner outputs under dir: <dir>/<s>/<s>.tsv for each
// sub-directory s, plus any <dir>/*.tsv (sample named by flatSampleName).
func FindHitFiles(dir string) ([]HitFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fileio.Wrap("readdir", dir, err)
	}
	seen := map[string]string{}
	var out []HitFile
	add := func(name, path string) error {
		if prev, dup := seen[name]; dup {
			return fmt.Errorf("sample %s: both %s and %s", name, prev, path)
		}
		seen[name] = path
		out = append(out, HitFile{Sample: name, Path: path})
		return nil
	}
	for _, e := range entries {
		switch {
		case e.IsDir():
			p := filepath.Join(dir, e.Name(), e.Name()+".tsv")
			if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
				if err := add(e.Name(), p); err != nil {
					return nil, err
				}
			}
		case strings.HasSuffix(e.Name(), ".tsv"):
			p := filepath.Join(dir, e.Name())
			if err := add(flatSampleName(e.Name()), p); err != nil {
				return nil, err
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sample < out[j].Sample })
	return out, nil
}

// flatSampleName names a flat <name>.tsv the way Discover names its input:
// dots inside the name are kept, and a sequence extension left before .tsv
// (s1.fastq.gz.tsv) is stripped with sample.BaseName.
func flatSampleName(file string) string {
	name := strings.TrimSuffix(file, ".tsv")
	if base, ok := sample.BaseName(name); ok {
		return base
	}
	return name
}

// AssembleDir builds the report from aligner outputs already on disk,
// without running the aligner.
func AssembleDir(ctx context.Context, cfg Config, primersPath, dir string) (Result, error) {
	started := time.Now()
	list, pstats, err := PreparePrimers(primersPath, primer.ExpandOptions{MaxVariants: cfg.MaxVariants})
	if err != nil {
		return Result{}, err
	}
	files, err := FindHitFiles(dir)
	if err != nil {
		return Result{}, err
	}
	if len(files) == 0 {
		return Result{}, fmt.Errorf("no aligner output (*.tsv) found in %s", dir)
	}
	ctxlog.FromContext(ctx).Info("inputs", "primers", pstats.Loaded, "variants", pstats.Expanded, "samples", len(files))

	filter := hits.Filter{Lengths: primer.Lengths(list), MaxMismatch: cfg.Mismatches}
	units := make([]unit, len(files))
	for i, hf := range files {
		path := hf.Path
		units[i] = unit{smp: sample.New(hf.Sample, path), run: func(ctx context.Context, smp *sample.Sample) (hits.Stats, error) {
			return hits.ParseFile(path, smp.Name(), filter, sink(ctx, smp))
		}}
	}
	return execute(ctx, cfg, units, pstats, started)
}
