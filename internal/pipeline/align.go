package pipeline

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"blastpcr/core/fasta"
	"blastpcr/core/fileio"
	"blastpcr/core/hits"
	"blastpcr/core/sample"
	"blastpcr/internal/aligner"
)

// alignSample searches one sample against db and loads the accepted hits
// into smp. Aligner output lands in <out>/detailed/<sample>/<sample>.tsv.
func alignSample(ctx context.Context, cfg Config, al aligner.Aligner, db string, smp *sample.Sample, f hits.Filter) (hits.Stats, error) {
	if err := smp.Verify(); err != nil {
		return hits.Stats{}, err
	}
	dir := filepath.Join(cfg.OutDir, DetailedDir, smp.Name())
	query, generated, err := queryFile(ctx, dir, smp)
	if err != nil {
		return hits.Stats{}, err
	}
	if generated && !cfg.KeepIntermediate {
		defer func() { _ = os.Remove(query) }()
	}

	out := filepath.Join(dir, smp.Name()+".tsv")
	if err := al.Search(ctx, db, query, out); err != nil {
		return hits.Stats{}, err
	}
	if err := hits.PrependHeader(out); err != nil {
		return hits.Stats{}, err
	}
	return hits.ParseFile(out, smp.Name(), f, sink(ctx, smp))
}

// queryFile returns a FASTA file blastn can read for smp. A single plain
// FASTA file is used as is; anything else (FASTQ, gzip, read pairs) is
// rewritten to <dir>/<sample>.query.fasta and generated is true.
func queryFile(ctx context.Context, dir string, smp *sample.Sample) (path string, generated bool, err error) {
	if smp.Kind == fasta.FormatFASTA && len(smp.Files) == 1 && !strings.HasSuffix(strings.ToLower(smp.Files[0]), ".gz") {
		return smp.Files[0], false, nil
	}
	path = filepath.Join(dir, smp.Name()+".query.fasta")
	err = fileio.WriteAtomic(path, func(w io.Writer) error {
		for _, f := range smp.Files {
			if _, err := fasta.ScanFile(ctx, f, func(r fasta.Record) error { return fasta.Write(w, r) }); err != nil {
				return err
			}
		}
		return nil
	})
	return path, true, err
}
