package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"blastpcr/core/amplicon"
	"blastpcr/core/fasta"
	"blastpcr/core/fileio"
	"blastpcr/core/hits"
	"blastpcr/core/primer"
	"blastpcr/core/sample"
	"blastpcr/internal/aligner"
	"blastpcr/internal/ctxlog"
	"blastpcr/internal/progress"
	"blastpcr/internal/summary"
	"blastpcr/internal/version"
	"blastpcr/internal/writers"
)

// Output layout inside Config.OutDir.
const (
	CleanPrimersName = "primer_tmp.fasta"
	DetailedDir      = "detailed"
	ReportBase       = "report"
)

// Config controls a batch.
type Config struct {
	OutDir           string
	Mismatches       int
	Workers          int // 0: number of CPUs
	Format           string
	MaxVariants      int
	KeepIntermediate bool
	ProbeSameContig  bool

	// Progress, when non-nil, receives a per-sample progress bar.
	Progress io.Writer
}

func (c Config) workers(n int) int {
	w := c.Workers
	if w <= 0 {
		w = runtime.NumCPU()
	}
	return max(1, min(w, n))
}

// ReportPath is the consolidated report location for c.
func (c Config) ReportPath() string {
	format := c.Format
	if format == "" {
		format = writers.FormatTSV
	}
	return filepath.Join(c.OutDir, ReportBase+writers.Ext(format))
}

// SampleError attributes a failure to one sample.
type SampleError struct {
	Sample string
	Err    error
}

func (e *SampleError) Error() string { return fmt.Sprintf("sample %s: %v", e.Sample, e.Err) }
func (e *SampleError) Unwrap() error { return e.Err }

// Result describes a finished batch.
type Result struct {
	Report    string
	Amplicons int
	Probes    int
	Summary   summary.Summary
}

// outcome is one worker's slot; workers never share one.
type outcome struct {
	name    string
	info    summary.Sample
	records []amplicon.Record
	err     error
}

// unit is one sample's work: produce hits into smp and report the stats.
type unit struct {
	smp *sample.Sample
	run func(ctx context.Context, smp *sample.Sample) (hits.Stats, error)
}

// Run executes the whole batch for the samples discovered under input.
// Per-sample failures do not stop other samples: the report is written for
// the samples that succeeded and the failures are returned joined.
func Run(ctx context.Context, cfg Config, al aligner.Aligner, primersPath, input string) (Result, error) {
	started := time.Now()
	log := ctxlog.FromContext(ctx)

	list, pstats, err := PreparePrimers(primersPath, primer.ExpandOptions{MaxVariants: cfg.MaxVariants})
	if err != nil {
		return Result{}, err
	}
	samples, err := sample.Discover(input)
	if err != nil {
		return Result{}, err
	}
	if len(samples) == 0 {
		return Result{}, fmt.Errorf("no sequence files found in %s", input)
	}
	log.Info("inputs", "primers", pstats.Loaded, "variants", pstats.Expanded, "samples", len(samples))

	clean := filepath.Join(cfg.OutDir, CleanPrimersName)
	if err := primer.WriteFile(clean, list); err != nil {
		return Result{}, err
	}
	db, err := al.BuildDB(ctx, clean)
	if err != nil {
		return Result{}, fmt.Errorf("build primer database: %w", err)
	}
	log.Debug("primer database ready", "db", db)

	filter := hits.Filter{Lengths: primer.Lengths(list), MaxMismatch: cfg.Mismatches}
	units := make([]unit, len(samples))
	for i, smp := range samples {
		units[i] = unit{smp: smp, run: func(ctx context.Context, smp *sample.Sample) (hits.Stats, error) {
			return alignSample(ctx, cfg, al, db, smp, filter)
		}}
	}
	return execute(ctx, cfg, units, pstats, started)
}

// execute fans the units out and reduces their records into the report.
func execute(ctx context.Context, cfg Config, units []unit, pstats summary.Primers, started time.Time) (Result, error) {
	log := ctxlog.FromContext(ctx)
	slots := make([]outcome, len(units))
	bar := progress.Start(cfg.Progress, len(units), cfg.Progress != nil)

	var g errgroup.Group
	g.SetLimit(cfg.workers(len(units)))
	for i := range units {
		i := i
		g.Go(func() error {
			defer bar.Increment()
			if err := ctx.Err(); err != nil {
				return err
			}
			slots[i] = process(ctx, cfg, units[i])
			return nil
		})
	}
	err := g.Wait()
	bar.Finish()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Report: cfg.ReportPath(),
		Summary: summary.Summary{
			Version:    version.String(),
			StartedAt:  started.UTC(),
			Mismatches: cfg.Mismatches,
			Primers:    pstats,
		},
	}
	var failures []error
	for _, o := range slots {
		res.Summary.Samples = append(res.Summary.Samples, o.info)
		if o.err != nil {
			log.Error("sample failed", "sample", o.name, "err", o.err)
			failures = append(failures, &SampleError{Sample: o.name, Err: o.err})
		}
	}

	if err := writeReport(res.Report, cfg.Format, slots); err != nil {
		return Result{}, err
	}
	res.Summary.Report = filepath.Base(res.Report)
	res.Summary.FinishedAt = time.Now().UTC()
	res.Summary.Finalize()
	res.Amplicons, res.Probes = res.Summary.Amplicons, res.Summary.Probes
	if err := summary.Write(filepath.Join(cfg.OutDir, summary.FileName), res.Summary); err != nil {
		return Result{}, err
	}
	log.Info("report written", "path", res.Report, "amplicons", res.Amplicons, "probes", res.Probes, "failed", len(failures))
	return res, errors.Join(failures...)
}

func process(ctx context.Context, cfg Config, u unit) outcome {
	log := ctxlog.FromContext(ctx).With("sample", u.smp.Name())
	o := outcome{
		name: u.smp.Name(),
		info: summary.Sample{Name: u.smp.Name(), Files: u.smp.Files},
	}
	st, err := u.run(ctxlog.WithLogger(ctx, log), u.smp)
	o.info.SetStats(st)
	if u.smp.Kind != fasta.FormatUnknown {
		o.info.Kind = u.smp.Kind.String()
	}
	if err != nil {
		o.err = err
		o.info.Error = err.Error()
		return o
	}
	o.records = amplicon.Assemble(u.smp, amplicon.Options{ProbeSameContig: cfg.ProbeSameContig})
	o.info.Amplicons, o.info.Probes = amplicon.Count(o.records)
	log.Info("sample done", "accepted", st.Accepted, "rejected", st.Rejected, "amplicons", o.info.Amplicons, "probes", o.info.Probes)
	return o
}

// sink stores hits on smp and logs replacements.
func sink(ctx context.Context, smp *sample.Sample) func(hits.Hit) bool {
	log := ctxlog.FromContext(ctx)
	return func(h hits.Hit) bool {
		replaced := smp.AddHit(h)
		if replaced {
			log.Debug("hit replaced", "primer", h.SubjectID, "contig", h.QueryID, "start", h.Start, "end", h.End)
		}
		return replaced
	}
}

// writeReport is the serial reducer: successful samples in slot order, which
// is ascending sample name.
func writeReport(path, format string, slots []outcome) error {
	if format == "" {
		format = writers.FormatTSV
	}
	if _, err := writers.Lookup(format); err != nil {
		return err
	}
	return fileio.WriteAtomic(path, func(w io.Writer) error {
		in, done := writers.StartReportWriter(w, format, 64)
		for _, o := range slots {
			if o.err != nil {
				continue
			}
			for _, rec := range o.records {
				in <- rec
			}
		}
		close(in)
		return <-done
	})
}
