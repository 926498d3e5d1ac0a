package cli

import (
	"github.com/spf13/cobra"

	"blastpcr/internal/aligner"
	"blastpcr/internal/config"
	"blastpcr/internal/pipeline"
)

func newRunCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [input]",
		Short: "Align primers against samples and write the amplicon report",
		Long: `run expands the primers, builds a BLAST database from them, searches every
sample found under the input (a sequence file or a directory of FASTA/FASTQ
files, optionally gzipped; _R1/_R2 files form one sample) and writes
<out-dir>/report.tsv plus per-sample BLAST output under <out-dir>/detailed.`,
		Example: `  blastpcr run -p primers.fasta -i assemblies/ -o results
  blastpcr run -p primers.tsv -m 0 --format jsonl reads/`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				a.cfg.Input = args[0]
			}
			if err := requirePaths(a.cfg, "primers", "input", "out-dir"); err != nil {
				return err
			}
			al := blastFrom(a.cfg)
			if err := al.Check(); err != nil {
				return err
			}
			res, err := pipeline.Run(cmd.Context(), a.pipelineConfig(), al, a.cfg.Primers, a.cfg.Input)
			if err != nil {
				return err
			}
			return a.noMatch(res)
		},
	}
	f := cmd.Flags()
	f.StringP("input", "i", "", "sample sequence file or directory")
	f.Bool("keep-intermediate", true, "keep generated per-sample query FASTA files")
	f.String("blast-bin-dir", "", "directory holding makeblastdb and blastn (default: $PATH)")
	f.String("blast-task", "blastn-short", "blastn -task")
	f.Float64("blast-evalue", 1000, "blastn -evalue")
	f.Int("blast-word-size", 7, "blastn -word_size")
	f.Int("blast-threads", 1, "blastn -num_threads per sample")
	for _, name := range []string{"input", "keep-intermediate", "blast-bin-dir", "blast-task", "blast-evalue", "blast-word-size", "blast-threads"} {
		a.bind(f, name)
	}
	return cmd
}

func blastFrom(cfg config.Config) aligner.BLAST {
	return aligner.BLAST{
		BinDir:   cfg.Blast.BinDir,
		Task:     cfg.Blast.Task,
		Evalue:   cfg.Blast.Evalue,
		WordSize: cfg.Blast.WordSize,
		Threads:  cfg.Blast.Threads,
	}
}

func (a *app) pipelineConfig() pipeline.Config {
	pc := pipeline.Config{
		OutDir:           a.cfg.OutDir,
		Mismatches:       a.cfg.Mismatches,
		Workers:          a.cfg.Workers,
		Format:           a.cfg.Format,
		MaxVariants:      a.cfg.MaxVariants,
		KeepIntermediate: a.cfg.KeepIntermediate,
		ProbeSameContig:  a.cfg.ProbeSameContig,
	}
	if !a.cfg.Quiet && isTerminal(a.stderr) {
		pc.Progress = a.stderr
	}
	return pc
}

func (a *app) noMatch(res pipeline.Result) error {
	if res.Amplicons > 0 {
		return nil
	}
	a.log.Warn("no amplicons found", "report", res.Report)
	if a.cfg.NoMatchExitCode == 0 {
		return nil
	}
	return &NoMatchError{Code: a.cfg.NoMatchExitCode}
}
