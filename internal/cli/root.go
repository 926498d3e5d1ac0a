// Package cli defines the blastpcr cobra commands.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"blastpcr/internal/config"
	"blastpcr/internal/ctxlog"
	"blastpcr/internal/version"
	"blastpcr/internal/writers"
)

// UsageError marks bad invocations (exit code 2).
type UsageError struct{ Err error }

func (e *UsageError) Error() string { return e.Err.Error() }
func (e *UsageError) Unwrap() error { return e.Err }

// NoMatchError is returned when a run finds no amplicons.
type NoMatchError struct{ Code int }

func (e *NoMatchError) Error() string { return "no amplicons found" }

// app is the state shared by all commands of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     config.Config
	log     *slog.Logger
	stdout  io.Writer
	stderr  io.Writer
}

// flagKeys maps flag names to config keys where they differ.
var flagKeys = map[string]string{
	"log-level":       "log.level",
	"log-format":      "log.format",
	"blast-bin-dir":   "blast.bin-dir",
	"blast-task":      "blast.task",
	"blast-evalue":    "blast.evalue",
	"blast-word-size": "blast.word-size",
	"blast-threads":   "blast.threads",
}

// NewRootCmd builds the command tree writing to stdout and stderr.
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{v: config.New(), stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "blastpcr",
		Short: "blastpcr: in-silico PCR amplicon detection with BLAST+",
		Long: `blastpcr expands degenerate primers, searches them against sample
assemblies or reads with BLAST+, and reports every forward/reverse primer
pair that lands on the same contig, with any probe strictly inside it.`,
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return &UsageError{Err: err} })

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "YAML config file")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-format", "text", "log format: text or json")
	pf.BoolP("quiet", "q", false, "only log errors and hide the progress bar")
	pf.StringP("primers", "p", "", "primer file: FASTA (>gene-F ...) or TSV (id fwd rev [probe])")
	pf.Int("max-variants", 4096, "maximum expansion variants per degenerate primer (0: unlimited)")
	pf.IntP("mismatches", "m", 1, "maximum mismatches for a hit to be accepted")
	pf.StringP("out-dir", "o", "blastpcr_out", "output directory")
	pf.String("format", writers.FormatTSV, "report format: tsv, json or jsonl")
	pf.IntP("workers", "j", 0, "samples processed in parallel (0: number of CPUs)")
	pf.Int("no-match-exit-code", 1, "exit code when no amplicon is found")
	pf.Bool("probe-same-contig", false, "only report probes on the amplicon's contig")
	for _, name := range []string{"log-level", "log-format", "quiet", "primers", "max-variants", "mismatches",
		"out-dir", "format", "workers", "no-match-exit-code", "probe-same-contig"} {
		a.bind(pf, name)
	}

	root.AddCommand(
		newRunCmd(a),
		newAssembleCmd(a),
		newExpandCmd(a),
		newSamplesCmd(a),
		newVersionCmd(a),
	)
	return root
}

func (a *app) bind(fs *pflag.FlagSet, name string) {
	key := name
	if k, ok := flagKeys[name]; ok {
		key = k
	}
	if err := a.v.BindPFlag(key, fs.Lookup(name)); err != nil {
		panic(fmt.Sprintf("bind %s: %v", name, err))
	}
}

// setup loads and validates the configuration and installs the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	level := cfg.Log.Level
	if cfg.Quiet {
		level = "error"
	}
	log, err := ctxlog.New(level, cfg.Log.Format, a.stderr)
	if err != nil {
		return &UsageError{Err: err}
	}
	a.cfg, a.log = cfg, log
	cmd.SetContext(ctxlog.WithLogger(cmd.Context(), log))
	return nil
}

func usageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return &UsageError{Err: err}
		}
		return nil
	}
}

func requirePaths(cfg config.Config, keys ...string) error {
	if err := cfg.RequirePaths(keys...); err != nil {
		return &UsageError{Err: err}
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}
