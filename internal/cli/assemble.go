package cli

import (
	"github.com/spf13/cobra"

	"blastpcr/internal/pipeline"
)

func newAssembleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "assemble <hits-dir>",
		Short: "Build the report from existing BLAST tabular output",
		Long: `assemble reads <hits-dir>/<sample>/<sample>.tsv (the layout run writes under
<out-dir>/detailed) or <hits-dir>/*.tsv and writes the report without running
BLAST. The primer file is still needed for primer lengths.`,
		Example: `  blastpcr assemble -p primers.fasta results/detailed -o rerun`,
		Args:    usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePaths(a.cfg, "primers", "out-dir"); err != nil {
				return err
			}
			res, err := pipeline.AssembleDir(cmd.Context(), a.pipelineConfig(), a.cfg.Primers, args[0])
			if err != nil {
				return err
			}
			return a.noMatch(res)
		},
	}
}
