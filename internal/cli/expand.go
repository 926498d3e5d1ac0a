package cli

import (
	"bufio"

	"github.com/spf13/cobra"

	"blastpcr/core/primer"
	"blastpcr/internal/pipeline"
)

func newExpandCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "expand",
		Short: "Expand degenerate primers into the clean FASTA used for the BLAST database",
		Example: `  blastpcr expand -p primers.fasta
  blastpcr expand -p primers.tsv -O primer_tmp.fasta`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requirePaths(a.cfg, "primers"); err != nil {
				return err
			}
			list, st, err := pipeline.PreparePrimers(a.cfg.Primers, primer.ExpandOptions{MaxVariants: a.cfg.MaxVariants})
			if err != nil {
				return err
			}
			a.log.Info("primers expanded", "loaded", st.Loaded, "variants", st.Expanded)
			if output != "" && output != "-" {
				return primer.WriteFile(output, list)
			}
			bw := bufio.NewWriter(a.stdout)
			if err := primer.WriteFASTA(bw, list); err != nil {
				return err
			}
			return bw.Flush()
		},
	}
	cmd.Flags().StringVarP(&output, "output", "O", "-", "output file ('-' for stdout)")
	return cmd
}
