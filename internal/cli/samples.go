package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"blastpcr/core/sample"
)

func newSamplesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "samples <input>",
		Short: "List the samples discovered under a file or directory",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(_ *cobra.Command, args []string) error {
			list, err := sample.Discover(args[0])
			if err != nil {
				return err
			}
			bw := bufio.NewWriter(a.stdout)
			_, _ = fmt.Fprintln(bw, "sample\tkind\tfiles")
			for _, s := range list {
				kind := "invalid"
				if err := s.Verify(); err != nil {
					a.log.Warn("sample rejected", "sample", s.Name(), "err", err)
				} else {
					kind = s.Kind.String()
				}
				_, _ = fmt.Fprintf(bw, "%s\t%s\t%s\n", s.Name(), kind, strings.Join(s.Files, ","))
			}
			return bw.Flush()
		},
	}
}
