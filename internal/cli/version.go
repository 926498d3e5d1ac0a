package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"blastpcr/internal/version"
)

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(_ *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(a.stdout, "blastpcr version %s\n", version.String())
			return err
		},
	}
}
