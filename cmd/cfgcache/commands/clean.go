package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean [key...]",
		Short: "Remove cache entries",
		Long:  "Remove the given cache entries, or every entry when no key is given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := c.app.Clean(cmd.Context(), args...)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "removed %d entries\n", n)
			return err
		},
	}
}
