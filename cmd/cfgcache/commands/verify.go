package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <key>",
		Short: "Decode a cache entry and report its roots and problems",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			roots, problems, err := c.app.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "%s: %d root(s), %d problem(s)\n", args[0], len(roots), len(problems))
			for i, root := range roots {
				_, _ = fmt.Fprintf(out, "  root %d: %T\n", i, root)
			}
			for _, p := range problems {
				_, _ = fmt.Fprintf(out, "  problem: %s\n", p.String())
			}
			return nil
		},
	}
}
