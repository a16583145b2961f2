package commands

import (
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func (c *CLI) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored cache entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			infos, err := c.app.List(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(infos) == 0 {
				_, _ = fmt.Fprintln(out, "no cache entries")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "KEY\tROOTS\tSIZE\tCODEC\tPRODUCER\tWRITTEN")
			for _, info := range infos {
				written := "-"
				if !info.Timestamp.IsZero() {
					written = info.Timestamp.UTC().Format(time.RFC3339)
				}
				_, _ = fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\n",
					info.Key, info.Roots, strconv.FormatInt(info.Size, 10), info.Codec, info.Producer, written)
			}
			return tw.Flush()
		},
	}
}
