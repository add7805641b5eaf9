package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newPackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pack [dir]",
		Short: "Pack the whole profile into its archive without the picker",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profileName, _ := cmd.Flags().GetString("profile")

			res, err := c.components.App.Pack(cmd.Context(), workDir(args), profileName)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "wrote %s (%d files", res.Output, res.Files)
			if len(res.Skipped) > 0 {
				_, _ = fmt.Fprintf(out, ", %d skipped", len(res.Skipped))
			}
			_, _ = fmt.Fprintln(out, ")")
			return nil
		},
	}
}
