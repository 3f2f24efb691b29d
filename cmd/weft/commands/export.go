package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [uuid]",
		Short: "Export a published build record as a tar+zstd bundle",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_ = cmd.Help()
				return nil
			}
			output, _ := cmd.Flags().GetString("output")
			path, err := c.app.Export(cmd.Context(), args[0], output)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", "", "Bundle file to write (defaults to weft-<uuid>.tar.zst)")
	return cmd
}
