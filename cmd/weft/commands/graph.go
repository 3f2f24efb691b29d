package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/weft-build/weft/internal/app"
)

func (c *CLI) newGraphCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "graph [config]",
		Short: "Analyze a configuration and print the dependency graph without building",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_ = cmd.Help()
				return nil
			}
			rb, err := c.app.Analyze(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), app.FormatGraph(rb))
			return nil
		},
	}
}
