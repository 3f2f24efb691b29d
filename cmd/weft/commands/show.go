package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/weft-build/weft/internal/app"
)

func (c *CLI) newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [uuid]",
		Short: "Print a published build record, or a run's journal with --events",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_ = cmd.Help()
				return nil
			}
			events, _ := cmd.Flags().GetBool("events")
			if events {
				// The argument is a run identifier, not a record identity.
				list, err := c.app.Events(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), app.FormatEvents(list))
				return nil
			}

			record, err := c.app.ShowRecord(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), record)
			return nil
		},
	}
	cmd.Flags().Bool("events", false, "Treat the argument as a run ID and print its journal events")
	return cmd
}
