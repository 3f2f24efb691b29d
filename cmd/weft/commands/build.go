package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/weft-build/weft/internal/app"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [config]",
		Short: "Run a distributed build from a configuration file",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				// Display command usage help without returning an error
				_ = cmd.Help()
				return nil
			}
			timeout, _ := cmd.Flags().GetDuration("timeout")
			parallelism, _ := cmd.Flags().GetInt("parallelism")

			result, err := c.app.Run(cmd.Context(), app.RunOptions{
				ConfigPath:  args[0],
				Timeout:     timeout,
				Parallelism: parallelism,
			})
			if result != nil {
				fmt.Fprintln(cmd.OutOrStdout(), "---- Build results:")
				fmt.Fprint(cmd.OutOrStdout(), result.Report)
			}
			return err
		},
	}
	cmd.Flags().Duration("timeout", 0, "Global pipeline timeout (0 uses the configured default)")
	cmd.Flags().IntP("parallelism", "p", 0, "Maximum concurrent project builds (0 means graph parallelism)")
	return cmd
}
