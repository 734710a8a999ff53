package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newNewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new <name>",
		Short: "Create a new project skeleton",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return c.app.Scaffold(args[0])
		},
	}
}
