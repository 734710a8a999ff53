package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/cuv/internal/app"
)

func (c *CLI) newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Scan the project and print the module build order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			plan, err := c.app.Plan(cmd.Context(), buildOptions(cmd))
			if err != nil {
				return err
			}
			cmd.Print(app.FormatOrder(plan))
			return nil
		},
	}
	cmd.Flags().IntP("jobs", "j", 0, "Number of parallel jobs (0 = one per CPU)")
	cmd.Flags().BoolP("no-cache", "n", false, "Plan as if the fingerprint cache were empty")
	return cmd
}
