package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Scan, plan and build the project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := buildOptions(cmd)
			opts.EmitOnly, _ = cmd.Flags().GetBool("emit-only")
			return c.app.Build(cmd.Context(), opts)
		},
	}
	cmd.Flags().IntP("jobs", "j", 0, "Number of parallel jobs (0 = one per CPU)")
	cmd.Flags().BoolP("no-cache", "n", false, "Bypass the fingerprint cache and rebuild everything")
	cmd.Flags().Bool("emit-only", false, "Write the build file without invoking the executor")
	return cmd
}
