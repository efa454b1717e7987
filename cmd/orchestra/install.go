// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"orchestra-cli/internal/executor"

	"github.com/spf13/cobra"
)

func newInstallCommand(app *App) *cobra.Command {
	var opts executor.Options
	cmd := &cobra.Command{
		Use:   "install <component[~build]>...",
		Short: "Build and install components with their dependencies",
		Long: `Build and install components into the orchestra root.

A bare component name installs its default build unless another build of
the component is already installed. Dependencies are cloned, configured
and installed first.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runActions(cmd, args, selectInstall, opts)
		},
	}
	bindRunFlags(cmd, &opts)
	cmd.Flags().BoolVar(&opts.NoMerge, "no-merge", false, "stop after post-processing the staging root")
	return cmd
}
