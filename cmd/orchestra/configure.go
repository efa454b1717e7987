// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"orchestra-cli/internal/executor"

	"github.com/spf13/cobra"
)

func newConfigureCommand(app *App) *cobra.Command {
	var opts executor.Options
	cmd := &cobra.Command{
		Use:   "configure <component[~build]>...",
		Short: "Prepare the build directory of components",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runActions(cmd, args, selectConfigure, opts)
		},
	}
	bindRunFlags(cmd, &opts)
	return cmd
}
