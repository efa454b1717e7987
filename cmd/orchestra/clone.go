// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"orchestra-cli/internal/executor"

	"github.com/spf13/cobra"
)

func newCloneCommand(app *App) *cobra.Command {
	var opts executor.Options
	cmd := &cobra.Command{
		Use:   "clone <component>...",
		Short: "Clone the sources of components",
		Long: `Clone the sources of components into the sources directory.

The configured remotes are tried in declaration order.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runActions(cmd, args, selectClone, opts)
		},
	}
	cmd.Flags().BoolVarP(&opts.ShowOutput, "show-output", "s", false, "stream git output instead of capturing it")
	cmd.Flags().BoolVar(&opts.Pretend, "pretend", false, "print the plan without running anything")
	return cmd
}
