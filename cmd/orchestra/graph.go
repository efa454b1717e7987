// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"orchestra-cli/internal/executor"

	"github.com/spf13/cobra"
)

func newGraphCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "graph <component[~build]>...",
		Short: "Print the install plan as a Graphviz DOT graph",
		Long: `Print the dependency graph of installing the given components in
Graphviz DOT format. Edges point from an action to what it depends on.

  orchestra graph curl | dot -Tsvg > curl.svg`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.open(cmd.Context())
			if err != nil {
				return app.fail(cmd, err)
			}
			roots, err := s.roots(args, selectInstall)
			if err != nil {
				return app.fail(cmd, err)
			}
			if err := executor.New(roots, executor.Options{}).WriteDOT(app.stdout); err != nil {
				return app.fail(cmd, err)
			}
			return nil
		},
	}
}
