// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"orchestra-cli/internal/actions"

	"github.com/spf13/cobra"
)

func newUninstallCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "uninstall <component>...",
		Short: "Remove the files installed by components",
		Long: `Remove every file listed in the manifest of each component from the
orchestra root. Directories are kept while other components still own
files below them.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.open(cmd.Context())
			if err != nil {
				return app.fail(cmd, err)
			}

			for _, name := range args {
				b, err := s.index.Lookup(name)
				if err != nil {
					return app.fail(cmd, err)
				}
				comp := b.Component.Name
				if err := actions.Uninstall(s.host.FS, s.host.Store, s.cfg.Paths.OrchestraRoot, comp); err != nil {
					return app.fail(cmd, err)
				}
				fmt.Fprintf(app.stdout, "%s uninstall %s\n", SuccessStyle.Render("done"), comp)
			}
			return nil
		},
	}
}
