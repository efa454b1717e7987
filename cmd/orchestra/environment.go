// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"orchestra-cli/internal/actions"
	"orchestra-cli/internal/model"
	"orchestra-cli/internal/script"

	"github.com/spf13/cobra"
)

func newEnvironmentCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "environment <component[~build]>",
		Short: "Print the environment install scripts of a build run with",
		Long: `Print the export statements that precede the install script of a
build. The output can be sourced by a POSIX shell.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.open(cmd.Context())
			if err != nil {
				return app.fail(cmd, err)
			}
			b, err := s.index.Lookup(args[0])
			if err != nil {
				return app.fail(cmd, err)
			}
			fmt.Fprint(app.stdout, installEnvironment(b).Export())
			return nil
		},
	}
}

// installEnvironment returns the environment of the install script of b.
func installEnvironment(b *model.Build) *script.Env {
	if sa, ok := b.Install.(actions.Scripted); ok {
		return sa.Environment()
	}
	return script.NewEnv()
}
