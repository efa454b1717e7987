// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"os"
	"os/exec"

	"orchestra-cli/internal/script"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func newShellCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "shell <component[~build]>",
		Short: "Open a shell with the environment of a build",
		Long: `Start $SHELL with the environment the install script of a build runs
with. The shell starts in the build directory when it exists.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := app.open(ctx)
			if err != nil {
				return app.fail(cmd, err)
			}
			b, err := s.index.Lookup(args[0])
			if err != nil {
				return app.fail(cmd, err)
			}

			environ, err := script.Resolve(ctx, installEnvironment(b), os.Environ())
			if err != nil {
				return app.fail(cmd, err)
			}
			environ = append(environ, "PS1=(orchestra - "+b.QualifiedName()+") "+os.Getenv("PS1"))

			shell, err := userShell()
			if err != nil {
				return app.fail(cmd, err)
			}
			c := exec.CommandContext(ctx, shell)
			c.Env = environ
			c.Stdin = cmd.InOrStdin()
			c.Stdout = app.stdout
			c.Stderr = app.stderr

			buildDir := s.cfg.BuildDir(b.Component.Name, b.Name)
			if ok, _ := afero.DirExists(app.FS, buildDir); ok {
				c.Dir = buildDir
				c.Env = append(c.Env, "PWD="+buildDir)
			}

			if err := c.Run(); err != nil {
				var exitErr *exec.ExitError
				if errors.As(err, &exitErr) {
					cmd.SilenceErrors = true
					cmd.SilenceUsage = true
					return &ExitError{Code: exitErr.ExitCode()}
				}
				return app.fail(cmd, err)
			}
			return nil
		},
	}
}

// userShell returns $SHELL, falling back to bash and then sh.
func userShell() (string, error) {
	if sh := os.Getenv("SHELL"); sh != "" {
		return sh, nil
	}
	for _, name := range []string{"bash", "sh"} {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", errors.New("no shell found: set SHELL")
}
