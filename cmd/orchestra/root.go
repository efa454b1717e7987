// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "orchestra",
		Short: "A source-based meta package manager",
		Long: TitleStyle.Render("orchestra") + SubtitleStyle.Render(" - A source-based meta package manager") + `

orchestra clones, configures, builds and installs components into a
single root directory. Components and their builds are declared in a
CUE configuration file; every build lists the components it depends on.

` + SubtitleStyle.Render("Examples:") + `
  orchestra components              List configured components
  orchestra install curl            Install curl and its dependencies
  orchestra install zlib~debug      Install a specific build
  orchestra uninstall curl          Remove the files curl installed
  orchestra shell zlib              Open a shell with the build environment`,
		SilenceUsage: true,
	}

	root.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "enable debug logging and full error chains")
	root.PersistentFlags().StringVar(&app.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/orchestra/config.cue)")

	root.AddCommand(
		newInstallCommand(app),
		newUninstallCommand(app),
		newConfigureCommand(app),
		newCloneCommand(app),
		newComponentsCommand(app),
		newGraphCommand(app),
		newEnvironmentCommand(app),
		newShellCommand(app),
		newDumpConfigCommand(app),
	)
	return root
}

func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI and exits with the status of the failed command.
func Execute() {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
