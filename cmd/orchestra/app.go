// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"orchestra-cli/internal/actions"
	"orchestra-cli/internal/config"
	"orchestra-cli/internal/index"
	"orchestra-cli/internal/logging"
	"orchestra-cli/internal/rootfs"
	"orchestra-cli/internal/script"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

type (
	// App is the composition root of the CLI. Every command handler receives
	// it and reaches configuration, the component index and the filesystem
	// through it.
	App struct {
		Config ConfigProvider
		Runner script.Runner
		FS     afero.Fs
		stdout io.Writer
		stderr io.Writer

		// Persistent flag values.
		verbose    bool
		configPath string
	}

	// Dependencies are the injection points of NewApp. Nil fields get
	// production defaults.
	Dependencies struct {
		Config ConfigProvider
		// Runner replaces the runner selected by options.shell.
		Runner script.Runner
		FS     afero.Fs
		Stdout io.Writer
		Stderr io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// session is the loaded state a single command works on.
	session struct {
		cfg   *config.Config
		host  *actions.Host
		index *index.Index
	}
)

// NewApp creates an App from deps.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config: deps.Config,
		Runner: deps.Runner,
		FS:     deps.FS,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.FS == nil {
		app.FS = rootfs.NewOsFs()
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	return app
}

// loadConfig reads the configuration and installs the logger it asks for.
func (a *App) loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: a.configPath})
	if err != nil {
		return nil, err
	}

	level := log.DebugLevel
	if !a.verbose {
		if level, err = logging.ParseLevel(cfg.Options.LogLevel); err != nil {
			return nil, fmt.Errorf("invalid options.log_level: %w", err)
		}
	}
	logging.Setup(a.stderr, level)
	return cfg, nil
}

// open loads the configuration and assembles the component index.
func (a *App) open(ctx context.Context) (*session, error) {
	cfg, err := a.loadConfig(ctx)
	if err != nil {
		return nil, err
	}

	runner := a.Runner
	if runner == nil {
		runner = script.NewRunner(script.Mode(cfg.Options.Shell))
	}
	host := actions.NewHost(cfg, runner, a.FS)
	host.Stdout = a.stdout
	host.Stderr = a.stderr

	ix, err := index.New(host)
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, host: host, index: ix}, nil
}

// fail renders err and returns the ExitError that ends the process with
// status 1. The error was already shown, so cobra must not print it again.
func (a *App) fail(cmd *cobra.Command, err error) error {
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	renderError(a.stderr, err, a.verbose)
	return &ExitError{Code: 1}
}
