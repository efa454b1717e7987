// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"orchestra-cli/internal/config"

	"github.com/spf13/cobra"
)

func newDumpConfigCommand(app *App) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "dumpconfig",
		Short: "Print the effective configuration",
		Long: `Print the configuration after defaults and ORCHESTRA_* environment
overrides have been applied.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context())
			if err != nil {
				return app.fail(cmd, err)
			}
			if err := config.Dump(app.stdout, cfg, format); err != nil {
				return app.fail(cmd, err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", config.FormatYAML, "output format (yaml, toml)")
	return cmd
}
