// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

type componentsFilter struct {
	installed    bool
	notInstalled bool
	deps         bool
}

func newComponentsCommand(app *App) *cobra.Command {
	var filter componentsFilter
	cmd := &cobra.Command{
		Use:   "components",
		Short: "List configured components and their builds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.open(cmd.Context())
			if err != nil {
				return app.fail(cmd, err)
			}
			md, err := s.componentsMarkdown(filter)
			if err != nil {
				return app.fail(cmd, err)
			}

			out := md
			if isTerminal(app.stdout) {
				if out, err = glamour.Render(md, "dark"); err != nil {
					return app.fail(cmd, err)
				}
			}
			fmt.Fprint(app.stdout, out)
			return nil
		},
	}
	cmd.Flags().BoolVar(&filter.installed, "installed", false, "only list installed components")
	cmd.Flags().BoolVar(&filter.notInstalled, "not-installed", false, "only list components that are not installed")
	cmd.Flags().BoolVar(&filter.deps, "deps", false, "show the dependencies of every build")
	cmd.MarkFlagsMutuallyExclusive("installed", "not-installed")
	return cmd
}

// componentsMarkdown renders the component list as markdown.
func (s *session) componentsMarkdown(filter componentsFilter) (string, error) {
	var sb strings.Builder
	sb.WriteString("# Components\n")

	for _, comp := range s.index.Components() {
		installed, err := s.index.InstalledBuild(comp)
		if err != nil {
			return "", err
		}
		if (filter.installed && installed == nil) || (filter.notInstalled && installed != nil) {
			continue
		}

		fmt.Fprintf(&sb, "\n## %s\n\n", comp.Name)
		if installed != nil {
			fmt.Fprintf(&sb, "Installed build: `%s`\n\n", installed.Name)
		} else {
			sb.WriteString("Not installed\n\n")
		}

		for _, b := range comp.Builds {
			fmt.Fprintf(&sb, "- `%s`", b.Name)
			if b.IsDefault() {
				sb.WriteString(" (default)")
			}
			sb.WriteString("\n")
			if filter.deps {
				writeDeps(&sb, "dependencies", b.Dependencies)
				writeDeps(&sb, "build dependencies", b.BuildDependencies)
			}
		}
	}
	return sb.String(), nil
}

func writeDeps(sb *strings.Builder, label string, deps []string) {
	if len(deps) == 0 {
		return
	}
	quoted := make([]string, len(deps))
	for i, d := range deps {
		quoted[i] = "`" + d + "`"
	}
	fmt.Fprintf(sb, "  - %s: %s\n", label, strings.Join(quoted, ", "))
}

