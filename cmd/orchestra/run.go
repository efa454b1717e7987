// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"orchestra-cli/internal/executor"
	"orchestra-cli/internal/model"

	"github.com/spf13/cobra"
)

// errNoRepository is returned when cloning a component without a repository.
var errNoRepository = errors.New("component has no repository")

// selector picks the action a command runs for a requested build.
type selector func(b *model.Build) (model.Action, error)

func selectInstall(b *model.Build) (model.Action, error) { return b.Install, nil }

func selectConfigure(b *model.Build) (model.Action, error) { return b.Configure, nil }

func selectClone(b *model.Build) (model.Action, error) {
	if b.Component.Clone == nil {
		return nil, fmt.Errorf("%s: %w", b.Component.Name, errNoRepository)
	}
	return b.Component.Clone, nil
}

// bindRunFlags registers the flags shared by the commands that run actions.
func bindRunFlags(cmd *cobra.Command, opts *executor.Options) {
	cmd.Flags().BoolVar(&opts.NoDeps, "no-deps", false, "run only the requested actions, not their dependencies")
	cmd.Flags().BoolVarP(&opts.ShowOutput, "show-output", "s", false, "stream script output instead of capturing it")
	cmd.Flags().BoolVar(&opts.Pretend, "pretend", false, "print the plan without running anything")
}

// roots resolves the component references to the actions sel picks.
func (s *session) roots(names []string, sel selector) ([]model.Action, error) {
	roots := make([]model.Action, 0, len(names))
	for _, name := range names {
		b, err := s.index.Lookup(name)
		if err != nil {
			return nil, err
		}
		a, err := sel(b)
		if err != nil {
			return nil, err
		}
		roots = append(roots, a)
	}
	return roots, nil
}

// runActions executes the actions sel picks for names, or prints the plan
// when opts.Pretend is set.
func (a *App) runActions(cmd *cobra.Command, names []string, sel selector, opts executor.Options) error {
	ctx := cmd.Context()
	s, err := a.open(ctx)
	if err != nil {
		return a.fail(cmd, err)
	}
	roots, err := s.roots(names, sel)
	if err != nil {
		return a.fail(cmd, err)
	}

	ex := executor.New(roots, opts)
	if opts.Pretend {
		plan, err := ex.Plan()
		if err != nil {
			return a.fail(cmd, err)
		}
		for _, act := range plan {
			satisfied, err := act.IsSatisfied(ctx, false, nil)
			if err != nil {
				return a.fail(cmd, err)
			}
			mark := "[ ]"
			if satisfied {
				mark = SuccessStyle.Render("[x]")
			}
			fmt.Fprintf(a.stdout, "%s %s\n", mark, ActionStyle.Render(act.String()))
		}
		return nil
	}

	if err := ex.Run(ctx); err != nil {
		return a.fail(cmd, err)
	}
	for _, r := range roots {
		fmt.Fprintf(a.stdout, "%s %s\n", SuccessStyle.Render("done"), r)
	}
	return nil
}
