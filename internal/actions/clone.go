// SPDX-License-Identifier: MPL-2.0

package actions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"orchestra-cli/internal/model"

	"mvdan.cc/sh/v3/syntax"
)

// ErrNoRemotes is returned when a component with a repository has no remote to clone from.
var ErrNoRemotes = errors.New("no remotes configured")

// CloneAction fetches the sources of a component into SOURCE_DIR.
type CloneAction struct {
	base
	urls   []string
	branch string
}

// NewCloneAction creates the clone action of build's component. urls are
// tried in order.
func NewCloneAction(host *Host, build *model.Build, urls []string, branch string) *CloneAction {
	a := &CloneAction{
		base:   base{host: host, build: build},
		urls:   urls,
		branch: branch,
	}
	a.script = a.render()
	return a
}

// Kind returns model.KindClone.
func (a *CloneAction) Kind() model.Kind { return model.KindClone }

// String implements fmt.Stringer.
func (a *CloneAction) String() string {
	return fmt.Sprintf("%s %s", model.KindClone, a.build.Component.Name)
}

// URLs returns the clone URLs in the order they are tried.
func (a *CloneAction) URLs() []string {
	return append([]string(nil), a.urls...)
}

// Dependencies returns nothing; cloning needs no other action.
func (a *CloneAction) Dependencies() ([]model.Action, error) {
	return nil, nil
}

// IsSatisfied reports whether SOURCE_DIR holds a git checkout.
func (a *CloneAction) IsSatisfied(ctx context.Context, recursive bool, cache *model.SatisfactionCache) (bool, error) {
	return model.CheckSatisfied(ctx, a, a.cloned, recursive, cache)
}

func (a *CloneAction) cloned(context.Context) (bool, error) {
	return dirExists(a.host.FS, filepath.Join(a.sourceDir(), ".git"))
}

// Run clones the repository unless it is already present.
func (a *CloneAction) Run(ctx context.Context, opts model.RunOptions) error {
	if ok, err := a.cloned(ctx); err != nil || ok {
		return err
	}
	if len(a.urls) == 0 {
		return fmt.Errorf("%s: %w", a, ErrNoRemotes)
	}
	if err := a.host.FS.MkdirAll(filepath.Dir(a.sourceDir()), 0o755); err != nil {
		return fmt.Errorf("failed to create sources directory: %w", err)
	}
	slog.Info("cloning", "component", a.build.Component.Name, "remotes", len(a.urls))
	return a.runScript(ctx, a.String(), a.Environment(), "", opts)
}

func (a *CloneAction) sourceDir() string {
	return a.host.Config.SourceDir(a.build.Component.Name)
}

// render builds a script trying every URL in turn.
func (a *CloneAction) render() string {
	if len(a.urls) == 0 {
		return ""
	}
	attempts := make([]string, 0, len(a.urls))
	for _, url := range a.urls {
		var sb strings.Builder
		sb.WriteString("git clone")
		if a.branch != "" {
			sb.WriteString(" --branch ")
			sb.WriteString(quote(a.branch))
		}
		sb.WriteString(" ")
		sb.WriteString(quote(url))
		sb.WriteString(` "$SOURCE_DIR"`)
		attempts = append(attempts, sb.String())
	}
	return strings.Join(attempts, " ||\n  ") + "\n"
}

// quote renders s as a single shell word.
func quote(s string) string {
	q, err := syntax.Quote(s, syntax.LangBash)
	if err != nil {
		// Quote only fails on NUL bytes.
		return "''"
	}
	return q
}
