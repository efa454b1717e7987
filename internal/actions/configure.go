// SPDX-License-Identifier: MPL-2.0

package actions

import (
	"context"
	"fmt"
	"log/slog"

	"orchestra-cli/internal/config"
	"orchestra-cli/internal/model"
)

// ConfigureAction prepares BUILD_DIR for a build.
type ConfigureAction struct {
	base
	resolver Resolver
}

// NewConfigureAction creates the configure action of build.
func NewConfigureAction(host *Host, build *model.Build, resolver Resolver, bc *config.BuildConfig) *ConfigureAction {
	return &ConfigureAction{
		base:     base{host: host, build: build, script: bc.Configure, env: bc.Environment},
		resolver: resolver,
	}
}

// Kind returns model.KindConfigure.
func (a *ConfigureAction) Kind() model.Kind { return model.KindConfigure }

// String implements fmt.Stringer.
func (a *ConfigureAction) String() string {
	return fmt.Sprintf("%s %s", model.KindConfigure, a.build.QualifiedName())
}

// Dependencies returns the component's clone, if any, followed by the build's
// dependencies and build dependencies.
func (a *ConfigureAction) Dependencies() ([]model.Action, error) {
	deps, err := resolveAll(a.resolver, a.build.Dependencies, a.build.BuildDependencies)
	if err != nil {
		return nil, err
	}
	if clone := a.build.Component.Clone; clone != nil {
		deps = append([]model.Action{clone}, deps...)
	}
	return deps, nil
}

// IsSatisfied reports whether BUILD_DIR exists.
func (a *ConfigureAction) IsSatisfied(ctx context.Context, recursive bool, cache *model.SatisfactionCache) (bool, error) {
	return model.CheckSatisfied(ctx, a, a.configured, recursive, cache)
}

func (a *ConfigureAction) configured(context.Context) (bool, error) {
	return dirExists(a.host.FS, a.buildDir())
}

// Run creates BUILD_DIR and runs the configure script inside it. BUILD_DIR is
// removed again when the script fails, so the action stays unsatisfied.
func (a *ConfigureAction) Run(ctx context.Context, opts model.RunOptions) error {
	if ok, err := a.configured(ctx); err != nil || ok {
		return err
	}

	dir := a.buildDir()
	if err := a.host.FS.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create build directory %s: %w", dir, err)
	}

	slog.Info("configuring", "build", a.build.QualifiedName(), "dir", dir)
	if err := a.runScript(ctx, a.String(), a.Environment(), dir, opts); err != nil {
		if rmErr := a.host.FS.RemoveAll(dir); rmErr != nil {
			slog.Warn("failed to remove build directory", "dir", dir, "error", rmErr)
		}
		return err
	}
	return nil
}
