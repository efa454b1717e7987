// SPDX-License-Identifier: MPL-2.0

package actions

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"orchestra-cli/internal/config"
	"orchestra-cli/internal/manifest"
	"orchestra-cli/internal/model"
	"orchestra-cli/internal/script"

	"github.com/spf13/afero"
)

type (
	// Resolver turns dependency strings into actions. "c" resolves to the
	// install-any action of c's default build, "c~b" to the install action of
	// exactly that build.
	Resolver interface {
		Resolve(dependency string) (model.Action, error)
	}

	// Host bundles the collaborators every action needs.
	Host struct {
		Config *config.Config
		Runner script.Runner
		FS     afero.Fs
		Store  *manifest.Store
		// Stdout and Stderr receive streamed script output.
		Stdout io.Writer
		Stderr io.Writer
	}

	// Scripted is implemented by actions that run a script, exposing the
	// environment the script sees.
	Scripted interface {
		model.Action
		Script() string
		Environment() *script.Env
	}

	// base holds what script-running actions share.
	base struct {
		host   *Host
		build  *model.Build
		script string
		env    []config.Variable
	}
)

// NewHost wires a Host for cfg. Manifests live in cfg.InstalledIndexDir on fsys.
func NewHost(cfg *config.Config, runner script.Runner, fsys afero.Fs) *Host {
	return &Host{
		Config: cfg,
		Runner: runner,
		FS:     fsys,
		Store:  manifest.NewStore(fsys, cfg.InstalledIndexDir()),
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Build returns the build the action belongs to.
func (b *base) Build() *model.Build {
	return b.build
}

// Script returns the script text.
func (b *base) Script() string {
	return b.script
}

// Environment returns the global environment extended with SOURCE_DIR,
// BUILD_DIR and the build's own variables.
func (b *base) Environment() *script.Env {
	cfg := b.host.Config
	env := cfg.GlobalEnv()
	env.Set("SOURCE_DIR", cfg.SourceDir(b.build.Component.Name))
	env.Set("BUILD_DIR", cfg.BuildDir(b.build.Component.Name, b.build.Name))
	for _, v := range b.env {
		env.Set(v.Name, v.Value)
	}
	return env
}

func (b *base) buildDir() string {
	return b.host.Config.BuildDir(b.build.Component.Name, b.build.Name)
}

// runScript executes the script with env in dir.
func (b *base) runScript(ctx context.Context, action string, env *script.Env, dir string, opts model.RunOptions) error {
	slog.Debug("running script", "action", action, "runner", b.host.Runner.Name(), "dir", dir)
	result := b.host.Runner.Run(ctx, script.Request{
		Script:     b.script,
		Env:        env,
		Dir:        dir,
		ShowOutput: opts.ShowOutput,
		Stdout:     b.host.Stdout,
		Stderr:     b.host.Stderr,
	})
	if err := result.Err(); err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}
	return nil
}

// resolveAll resolves deps in order, dropping duplicates.
func resolveAll(r Resolver, deps ...[]string) ([]model.Action, error) {
	var out []model.Action
	seen := make(map[model.Action]bool)
	for _, list := range deps {
		for _, dep := range list {
			a, err := r.Resolve(dep)
			if err != nil {
				return nil, err
			}
			if !seen[a] {
				seen[a] = true
				out = append(out, a)
			}
		}
	}
	return out, nil
}

// dirExists reports whether path is an existing directory on fsys.
func dirExists(fsys afero.Fs, path string) (bool, error) {
	ok, err := afero.DirExists(fsys, path)
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return ok, nil
}
