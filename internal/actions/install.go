// SPDX-License-Identifier: MPL-2.0

package actions

import (
	"context"
	"fmt"
	"log/slog"

	"orchestra-cli/internal/config"
	"orchestra-cli/internal/model"
	"orchestra-cli/internal/postprocess"
	"orchestra-cli/internal/rootfs"
	"orchestra-cli/internal/script"
)

// InstallAction builds a build into the staging root, post-processes the
// result and merges it into the orchestra root.
type InstallAction struct {
	base
	resolver Resolver
}

// NewInstallAction creates the install action of build.
func NewInstallAction(host *Host, build *model.Build, resolver Resolver, bc *config.BuildConfig) *InstallAction {
	return &InstallAction{
		base:     base{host: host, build: build, script: bc.Install, env: bc.Environment},
		resolver: resolver,
	}
}

// Kind returns model.KindInstall.
func (a *InstallAction) Kind() model.Kind { return model.KindInstall }

// String implements fmt.Stringer.
func (a *InstallAction) String() string {
	return fmt.Sprintf("%s %s", model.KindInstall, a.build.QualifiedName())
}

// Environment adds DESTDIR, pointing at the staging root, to the build environment.
func (a *InstallAction) Environment() *script.Env {
	env := a.base.Environment()
	env.Set("DESTDIR", "$TMP_ROOT")
	return env
}

// Dependencies returns the build's own configure action followed by its dependencies.
func (a *InstallAction) Dependencies() ([]model.Action, error) {
	deps, err := resolveAll(a.resolver, a.build.Dependencies)
	if err != nil {
		return nil, err
	}
	return append([]model.Action{a.build.Configure}, deps...), nil
}

// IsSatisfied reports whether the manifest records exactly this build.
func (a *InstallAction) IsSatisfied(ctx context.Context, recursive bool, cache *model.SatisfactionCache) (bool, error) {
	return model.CheckSatisfied(ctx, a, a.installed, recursive, cache)
}

func (a *InstallAction) installed(context.Context) (bool, error) {
	build, ok, err := a.host.Store.Installed(a.build.Component.Name)
	if err != nil {
		return false, err
	}
	return ok && build == a.build.Name, nil
}

// Run performs the install transaction unless this build is already installed.
// Every step aborts the run on failure; the manifest is written last. The
// host filesystem must be OS-backed since the binary passes use host paths.
func (a *InstallAction) Run(ctx context.Context, opts model.RunOptions) error {
	if ok, err := a.installed(ctx); err != nil || ok {
		return err
	}
	if err := rootfs.RequireHost(a.host.FS); err != nil {
		return fmt.Errorf("cannot install %s: %w", a.build.QualifiedName(), err)
	}

	var (
		cfg       = a.host.Config
		fsys      = a.host.FS
		component = a.build.Component.Name
		qualified = a.build.QualifiedName()
		root      = cfg.Paths.OrchestraRoot
		prefix    = rootfs.StagingPrefix(cfg.Paths.TmpRoot, root)
	)

	slog.Info("preparing staging root", "build", qualified, "prefix", prefix)
	if err := rootfs.PrepareStaging(fsys, cfg.Paths.TmpRoot, prefix); err != nil {
		return err
	}
	pre, err := rootfs.Snapshot(fsys, prefix)
	if err != nil {
		return err
	}

	slog.Info("running install script", "build", qualified)
	if err := a.runScript(ctx, a.String(), a.Environment(), a.workDir(), opts); err != nil {
		return err
	}

	post, err := rootfs.Snapshot(fsys, prefix)
	if err != nil {
		return err
	}
	newPaths := rootfs.Difference(post, pre)

	if err := a.postprocess(prefix); err != nil {
		return err
	}

	if opts.NoMerge {
		slog.Info("skipping merge", "build", qualified, "staged", len(newPaths))
		return nil
	}

	installed, err := a.host.Store.Exists(component)
	if err != nil {
		return err
	}
	if installed {
		slog.Info("removing previous installation", "component", component)
		if err := Uninstall(fsys, a.host.Store, root, component); err != nil {
			return err
		}
	}

	slog.Info("merging into orchestra root", "build", qualified, "paths", len(newPaths))
	if err := rootfs.Merge(fsys, prefix, root); err != nil {
		return fmt.Errorf("failed to merge %s: %w", qualified, err)
	}
	return a.host.Store.Write(component, qualified, newPaths)
}

// postprocess runs the passes that make the staged tree relocatable.
func (a *InstallAction) postprocess(prefix string) error {
	cfg := a.host.Config

	converted, err := postprocess.HardlinksToSymlinks(prefix)
	if err != nil {
		return err
	}
	slog.Debug("converted hard links", "count", converted)

	needles := []string{cfg.Options.RPathPlaceholder, cfg.Paths.OrchestraRoot}
	if err := postprocess.FixRPaths(prefix, needles); err != nil {
		return err
	}
	return postprocess.PatchNDEBUG(a.host.FS, prefix, cfg.Options.EnableDebugging)
}

// workDir is BUILD_DIR when configure has created it.
func (a *InstallAction) workDir() string {
	dir := a.buildDir()
	if ok, err := dirExists(a.host.FS, dir); err != nil || !ok {
		return ""
	}
	return dir
}
