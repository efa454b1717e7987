// SPDX-License-Identifier: MPL-2.0

package actions

import (
	"context"
	"fmt"
	"log/slog"

	"orchestra-cli/internal/model"
)

// InstallAnyBuildAction stands for "some build of this component": when any
// build is installed it delegates to that build's install action, otherwise
// to the requested build's. It never runs anything itself.
type InstallAnyBuildAction struct {
	host  *Host
	build *model.Build
}

// NewInstallAnyBuildAction creates the install-any action preferring build.
func NewInstallAnyBuildAction(host *Host, build *model.Build) *InstallAnyBuildAction {
	return &InstallAnyBuildAction{host: host, build: build}
}

// Kind returns model.KindInstallAny.
func (a *InstallAnyBuildAction) Kind() model.Kind { return model.KindInstallAny }

// Build returns the requested build, not necessarily the one delegated to.
func (a *InstallAnyBuildAction) Build() *model.Build { return a.build }

// String implements fmt.Stringer.
func (a *InstallAnyBuildAction) String() string {
	return fmt.Sprintf("%s %s (prefer %s)", model.KindInstallAny, a.build.Component.Name, a.build.Name)
}

// Target returns the install action this action delegates to. It is resolved
// on every call, since installing a build changes the answer.
func (a *InstallAnyBuildAction) Target() (model.Action, error) {
	component := a.build.Component
	name, ok, err := a.host.Store.Installed(component.Name)
	if err != nil {
		return nil, err
	}
	if ok && name != a.build.Name {
		if installed := component.Build(name); installed != nil {
			return installed.Install, nil
		}
		slog.Warn("installed build is no longer configured", "component", component.Name, "build", name)
	}
	return a.build.Install, nil
}

// Dependencies returns the target install action.
func (a *InstallAnyBuildAction) Dependencies() ([]model.Action, error) {
	target, err := a.Target()
	if err != nil {
		return nil, err
	}
	return []model.Action{target}, nil
}

// IsSatisfied delegates to the target.
func (a *InstallAnyBuildAction) IsSatisfied(ctx context.Context, recursive bool, cache *model.SatisfactionCache) (bool, error) {
	target, err := a.Target()
	if err != nil {
		return false, err
	}
	return target.IsSatisfied(ctx, recursive, cache)
}

// Run does nothing; the target carries the work.
func (a *InstallAnyBuildAction) Run(context.Context, model.RunOptions) error {
	return nil
}
