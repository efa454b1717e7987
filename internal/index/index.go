// SPDX-License-Identifier: MPL-2.0

// Package index assembles the Component/Build/Action model from the
// configuration and resolves component references against it.
package index

import (
	"errors"
	"fmt"
	"strings"

	"orchestra-cli/internal/actions"
	"orchestra-cli/internal/issue"
	"orchestra-cli/internal/model"

	"github.com/agext/levenshtein"
)

// maxSuggestionDistance bounds how different a suggested name may be.
const maxSuggestionDistance = 4

var (
	// ErrComponentNotFound is returned when a reference names an unknown component.
	ErrComponentNotFound = errors.New("component not found")
	// ErrBuildNotFound is returned when a reference names an unknown build.
	ErrBuildNotFound = errors.New("build not found")
)

// Index is the assembled model. It is immutable once built.
type Index struct {
	host       *actions.Host
	components []*model.Component
	byName     map[string]*model.Component
}

// New builds the model for the components of host.Config, in declaration
// order. Every dependency reference is checked up front.
func New(host *actions.Host) (*Index, error) {
	cfg := host.Config
	ix := &Index{
		host:   host,
		byName: make(map[string]*model.Component, len(cfg.Components)),
	}

	for ci := range cfg.Components {
		cc := &cfg.Components[ci]
		comp := &model.Component{Name: cc.Name}
		for bi := range cc.Builds {
			bc := &cc.Builds[bi]
			b := &model.Build{
				Component:         comp,
				Name:              bc.Name,
				Dependencies:      bc.Dependencies,
				BuildDependencies: bc.BuildDependencies,
			}
			b.Configure = actions.NewConfigureAction(host, b, ix, bc)
			b.Install = actions.NewInstallAction(host, b, ix, bc)
			b.InstallAny = actions.NewInstallAnyBuildAction(host, b)
			comp.Builds = append(comp.Builds, b)
		}
		comp.DefaultBuild = comp.Build(cc.DefaultBuildName())
		if cc.Repository != "" {
			comp.Clone = actions.NewCloneAction(host, comp.DefaultBuild, cfg.CloneURLs(cc), cc.Branch)
		}
		ix.components = append(ix.components, comp)
		ix.byName[comp.Name] = comp
	}

	for _, comp := range ix.components {
		for _, b := range comp.Builds {
			for _, dep := range append(append([]string(nil), b.Dependencies...), b.BuildDependencies...) {
				if _, err := ix.Lookup(dep); err != nil {
					return nil, fmt.Errorf("invalid dependency of %s: %w", b.QualifiedName(), err)
				}
			}
		}
	}
	return ix, nil
}

// Host returns the collaborators the actions were built with.
func (ix *Index) Host() *actions.Host {
	return ix.host
}

// Components returns the components in declaration order.
func (ix *Index) Components() []*model.Component {
	return append([]*model.Component(nil), ix.components...)
}

// Component returns the component named name.
func (ix *Index) Component(name string) (*model.Component, bool) {
	c, ok := ix.byName[name]
	return c, ok
}

// Lookup resolves "component" to its default build and "component~build" to
// that build. Unknown names yield an *issue.ActionableError suggesting the
// closest match.
func (ix *Index) Lookup(name string) (*model.Build, error) {
	compName, buildName := model.SplitName(name)
	comp, ok := ix.byName[compName]
	if !ok {
		ctx := issue.NewErrorContext().
			WithOperation("find component").
			WithResource(compName).
			WithIssue(issue.ComponentNotFoundId)
		if s := ix.Suggest(compName); s != "" {
			ctx.WithSuggestion(fmt.Sprintf("Did you mean %s?", s))
		}
		return nil, ctx.Wrap(ErrComponentNotFound).BuildError()
	}

	if !strings.Contains(name, model.QualifiedNameSeparator) {
		return comp.DefaultBuild, nil
	}
	if b := comp.Build(buildName); b != nil {
		return b, nil
	}
	return nil, issue.NewErrorContext().
		WithOperation("find build").
		WithResource(name).
		WithSuggestion(fmt.Sprintf("Available builds: %s", strings.Join(comp.BuildNames(), ", "))).
		WithIssue(issue.ComponentNotFoundId).
		Wrap(ErrBuildNotFound).
		BuildError()
}

// Resolve implements actions.Resolver.
func (ix *Index) Resolve(dependency string) (model.Action, error) {
	b, err := ix.Lookup(dependency)
	if err != nil {
		return nil, err
	}
	if strings.Contains(dependency, model.QualifiedNameSeparator) {
		return b.Install, nil
	}
	return b.InstallAny, nil
}

// Suggest returns the component name closest to name, or "" when nothing is
// reasonably close.
func (ix *Index) Suggest(name string) string {
	best, bestDist := "", maxSuggestionDistance+1
	for _, c := range ix.components {
		if d := levenshtein.Distance(name, c.Name, nil); d < bestDist {
			best, bestDist = c.Name, d
		}
	}
	return best
}

// InstalledBuild returns the installed build of comp, if any.
func (ix *Index) InstalledBuild(comp *model.Component) (*model.Build, error) {
	name, ok, err := ix.host.Store.Installed(comp.Name)
	if err != nil || !ok {
		return nil, err
	}
	return comp.Build(name), nil
}
