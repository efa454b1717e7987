// SPDX-License-Identifier: MPL-2.0

package actions

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"testing"

	"orchestra-cli/internal/config"
	"orchestra-cli/internal/model"
	"orchestra-cli/internal/rootfs"
	"orchestra-cli/internal/script"
)

type (
	// fakeRunner records requests and simulates scripts with Go functions
	// keyed by script text.
	fakeRunner struct {
		requests []script.Request
		scripts  map[string]func(req script.Request) error
	}

	mapResolver map[string]model.Action

	testHost struct {
		*Host
		runner   *fakeRunner
		resolver mapResolver
		root     string
		prefix   string
	}
)

func (f *fakeRunner) Name() string { return "fake" }

func (f *fakeRunner) Run(_ context.Context, req script.Request) *script.Result {
	f.requests = append(f.requests, req)
	if fn, ok := f.scripts[req.Script]; ok {
		if err := fn(req); err != nil {
			return &script.Result{ExitCode: 2, ErrOutput: err.Error()}
		}
	}
	return &script.Result{}
}

func (f *fakeRunner) ran(s string) int {
	n := 0
	for _, r := range f.requests {
		if r.Script == s {
			n++
		}
	}
	return n
}

func (m mapResolver) Resolve(dep string) (model.Action, error) {
	a, ok := m[dep]
	if !ok {
		return nil, fmt.Errorf("unknown dependency %s", dep)
	}
	return a, nil
}

func newTestHost(t *testing.T) *testHost {
	t.Helper()
	base := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Paths = config.Paths{
		OrchestraRoot: filepath.Join(base, "root"),
		TmpRoot:       filepath.Join(base, "tmproot"),
		SourcesDir:    filepath.Join(base, "sources"),
		BuildsDir:     filepath.Join(base, "builds"),
	}

	runner := &fakeRunner{scripts: make(map[string]func(script.Request) error)}
	host := NewHost(cfg, runner, rootfs.NewOsFs())
	host.Stdout, host.Stderr = io.Discard, io.Discard

	return &testHost{
		Host:     host,
		runner:   runner,
		resolver: make(mapResolver),
		root:     cfg.Paths.OrchestraRoot,
		prefix:   rootfs.StagingPrefix(cfg.Paths.TmpRoot, cfg.Paths.OrchestraRoot),
	}
}

// addComponent builds a component the way the index does and registers its
// builds with the resolver. The first build is the default.
func (h *testHost) addComponent(name string, builds ...config.BuildConfig) *model.Component {
	comp := &model.Component{Name: name}
	for i := range builds {
		bc := &builds[i]
		b := &model.Build{
			Component:         comp,
			Name:              bc.Name,
			Dependencies:      bc.Dependencies,
			BuildDependencies: bc.BuildDependencies,
		}
		b.Configure = NewConfigureAction(h.Host, b, h.resolver, bc)
		b.Install = NewInstallAction(h.Host, b, h.resolver, bc)
		b.InstallAny = NewInstallAnyBuildAction(h.Host, b)
		comp.Builds = append(comp.Builds, b)
		h.resolver[b.QualifiedName()] = b.Install
	}
	comp.DefaultBuild = comp.Builds[0]
	h.resolver[name] = comp.DefaultBuild.InstallAny
	return comp
}

// staged returns the staging path of a root-relative path.
func (h *testHost) staged(rel string) string {
	return filepath.Join(h.prefix, filepath.FromSlash(rel))
}

// installed returns the orchestra root path of a root-relative path.
func (h *testHost) installed(rel string) string {
	return filepath.Join(h.root, filepath.FromSlash(rel))
}
