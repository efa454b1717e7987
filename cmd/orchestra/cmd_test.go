// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"orchestra-cli/internal/config"
	"orchestra-cli/internal/script"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Commands install the process-wide slog default, so the tests in this file
// do not run in parallel.

type (
	staticProvider struct {
		cfg *config.Config
	}

	testApp struct {
		*App
		cfg    *config.Config
		stdout *bytes.Buffer
		stderr *bytes.Buffer
	}
)

func (p staticProvider) Load(context.Context, config.LoadOptions) (*config.Config, error) {
	return p.cfg, nil
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	base := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Paths = config.Paths{
		OrchestraRoot: filepath.Join(base, "root"),
		TmpRoot:       filepath.Join(base, "tmproot"),
		SourcesDir:    filepath.Join(base, "sources"),
		BuildsDir:     filepath.Join(base, "builds"),
	}
	cfg.Options.Shell = config.ShellVirtual
	cfg.Components = []config.ComponentConfig{
		{
			Name: "zlib",
			Builds: []config.BuildConfig{
				{Name: "release", Install: `echo zlib > "$DESTDIR$ORCHESTRA_ROOT/include/zlib.h"`},
				{Name: "debug", Install: `echo debug > "$DESTDIR$ORCHESTRA_ROOT/include/zlib.h"`},
			},
		},
		{
			Name: "curl",
			Builds: []config.BuildConfig{
				{
					Name:              "tls",
					Dependencies:      []string{"zlib"},
					BuildDependencies: []string{"zlib~release"},
					Install:           `echo curl > "$DESTDIR$ORCHESTRA_ROOT/bin/curl"`,
				},
			},
		},
	}

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	app := NewApp(Dependencies{
		Config: staticProvider{cfg: cfg},
		Runner: script.NewVirtualRunner(),
		Stdout: stdout,
		Stderr: stderr,
	})
	return &testApp{App: app, cfg: cfg, stdout: stdout, stderr: stderr}
}

func (a *testApp) run(t *testing.T, args ...string) error {
	t.Helper()
	a.stdout.Reset()
	a.stderr.Reset()
	root := NewRootCommand(a.App)
	root.SetArgs(args)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	return root.ExecuteContext(t.Context())
}

func (a *testApp) installed(rel string) string {
	return filepath.Join(a.cfg.Paths.OrchestraRoot, filepath.FromSlash(rel))
}

func requireExitCode(t *testing.T, err error, code int) {
	t.Helper()
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, code, exitErr.Code)
}

func TestInstallCommand(t *testing.T) {
	app := newTestApp(t)

	require.NoError(t, app.run(t, "install", "curl"))
	assert.Contains(t, app.stdout.String(), "install curl~tls")

	data, err := os.ReadFile(app.installed("bin/curl"))
	require.NoError(t, err)
	assert.Equal(t, "curl\n", string(data))
	data, err = os.ReadFile(app.installed("include/zlib.h"))
	require.NoError(t, err)
	assert.Equal(t, "zlib\n", string(data))

	require.NoError(t, app.run(t, "components", "--installed"))
	assert.Contains(t, app.stdout.String(), "## zlib")
	assert.Contains(t, app.stdout.String(), "Installed build: `release`")
	assert.Contains(t, app.stdout.String(), "## curl")
}

func TestInstallCommand_Pretend(t *testing.T) {
	app := newTestApp(t)

	require.NoError(t, app.run(t, "install", "--pretend", "curl"))
	assert.Equal(t, []string{
		"[ ] configure zlib~release",
		"[ ] install zlib~release",
		"[ ] install-any zlib (prefer release)",
		"[ ] configure curl~tls",
		"[ ] install curl~tls",
	}, strings.Split(strings.TrimSpace(app.stdout.String()), "\n"))

	_, err := os.Stat(app.installed("bin/curl"))
	assert.True(t, os.IsNotExist(err), "pretend must not install anything")
}

func TestInstallCommand_NoDeps(t *testing.T) {
	app := newTestApp(t)

	require.NoError(t, app.run(t, "install", "--no-deps", "zlib~debug"))
	data, err := os.ReadFile(app.installed("include/zlib.h"))
	require.NoError(t, err)
	assert.Equal(t, "debug\n", string(data))
}

func TestInstallCommand_UnknownComponent(t *testing.T) {
	app := newTestApp(t)

	err := app.run(t, "install", "zlb")
	requireExitCode(t, err, 1)
	assert.Contains(t, app.stderr.String(), "failed to find component: zlb")
	assert.Contains(t, app.stderr.String(), "Did you mean zlib?")
}

func TestInstallCommand_ScriptFailure(t *testing.T) {
	app := newTestApp(t)
	app.cfg.Components[0].Builds[0].Install = "exit 3"

	err := app.run(t, "install", "zlib")
	requireExitCode(t, err, 1)
	assert.Contains(t, app.stderr.String(), "install zlib~release failed")
	assert.Contains(t, app.stderr.String(), "Script execution failed")
}

func TestUninstallCommand(t *testing.T) {
	app := newTestApp(t)

	require.NoError(t, app.run(t, "install", "zlib"))
	require.NoError(t, app.run(t, "uninstall", "zlib"))

	_, err := os.Stat(app.installed("include/zlib.h"))
	assert.True(t, os.IsNotExist(err))

	err = app.run(t, "uninstall", "zlib")
	requireExitCode(t, err, 1)
	assert.Contains(t, app.stderr.String(), "component zlib is not installed")
}

func TestComponentsCommand(t *testing.T) {
	app := newTestApp(t)

	require.NoError(t, app.run(t, "components", "--deps"))
	out := app.stdout.String()
	assert.Contains(t, out, "# Components")
	assert.Contains(t, out, "- `release` (default)")
	assert.Contains(t, out, "- `debug`\n")
	assert.Contains(t, out, "  - dependencies: `zlib`")
	assert.Contains(t, out, "  - build dependencies: `zlib~release`")

	require.NoError(t, app.run(t, "components", "--installed"))
	assert.NotContains(t, app.stdout.String(), "## zlib")

	require.Error(t, app.run(t, "components", "--installed", "--not-installed"))
}

func TestGraphCommand(t *testing.T) {
	app := newTestApp(t)

	require.NoError(t, app.run(t, "graph", "curl"))
	out := app.stdout.String()
	assert.True(t, strings.HasPrefix(out, "digraph orchestra {\n"), out)
	assert.Contains(t, out, `[label="install curl~tls"]`)
	assert.True(t, strings.HasSuffix(out, "}\n"), out)
}

func TestEnvironmentCommand(t *testing.T) {
	app := newTestApp(t)

	require.NoError(t, app.run(t, "environment", "zlib~debug"))
	out := app.stdout.String()
	assert.Contains(t, out, `export ORCHESTRA_ROOT="`+app.cfg.Paths.OrchestraRoot+`"`)
	assert.Contains(t, out, `export BUILD_DIR="`+app.cfg.BuildDir("zlib", "debug")+`"`)
	assert.Contains(t, out, `export DESTDIR="$TMP_ROOT"`)
}

func TestDumpConfigCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orchestra.cue")
	require.NoError(t, os.WriteFile(path, []byte(`
paths: {
	orchestra_root: "/opt/orchestra"
	tmp_root:       "/tmp/orchestra/root"
}
components: zlib: builds: release: install: "true"
`), 0o644))

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	app := NewApp(Dependencies{Stdout: stdout, Stderr: stderr})
	root := NewRootCommand(app)
	root.SetArgs([]string{"--config", path, "dumpconfig", "--format", "toml"})
	require.NoError(t, root.ExecuteContext(t.Context()))

	out := stdout.String()
	assert.Contains(t, out, "orchestra_root = '/opt/orchestra'")
	assert.Contains(t, out, "name = 'zlib'")
}

func TestDumpConfigCommand_UnknownFormat(t *testing.T) {
	app := newTestApp(t)

	err := app.run(t, "dumpconfig", "--format", "ini")
	requireExitCode(t, err, 1)
	assert.Contains(t, app.stderr.String(), "ini")
}

func TestShellCommand(t *testing.T) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	t.Setenv("SHELL", sh)
	app := newTestApp(t)
	buildDir := app.cfg.BuildDir("zlib", "release")
	require.NoError(t, os.MkdirAll(buildDir, 0o755))

	root := NewRootCommand(app.App)
	root.SetArgs([]string{"shell", "zlib"})
	root.SetIn(strings.NewReader("echo \"$DESTDIR\"\npwd\necho \"$PS1\"\nexit 4\n"))
	err = root.ExecuteContext(t.Context())
	requireExitCode(t, err, 4)

	lines := strings.Split(strings.TrimSpace(app.stdout.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, app.cfg.Paths.TmpRoot, lines[0])
	assert.Equal(t, buildDir, lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "(orchestra - zlib~release) "), lines[2])
}

func TestFormatErrorForDisplay(t *testing.T) {
	t.Parallel()

	plain := errors.New("plain failure")
	assert.Equal(t, "plain failure", formatErrorForDisplay(plain, true))
}

func TestGetVersionString(t *testing.T) {
	origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
	t.Cleanup(func() {
		Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
	})

	Version = "dev"
	assert.Equal(t, "dev (built from source)", getVersionString())

	Version, Commit, BuildDate = "v0.3.0", "1a2b3c4", "2026-01-02T03:04:05Z"
	assert.Equal(t, "v0.3.0 (commit: 1a2b3c4, built: 2026-01-02T03:04:05Z)", getVersionString())
}
