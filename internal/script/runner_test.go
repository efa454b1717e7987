// SPDX-License-Identifier: MPL-2.0

package script

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestEnv_OrderAndOverride(t *testing.T) {
	t.Parallel()
	env := NewEnv()
	env.Set("ORCHESTRA_ROOT", "/opt/orchestra")
	env.Set("PATH", "$ORCHESTRA_ROOT/bin:$PATH")
	env.Set("ORCHESTRA_ROOT", "/srv/orchestra")

	keys := env.Keys()
	if len(keys) != 2 || keys[0] != "ORCHESTRA_ROOT" || keys[1] != "PATH" {
		t.Fatalf("unexpected key order %v", keys)
	}
	want := "export ORCHESTRA_ROOT=\"/srv/orchestra\"\nexport PATH=\"$ORCHESTRA_ROOT/bin:$PATH\"\n"
	if got := env.Export(); got != want {
		t.Errorf("Export() = %q, want %q", got, want)
	}
}

func TestEnv_MergeDoesNotMutate(t *testing.T) {
	t.Parallel()
	base := NewEnv()
	base.Set("TMP_ROOT", "/tmp/root")
	overlay := NewEnv()
	overlay.Set("DESTDIR", "/tmp/root")

	merged := base.Merge(overlay)
	if merged.Len() != 2 {
		t.Errorf("expected 2 variables, got %d", merged.Len())
	}
	if _, ok := base.Get("DESTDIR"); ok {
		t.Error("Merge mutated the receiver")
	}
	if merged.Lookup("DESTDIR") != "/tmp/root" {
		t.Error("overlay value missing")
	}
}

func TestRender(t *testing.T) {
	t.Parallel()
	env := NewEnv()
	env.Set("A", "1")
	got := Render(Request{Script: "echo $A", Env: env})
	want := "export A=\"1\"\nset -e\necho $A\n"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestResult_Err(t *testing.T) {
	t.Parallel()
	if err := (&Result{}).Err(); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
	err := (&Result{ExitCode: 2, ErrOutput: "boom\n"}).Err()
	if !errors.Is(err, ErrScriptFailed) {
		t.Fatalf("expected ErrScriptFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("expected captured stderr in message, got %q", err.Error())
	}
	infra := errors.New("exec failed")
	if err := (&Result{ExitCode: 1, Error: infra}).Err(); !errors.Is(err, infra) {
		t.Errorf("expected infrastructure error, got %v", err)
	}
}

func runners(t *testing.T) []Runner {
	t.Helper()
	rs := []Runner{NewVirtualRunner()}
	if _, err := exec.LookPath("sh"); err == nil {
		rs = append(rs, NewNativeRunner())
	}
	return rs
}

func TestRunners_EnvironmentAndCapture(t *testing.T) {
	t.Parallel()
	for _, r := range runners(t) {
		t.Run(r.Name(), func(t *testing.T) {
			t.Parallel()
			env := NewEnv()
			env.Set("ORCHESTRA_ROOT", "/opt/orc")
			env.Set("BIN_DIR", "$ORCHESTRA_ROOT/bin")

			res := r.Run(t.Context(), Request{Script: `echo "$BIN_DIR"`, Env: env})
			if err := res.Err(); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if strings.TrimSpace(res.Output) != "/opt/orc/bin" {
				t.Errorf("unexpected output %q", res.Output)
			}
		})
	}
}

func TestRunners_ExitStatus(t *testing.T) {
	t.Parallel()
	for _, r := range runners(t) {
		t.Run(r.Name(), func(t *testing.T) {
			t.Parallel()
			res := r.Run(t.Context(), Request{Script: "echo failing >&2\nexit 3"})
			if res.ExitCode != 3 {
				t.Fatalf("expected exit code 3, got %d (err %v)", res.ExitCode, res.Error)
			}
			if !strings.Contains(res.ErrOutput, "failing") {
				t.Errorf("expected captured stderr, got %q", res.ErrOutput)
			}
		})
	}
}

func TestRunners_StopOnFirstError(t *testing.T) {
	t.Parallel()
	for _, r := range runners(t) {
		t.Run(r.Name(), func(t *testing.T) {
			t.Parallel()
			res := r.Run(t.Context(), Request{Script: "false\necho unreachable"})
			if res.ExitCode == 0 {
				t.Fatal("expected nonzero exit code")
			}
			if strings.Contains(res.Output, "unreachable") {
				t.Error("script continued after a failing command")
			}
		})
	}
}

func TestRunners_StreamOutput(t *testing.T) {
	t.Parallel()
	for _, r := range runners(t) {
		t.Run(r.Name(), func(t *testing.T) {
			t.Parallel()
			var stdout, stderr bytes.Buffer
			res := r.Run(t.Context(), Request{
				Script:     "echo streamed",
				ShowOutput: true,
				Stdout:     &stdout,
				Stderr:     &stderr,
			})
			if err := res.Err(); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Output != "" {
				t.Errorf("streamed output should not be captured, got %q", res.Output)
			}
			if strings.TrimSpace(stdout.String()) != "streamed" {
				t.Errorf("unexpected stdout %q", stdout.String())
			}
		})
	}
}

func TestVirtualRunner_Validate(t *testing.T) {
	t.Parallel()
	r := NewVirtualRunner()
	if err := r.Validate("echo ok"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := r.Validate("if then fi ("); err == nil {
		t.Error("expected syntax error")
	}
}

func TestVirtualRunner_Builtins(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	env := NewEnv()
	env.Set("PATH", "")

	result := NewVirtualRunner().Run(t.Context(), Request{
		Script: "mkdir -p lib64/pkgconfig\ntouch lib64/libz.so.1\nln -sf libz.so.1 lib64/libz.so\n",
		Env:    env,
		Dir:    dir,
	})
	if err := result.Err(); err != nil {
		t.Fatalf("builtins should run without PATH: %v (%s)", err, result.ErrOutput)
	}
	target, err := os.Readlink(filepath.Join(dir, "lib64", "libz.so"))
	if err != nil || target != "libz.so.1" {
		t.Errorf("Readlink() = %q, %v; want libz.so.1", target, err)
	}

	result = (&VirtualRunner{}).Run(t.Context(), Request{Script: "mkdir nope", Env: env, Dir: dir})
	if result.ExitCode == 0 {
		t.Error("without builtins mkdir must not be found")
	}
}

func TestNewRunner(t *testing.T) {
	t.Parallel()
	if NewRunner(ModeVirtual).Name() != "virtual" {
		t.Error("expected virtual runner")
	}
	if NewRunner(ModeNative).Name() != "native" {
		t.Error("expected native runner")
	}
	if NewRunner("").Name() != "native" {
		t.Error("expected native fallback")
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	env := NewEnv()
	env.Set("ORCHESTRA_ROOT", "/opt/orc")
	env.Set("PATH", "$ORCHESTRA_ROOT/bin:$PATH")
	env.Set("GREETING", "hello ${USER_NAME:-world}")

	got, err := Resolve(t.Context(), env, []string{"PATH=/usr/bin", "HOME=/home/u", "ORCHESTRA_ROOT=/old"})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	want := []string{
		"HOME=/home/u",
		"ORCHESTRA_ROOT=/opt/orc",
		"PATH=/opt/orc/bin:/usr/bin",
		"GREETING=hello world",
	}
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("Resolve() =\n%s\nwant\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
}
