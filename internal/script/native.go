// SPDX-License-Identifier: MPL-2.0

package script

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// NativeRunner executes scripts using the host's POSIX shell.
type NativeRunner struct {
	// Shell overrides shell discovery.
	Shell string
}

// NewNativeRunner creates a new native runner.
func NewNativeRunner() *NativeRunner {
	return &NativeRunner{}
}

// Name returns the runner name.
func (r *NativeRunner) Name() string {
	return string(ModeNative)
}

// Run executes req with `<shell> -c <program>`.
func (r *NativeRunner) Run(ctx context.Context, req Request) *Result {
	shell, err := r.shell()
	if err != nil {
		return &Result{ExitCode: 1, Error: err}
	}

	cmd := exec.CommandContext(ctx, shell, "-c", Render(req))
	cmd.Dir = req.Dir
	cmd.Env = os.Environ()

	out := newOutputTarget(req)
	cmd.Stdout = out.stdout
	cmd.Stderr = out.stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return out.fill(&Result{ExitCode: exitErr.ExitCode()})
		}
		return out.fill(&Result{ExitCode: 1, Error: fmt.Errorf("failed to execute script: %w", err)})
	}
	return out.fill(&Result{})
}

// shell prefers bash, falling back to sh.
func (r *NativeRunner) shell() (string, error) {
	if r.Shell != "" {
		return r.Shell, nil
	}
	if bash, err := exec.LookPath("bash"); err == nil {
		return bash, nil
	}
	if sh, err := exec.LookPath("sh"); err == nil {
		return sh, nil
	}
	return "", errors.New("no POSIX shell found in PATH")
}
