// SPDX-License-Identifier: MPL-2.0

package script

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"orchestra-cli/internal/coreutils"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// VirtualRunner executes scripts with the embedded mvdan/sh interpreter.
// Commands found in Builtins run in-process; all others run as host processes.
type VirtualRunner struct {
	// Builtins may be nil.
	Builtins *coreutils.Registry
}

// NewVirtualRunner creates a virtual runner using the default builtins.
func NewVirtualRunner() *VirtualRunner {
	return &VirtualRunner{Builtins: coreutils.Default}
}

// Name returns the runner name.
func (r *VirtualRunner) Name() string {
	return string(ModeVirtual)
}

// Validate parses the script without running it.
func (r *VirtualRunner) Validate(script string) error {
	if _, err := syntax.NewParser().Parse(strings.NewReader(script), "script"); err != nil {
		return fmt.Errorf("script syntax error: %w", err)
	}
	return nil
}

// Run interprets req.
func (r *VirtualRunner) Run(ctx context.Context, req Request) *Result {
	prog, err := syntax.NewParser().Parse(strings.NewReader(Render(req)), "script")
	if err != nil {
		return &Result{ExitCode: 1, Error: fmt.Errorf("failed to parse script: %w", err)}
	}

	dir := req.Dir
	if dir == "" {
		if dir, err = os.Getwd(); err != nil {
			return &Result{ExitCode: 1, Error: fmt.Errorf("failed to determine working directory: %w", err)}
		}
	}

	out := newOutputTarget(req)
	opts := []interp.RunnerOption{
		interp.Dir(dir),
		interp.Env(expand.ListEnviron(os.Environ()...)),
		interp.StdIO(nil, out.stdout, out.stderr),
	}
	if r.Builtins != nil {
		opts = append(opts, interp.ExecHandlers(r.Builtins.ExecHandler))
	}
	runner, err := interp.New(opts...)
	if err != nil {
		return &Result{ExitCode: 1, Error: fmt.Errorf("failed to create interpreter: %w", err)}
	}

	if err := runner.Run(ctx, prog); err != nil {
		var exitStatus interp.ExitStatus
		if errors.As(err, &exitStatus) {
			return out.fill(&Result{ExitCode: int(exitStatus)})
		}
		return out.fill(&Result{ExitCode: 1, Error: fmt.Errorf("script execution failed: %w", err)})
	}
	return out.fill(&Result{})
}
