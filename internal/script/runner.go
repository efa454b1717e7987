// SPDX-License-Identifier: MPL-2.0

package script

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	// ModeNative runs scripts with the host shell.
	ModeNative Mode = "native"
	// ModeVirtual runs scripts in the embedded mvdan/sh interpreter.
	ModeVirtual Mode = "virtual"
)

// ErrScriptFailed is the sentinel error wrapped by ScriptError.
var ErrScriptFailed = errors.New("script failed")

type (
	// Mode selects a Runner implementation.
	Mode string

	// Runner executes opaque shell text with an environment and reports its exit status.
	Runner interface {
		Name() string
		Run(ctx context.Context, req Request) *Result
	}

	// Request describes one script invocation.
	Request struct {
		// Script is the shell text to execute.
		Script string
		// Env is exported before the script runs. May be nil.
		Env *Env
		// Dir is the working directory; empty means the current directory.
		Dir string
		// ShowOutput streams output to Stdout/Stderr instead of capturing it.
		ShowOutput bool
		// Stdout and Stderr default to os.Stdout and os.Stderr when streaming.
		Stdout io.Writer
		Stderr io.Writer
	}

	// Result holds the outcome of a script invocation.
	Result struct {
		ExitCode int
		// Output and ErrOutput are populated when output was captured.
		Output    string
		ErrOutput string
		// Error is set when the script could not be started or interpreted.
		Error error
	}

	// ScriptError reports a script that exited with a nonzero status.
	ScriptError struct {
		ExitCode  int
		ErrOutput string
	}

	// outputTarget configures where script output goes during execution.
	// It abstracts the difference between streaming and capturing modes.
	outputTarget struct {
		stdout io.Writer
		stderr io.Writer
		// captured is nil when streaming.
		captured *capturedOutput
	}

	capturedOutput struct {
		stdout bytes.Buffer
		stderr bytes.Buffer
	}
)

// Error implements the error interface.
func (e *ScriptError) Error() string {
	msg := fmt.Sprintf("script exited with status %d", e.ExitCode)
	if tail := lastLines(e.ErrOutput, 10); tail != "" {
		msg += ":\n" + tail
	}
	return msg
}

// Unwrap returns ErrScriptFailed so callers can use errors.Is for programmatic detection.
func (e *ScriptError) Unwrap() error { return ErrScriptFailed }

// Err converts a Result into an error: the infrastructure error when set,
// a *ScriptError for nonzero exit codes, nil otherwise.
func (r *Result) Err() error {
	if r.Error != nil {
		return r.Error
	}
	if r.ExitCode != 0 {
		return &ScriptError{ExitCode: r.ExitCode, ErrOutput: r.ErrOutput}
	}
	return nil
}

// NewRunner returns the Runner for mode. Unknown modes fall back to native.
func NewRunner(mode Mode) Runner {
	if mode == ModeVirtual {
		return NewVirtualRunner()
	}
	return NewNativeRunner()
}

// Render builds the full program text: the exported environment, followed by
// `set -e`, followed by the script body.
func Render(req Request) string {
	var sb strings.Builder
	if req.Env != nil {
		sb.WriteString(req.Env.Export())
	}
	sb.WriteString("set -e\n")
	sb.WriteString(req.Script)
	if !strings.HasSuffix(req.Script, "\n") {
		sb.WriteString("\n")
	}
	return sb.String()
}

func newOutputTarget(req Request) *outputTarget {
	if req.ShowOutput {
		stdout, stderr := req.Stdout, req.Stderr
		if stdout == nil {
			stdout = os.Stdout
		}
		if stderr == nil {
			stderr = os.Stderr
		}
		return &outputTarget{stdout: stdout, stderr: stderr}
	}
	captured := &capturedOutput{}
	return &outputTarget{
		stdout:   &captured.stdout,
		stderr:   &captured.stderr,
		captured: captured,
	}
}

// fill copies captured output into the result.
func (o *outputTarget) fill(result *Result) *Result {
	if o.captured != nil {
		result.Output = o.captured.stdout.String()
		result.ErrOutput = o.captured.stderr.String()
	}
	return result
}

func lastLines(s string, n int) string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
