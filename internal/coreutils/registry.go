// SPDX-License-Identifier: MPL-2.0

package coreutils

import (
	"context"
	"fmt"
	"io"
	"maps"
	"path/filepath"
	"slices"
	"sync"

	"mvdan.cc/sh/v3/interp"
)

// Default is the registry the virtual runner uses. Commands register
// themselves during package initialization.
var Default = NewRegistry()

type (
	// Command is a utility implemented in Go.
	Command interface {
		// Name is the name scripts invoke the command by.
		Name() string
		// Run executes the command. args[0] is the command name.
		Run(ctx context.Context, args []string) error
	}

	// Registry maps command names to implementations. It is safe for
	// concurrent use.
	Registry struct {
		mu       sync.RWMutex
		commands map[string]Command
	}

	// HandlerContext is what a command sees of the interpreter running it.
	HandlerContext struct {
		Stdout io.Writer
		Stderr io.Writer
		// Dir is the working directory relative operands are resolved against.
		Dir string
	}

	handlerContextKey struct{}
)

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]Command)}
}

// Register adds cmd. It panics when the name is empty or already taken.
func (r *Registry) Register(cmd Command) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := cmd.Name()
	if name == "" {
		panic("coreutils: cannot register command with empty name")
	}
	if _, exists := r.commands[name]; exists {
		panic(fmt.Sprintf("coreutils: command %q already registered", name))
	}
	r.commands[name] = cmd
}

// Lookup returns the command registered as name.
func (r *Registry) Lookup(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.commands[name]
	return cmd, ok
}

// Names returns the registered command names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.commands))
}

// ExecHandler is an interp.ExecHandlers middleware. Registered commands run
// in-process; a failing command prints its error to the script's stderr and
// exits with status 1. Unregistered commands are passed to next.
func (r *Registry) ExecHandler(next interp.ExecHandlerFunc) interp.ExecHandlerFunc {
	return func(ctx context.Context, args []string) error {
		if len(args) == 0 {
			return next(ctx, args)
		}
		cmd, ok := r.Lookup(args[0])
		if !ok {
			return next(ctx, args)
		}
		if err := cmd.Run(ctx, args); err != nil {
			fmt.Fprintf(GetHandlerContext(ctx).Stderr, "%s: %v\n", args[0], err)
			return interp.ExitStatus(1)
		}
		return nil
	}
}

// RegisterDefault registers cmd in Default.
func RegisterDefault(cmd Command) {
	Default.Register(cmd)
}

// WithHandlerContext attaches hc to ctx, replacing the interpreter's context.
func WithHandlerContext(ctx context.Context, hc *HandlerContext) context.Context {
	return context.WithValue(ctx, handlerContextKey{}, hc)
}

// GetHandlerContext returns the context attached with WithHandlerContext, or
// the one of the mvdan/sh interpreter running the command.
func GetHandlerContext(ctx context.Context) *HandlerContext {
	if hc, ok := ctx.Value(handlerContextKey{}).(*HandlerContext); ok {
		return hc
	}
	hc := interp.HandlerCtx(ctx)
	return &HandlerContext{Stdout: hc.Stdout, Stderr: hc.Stderr, Dir: hc.Dir}
}

// resolve makes a relative operand absolute against the working directory.
func (hc *HandlerContext) resolve(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(hc.Dir, path)
}
