// SPDX-License-Identifier: MPL-2.0

package script

import (
	"context"
	"fmt"
	"io"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// Resolve evaluates the export prelude of env on top of base (KEY=VALUE
// pairs, usually os.Environ()) and returns the resulting process environment.
// Variables of env appear last, in env order, with references expanded.
func Resolve(ctx context.Context, env *Env, base []string) ([]string, error) {
	prog, err := syntax.NewParser().Parse(strings.NewReader(env.Export()), "environment")
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	runner, err := interp.New(
		interp.Env(expand.ListEnviron(base...)),
		interp.StdIO(nil, io.Discard, io.Discard),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create interpreter: %w", err)
	}
	if err := runner.Run(ctx, prog); err != nil {
		return nil, fmt.Errorf("failed to evaluate environment: %w", err)
	}

	keys := env.Keys()
	own := make(map[string]bool, len(keys))
	for _, k := range keys {
		own[k] = true
	}

	out := make([]string, 0, len(base)+len(keys))
	for _, kv := range base {
		name, _, _ := strings.Cut(kv, "=")
		if !own[name] {
			out = append(out, kv)
		}
	}
	for _, k := range keys {
		out = append(out, k+"="+runner.Vars[k].String())
	}
	return out, nil
}
