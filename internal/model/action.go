// SPDX-License-Identifier: MPL-2.0

package model

import (
	"context"
	"fmt"

	"orchestra-cli/internal/dag"
)

const (
	// KindClone fetches component sources.
	KindClone Kind = "clone"
	// KindConfigure prepares a build directory.
	KindConfigure Kind = "configure"
	// KindInstall builds and merges a build into the orchestra root.
	KindInstall Kind = "install"
	// KindInstallAny selects an already installed build when there is one.
	KindInstallAny Kind = "install-any"
)

type (
	// Kind identifies an Action variant.
	Kind string

	// Action is a schedulable unit of work bound to one Build.
	//
	// Implementations must be usable as map keys: the executor and the
	// satisfaction check key their bookkeeping on Action identity.
	Action interface {
		fmt.Stringer

		Kind() Kind
		Build() *Build

		// Dependencies returns the explicit and kind-specific implicit dependencies.
		Dependencies() ([]Action, error)

		// IsSatisfied reports whether the action's completion marker holds and,
		// if recursive is set, whether all dependencies are satisfied too.
		// cache memoizes recursive results across one top-level call and may be nil.
		IsSatisfied(ctx context.Context, recursive bool, cache *SatisfactionCache) (bool, error)

		// Run executes the action body only if the action is currently unsatisfied.
		Run(ctx context.Context, opts RunOptions) error
	}

	// RunOptions tunes a single action run.
	RunOptions struct {
		// ShowOutput streams script output instead of capturing it.
		ShowOutput bool
		// NoMerge stops an install after post-processing the staging root.
		NoMerge bool
	}

	// SatisfactionCache memoizes recursive satisfaction results keyed by Action identity
	// and tracks the actions currently being checked to detect cycles.
	SatisfactionCache struct {
		results map[Action]bool
		active  map[Action]bool
		stack   []Action
	}
)

// NewSatisfactionCache creates an empty cache for one recursive check.
func NewSatisfactionCache() *SatisfactionCache {
	return &SatisfactionCache{
		results: make(map[Action]bool),
		active:  make(map[Action]bool),
	}
}

// Lookup returns a memoized result.
func (c *SatisfactionCache) Lookup(a Action) (satisfied, ok bool) {
	satisfied, ok = c.results[a]
	return satisfied, ok
}

// CheckSatisfied implements the shared recursive satisfaction algorithm.
// own evaluates the action's own completion marker. Non-recursive checks are
// never memoized. Re-entering an action that is still on the check stack is a
// dependency cycle and is reported as *dag.CycleError.
func CheckSatisfied(
	ctx context.Context,
	a Action,
	own func(context.Context) (bool, error),
	recursive bool,
	cache *SatisfactionCache,
) (bool, error) {
	if !recursive {
		return own(ctx)
	}
	if cache == nil {
		cache = NewSatisfactionCache()
	}
	if satisfied, ok := cache.results[a]; ok {
		return satisfied, nil
	}
	if cache.active[a] {
		return false, cache.cycleFrom(a)
	}

	cache.active[a] = true
	cache.stack = append(cache.stack, a)
	defer func() {
		delete(cache.active, a)
		cache.stack = cache.stack[:len(cache.stack)-1]
	}()

	satisfied, err := own(ctx)
	if err != nil {
		return false, err
	}

	if satisfied {
		deps, err := a.Dependencies()
		if err != nil {
			return false, err
		}
		for _, dep := range deps {
			depSatisfied, err := dep.IsSatisfied(ctx, true, cache)
			if err != nil {
				return false, err
			}
			if !depSatisfied {
				satisfied = false
				break
			}
		}
	}

	cache.results[a] = satisfied
	return satisfied, nil
}

func (c *SatisfactionCache) cycleFrom(a Action) error {
	var cycle []string
	for i, s := range c.stack {
		if s == a {
			for _, in := range c.stack[i:] {
				cycle = append(cycle, in.String())
			}
			break
		}
	}
	cycle = append(cycle, a.String())
	return &dag.CycleError{Cycle: cycle}
}
