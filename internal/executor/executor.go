// SPDX-License-Identifier: MPL-2.0

// Package executor orders actions by their dependencies and runs the ones that
// are not yet satisfied, one at a time.
package executor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"orchestra-cli/internal/dag"
	"orchestra-cli/internal/model"
)

type (
	// Options tune a run.
	Options struct {
		// NoDeps runs exactly the root actions.
		NoDeps bool
		// ShowOutput streams script output.
		ShowOutput bool
		// NoMerge stops installs after post-processing the staging root.
		NoMerge bool
		// Pretend logs the plan without running anything.
		Pretend bool
	}

	// ActionError identifies the action that stopped a run.
	ActionError struct {
		Action model.Action
		Err    error
	}

	// Executor runs a set of root actions and, unless NoDeps is set, everything
	// they transitively depend on.
	Executor struct {
		roots []model.Action
		opts  Options
	}
)

// Error implements the error interface.
func (e *ActionError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Action, e.Err)
}

// Unwrap returns the underlying error.
func (e *ActionError) Unwrap() error { return e.Err }

// New creates an Executor for roots.
func New(roots []model.Action, opts Options) *Executor {
	return &Executor{roots: roots, opts: opts}
}

// Graph returns the dependency graph of the execution set. Edges point from a
// dependency to its dependent; nodes are inserted in depth-first post-order.
func (e *Executor) Graph() (*dag.Graph[model.Action], error) {
	g, _, err := e.graph()
	return g, err
}

// graph builds the dependency graph and also returns the nodes in the order
// they were inserted.
func (e *Executor) graph() (*dag.Graph[model.Action], []model.Action, error) {
	var (
		g     = dag.New[model.Action]()
		order []model.Action
	)
	add := func(a model.Action) {
		if !g.Has(a) {
			order = append(order, a)
		}
		g.AddNode(a)
	}
	if e.opts.NoDeps {
		for _, r := range e.roots {
			add(r)
		}
		return g, order, nil
	}

	type edge struct{ from, to model.Action }
	var (
		edges   []edge
		visited = make(map[model.Action]bool)
		visit   func(a model.Action) error
	)
	visit = func(a model.Action) error {
		if visited[a] {
			return nil
		}
		visited[a] = true
		deps, err := a.Dependencies()
		if err != nil {
			return fmt.Errorf("failed to compute dependencies of %s: %w", a, err)
		}
		for _, d := range deps {
			if err := visit(d); err != nil {
				return err
			}
			edges = append(edges, edge{from: d, to: a})
		}
		add(a)
		return nil
	}

	for _, r := range e.roots {
		if err := visit(r); err != nil {
			return nil, nil, err
		}
	}
	for _, ed := range edges {
		g.AddEdge(ed.from, ed.to)
	}
	return g, order, nil
}

// Plan returns the actions in execution order: every action after all of its
// dependencies, each action once, otherwise in depth-first discovery order.
func (e *Executor) Plan() ([]model.Action, error) {
	g, order, err := e.graph()
	if err != nil {
		return nil, err
	}
	// The post-order skips back edges, so cycles are only caught by the sort.
	if _, err := g.TopologicalSort(); err != nil {
		return nil, err
	}
	return order, nil
}

// Run executes the plan. Satisfied actions are skipped; the first failure
// stops the run and is returned as an *ActionError.
func (e *Executor) Run(ctx context.Context) error {
	plan, err := e.Plan()
	if err != nil {
		return err
	}

	runOpts := model.RunOptions{ShowOutput: e.opts.ShowOutput, NoMerge: e.opts.NoMerge}
	for i, a := range plan {
		if err := ctx.Err(); err != nil {
			return err
		}

		satisfied, err := a.IsSatisfied(ctx, false, nil)
		if err != nil {
			return &ActionError{Action: a, Err: err}
		}

		step := strconv.Itoa(i+1) + "/" + strconv.Itoa(len(plan))
		if e.opts.Pretend {
			slog.Info("plan", "step", step, "action", a.String(), "satisfied", satisfied)
			continue
		}
		if satisfied {
			slog.Debug("already satisfied", "step", step, "action", a.String())
			continue
		}

		slog.Info("running", "step", step, "action", a.String())
		if err := a.Run(ctx, runOpts); err != nil {
			return &ActionError{Action: a, Err: err}
		}
	}
	return nil
}

// WriteDOT renders the dependency graph in Graphviz DOT format.
func (e *Executor) WriteDOT(w io.Writer) error {
	g, err := e.Graph()
	if err != nil {
		return err
	}
	order, err := g.TopologicalSort()
	if err != nil {
		return err
	}

	id := make(map[model.Action]int, len(order))
	if _, err := fmt.Fprintln(w, "digraph orchestra {"); err != nil {
		return err
	}
	for i, a := range order {
		id[a] = i
		if _, err := fmt.Fprintf(w, "  n%d [label=%q];\n", i, a.String()); err != nil {
			return err
		}
	}
	for _, a := range order {
		for _, s := range g.Successors(a) {
			if _, err := fmt.Fprintf(w, "  n%d -> n%d;\n", id[s], id[a]); err != nil {
				return err
			}
		}
	}
	_, err = fmt.Fprintln(w, "}")
	return err
}
