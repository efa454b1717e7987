// SPDX-License-Identifier: MPL-2.0

package dag

import (
	"errors"
	"slices"
	"testing"
)

func TestTopologicalSort_EmptyGraph(t *testing.T) {
	t.Parallel()
	g := New[string]()
	order, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order != nil {
		t.Errorf("expected nil, got %v", order)
	}
}

func TestTopologicalSort_LinearChain(t *testing.T) {
	t.Parallel()
	g := New[string]()
	// clone -> configure -> install
	g.AddEdge("clone", "configure")
	g.AddEdge("configure", "install")

	order, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []string{"clone", "configure", "install"}
	if !slices.Equal(order, expected) {
		t.Errorf("expected %v, got %v", expected, order)
	}
}

func TestTopologicalSort_DiamondKeepsInsertionOrder(t *testing.T) {
	t.Parallel()
	g := New[string]()
	g.AddNode("libc")
	g.AddNode("zlib")
	g.AddNode("openssl")
	g.AddNode("curl")
	g.AddEdge("libc", "zlib")
	g.AddEdge("libc", "openssl")
	g.AddEdge("zlib", "curl")
	g.AddEdge("openssl", "curl")

	order, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []string{"libc", "zlib", "openssl", "curl"}
	if !slices.Equal(order, expected) {
		t.Errorf("expected %v, got %v", expected, order)
	}
}

func TestTopologicalSort_IntKeys(t *testing.T) {
	t.Parallel()
	g := New[int]()
	g.AddEdge(3, 1)
	g.AddEdge(1, 2)

	order, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(order, []int{3, 1, 2}) {
		t.Errorf("expected [3 1 2], got %v", order)
	}
}

func TestTopologicalSort_Cycles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		edges    [][2]string
		minNodes int
	}{
		{name: "self loop", edges: [][2]string{{"A", "A"}}, minNodes: 1},
		{name: "two nodes", edges: [][2]string{{"A", "B"}, {"B", "A"}}, minNodes: 2},
		{name: "three nodes", edges: [][2]string{{"A", "B"}, {"B", "C"}, {"C", "A"}}, minNodes: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := New[string]()
			for _, e := range tt.edges {
				g.AddEdge(e[0], e[1])
			}
			_, err := g.TopologicalSort()
			var cycleErr *CycleError
			if !errors.As(err, &cycleErr) {
				t.Fatalf("expected *CycleError, got %T: %v", err, err)
			}
			if len(cycleErr.Cycle) < tt.minNodes {
				t.Errorf("expected at least %d nodes in cycle, got %v", tt.minNodes, cycleErr.Cycle)
			}
		})
	}
}

func TestAddEdge_IgnoresDuplicates(t *testing.T) {
	t.Parallel()
	g := New[string]()
	g.AddEdge("A", "B")
	g.AddEdge("A", "B")

	if got := g.Successors("A"); !slices.Equal(got, []string{"B"}) {
		t.Errorf("expected [B], got %v", got)
	}
	if g.Len() != 2 {
		t.Errorf("expected 2 nodes, got %d", g.Len())
	}
	if !g.Has("B") || g.Has("C") {
		t.Error("Has reported wrong membership")
	}
}

func TestCycleError_Message(t *testing.T) {
	t.Parallel()
	err := &CycleError{Cycle: []string{"A", "B", "C"}}
	expected := "dependency cycle detected: A -> B -> C"
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
}
