package graph

import (
	"errors"
	"math"
	"testing"

	gonum "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
)

func buildTriangle(t *testing.T) *Graph {
	t.Helper()
	b := NewBuilder()
	for _, id := range []string{"x", "y", "z"} {
		if err := b.AddNode(id, map[string]Value{"Modularity Class": IntValue(1)}); err != nil {
			t.Fatalf("AddNode(%s) failed: %v", id, err)
		}
	}
	edges := []struct {
		from, to string
		w        float64
	}{
		{"x", "y", 1},
		{"y", "z", 2},
		{"z", "x", 3},
	}
	for _, e := range edges {
		if err := b.AddEdge(e.from, e.to, e.w); err != nil {
			t.Fatalf("AddEdge(%s,%s) failed: %v", e.from, e.to, err)
		}
	}
	return b.Build()
}

// TestBuilder_NodesKeepInsertionOrder tests that Nodes follows AddNode order
func TestBuilder_NodesKeepInsertionOrder(t *testing.T) {
	b := NewBuilder()
	for _, id := range []string{"n3", "n1", "n2"} {
		if err := b.AddNode(id, nil); err != nil {
			t.Fatalf("AddNode failed: %v", err)
		}
	}
	g := b.Build()

	got := g.Nodes()
	want := []string{"n3", "n1", "n2"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Nodes() = %v, want %v", got, want)
		}
	}
	got[0] = "mutated"
	if g.Nodes()[0] != "n3" {
		t.Error("Nodes() must return a copy")
	}
}

// TestBuilder_Rejects tests builder validation errors
func TestBuilder_Rejects(t *testing.T) {
	b := NewBuilder()
	if err := b.AddNode("", nil); !errors.Is(err, ErrEmptyNodeID) {
		t.Errorf("Expected ErrEmptyNodeID, got %v", err)
	}
	if err := b.AddNode("a", nil); err != nil {
		t.Fatalf("AddNode failed: %v", err)
	}
	if err := b.AddNode("a", nil); !errors.Is(err, ErrDuplicateNode) {
		t.Errorf("Expected ErrDuplicateNode, got %v", err)
	}
	if err := b.AddEdge("a", "ghost", 1); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("Expected ErrNodeNotFound, got %v", err)
	}
	for _, w := range []float64{-1, math.NaN(), math.Inf(1)} {
		if err := b.AddEdge("a", "a", w); !errors.Is(err, ErrBadWeight) {
			t.Errorf("AddEdge weight %v: expected ErrBadWeight, got %v", w, err)
		}
	}

	b.Build()
	if err := b.AddNode("late", nil); !errors.Is(err, ErrBuilt) {
		t.Errorf("Expected ErrBuilt, got %v", err)
	}
}

// TestGraph_WeightedDegreeAndVolume tests degree and volume sums
func TestGraph_WeightedDegreeAndVolume(t *testing.T) {
	g := buildTriangle(t)

	for id, want := range map[string]float64{"x": 4, "y": 3, "z": 5} {
		got, err := g.WeightedDegree(id)
		if err != nil {
			t.Fatalf("WeightedDegree(%s) failed: %v", id, err)
		}
		if got != want {
			t.Errorf("WeightedDegree(%s) = %v, want %v", id, got, want)
		}
	}

	if g.TotalVolume() != 12 {
		t.Errorf("TotalVolume() = %v, want 12", g.TotalVolume())
	}

	vol, err := g.Volume([]string{"x", "y", "x"})
	if err != nil {
		t.Fatalf("Volume failed: %v", err)
	}
	if vol != 7 {
		t.Errorf("Volume(x,y) = %v, want 7 (duplicates counted once)", vol)
	}

	if _, err := g.Volume([]string{"nope"}); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("Expected ErrNodeNotFound, got %v", err)
	}
}

// TestGraph_CutWeight tests cut weight across a partition
func TestGraph_CutWeight(t *testing.T) {
	g := buildTriangle(t)

	cut, err := g.CutWeight([]string{"x"})
	if err != nil {
		t.Fatalf("CutWeight failed: %v", err)
	}
	if cut != 4 {
		t.Errorf("CutWeight(x) = %v, want 4", cut)
	}

	all, _ := g.CutWeight(g.Nodes())
	if all != 0 {
		t.Errorf("CutWeight(V) = %v, want 0", all)
	}
	none, _ := g.CutWeight(nil)
	if none != 0 {
		t.Errorf("CutWeight(empty) = %v, want 0", none)
	}
}

// TestGraph_ParallelEdgesAccumulate tests that repeated edges sum their weights
func TestGraph_ParallelEdgesAccumulate(t *testing.T) {
	b := NewBuilder()
	b.AddNode("a", nil)
	b.AddNode("b", nil)
	if err := b.AddEdge("a", "b", 1.5); err != nil {
		t.Fatal(err)
	}
	if err := b.AddEdge("b", "a", 2.5); err != nil {
		t.Fatal(err)
	}
	g := b.Build()

	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", g.EdgeCount())
	}
	cut, _ := g.CutWeight([]string{"a"})
	if cut != 4 {
		t.Errorf("CutWeight(a) = %v, want 4", cut)
	}
	if w := g.Gonum().WeightedEdge(0, 1).Weight(); w != 4 {
		t.Errorf("gonum edge weight = %v, want 4", w)
	}
}

// TestGraph_GonumReadOnly tests that the gonum view cannot be used to mutate
// the adjacency behind a built Graph
func TestGraph_GonumReadOnly(t *testing.T) {
	g := buildTriangle(t)
	view := g.Gonum()

	if _, ok := view.(*simple.WeightedUndirectedGraph); ok {
		t.Fatal("Expected Gonum() to hide the concrete gonum graph")
	}
	type edgeSetter interface {
		SetWeightedEdge(e gonum.WeightedEdge)
	}
	if _, ok := view.(edgeSetter); ok {
		t.Fatal("Expected Gonum() to expose no edge setter")
	}

	if w := view.WeightedEdge(0, 1).Weight(); w != 1 {
		t.Errorf("Expected edge weight 1, got %v", w)
	}
	if n := view.Nodes().Len(); n != g.NodeCount() {
		t.Errorf("Expected %d gonum nodes, got %d", g.NodeCount(), n)
	}
}

// TestGraph_SelfLoops tests that loops count twice in degree and never cross a cut
func TestGraph_SelfLoops(t *testing.T) {
	b := NewBuilder()
	b.AddNode("a", nil)
	b.AddNode("b", nil)
	b.AddEdge("a", "a", 2)
	b.AddEdge("a", "a", 0)
	b.AddEdge("a", "b", 1)
	g := b.Build()

	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, want 2", g.EdgeCount())
	}
	deg, _ := g.WeightedDegree("a")
	if deg != 5 {
		t.Errorf("WeightedDegree(a) = %v, want 5", deg)
	}
	cut, _ := g.CutWeight([]string{"a"})
	if cut != 1 {
		t.Errorf("CutWeight(a) = %v, want 1", cut)
	}
}

// TestGraph_Attribute tests the typed optional attribute accessor
func TestGraph_Attribute(t *testing.T) {
	b := NewBuilder()
	attrs := map[string]Value{"Modularity Class": IntValue(7)}
	b.AddNode("a", attrs)
	b.AddNode("b", nil)
	attrs["Modularity Class"] = IntValue(99)
	g := b.Build()

	v, ok := g.Attribute("a", "Modularity Class")
	if !ok {
		t.Fatal("Expected attribute on a")
	}
	if n, _ := v.AsInt(); n != 7 {
		t.Errorf("Attribute = %d, want 7 (builder must copy attrs)", n)
	}
	if _, ok := g.Attribute("b", "Modularity Class"); ok {
		t.Error("Expected no attribute on b")
	}
	if _, ok := g.Attribute("ghost", "Modularity Class"); ok {
		t.Error("Expected no attribute on unknown node")
	}
}

// TestGraph_NodeMapping tests NodeFor and IDOf round trips
func TestGraph_NodeMapping(t *testing.T) {
	g := buildTriangle(t)
	for _, id := range g.Nodes() {
		n, ok := g.NodeFor(id)
		if !ok {
			t.Fatalf("NodeFor(%s) not found", id)
		}
		back, ok := g.IDOf(n.ID())
		if !ok || back != id {
			t.Errorf("IDOf(NodeFor(%s)) = %s", id, back)
		}
	}
	if _, ok := g.IDOf(99); ok {
		t.Error("IDOf(99) should not exist")
	}
}
