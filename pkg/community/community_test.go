package community

import (
	"errors"
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-conductance/pkg/graph"
	"github.com/dd0wney/cluso-conductance/pkg/graph/graphtest"
)

// TestExtract_TwoCliques tests grouping by modularity class
func TestExtract_TwoCliques(t *testing.T) {
	g := graphtest.TwoCliques(5)

	comms, err := Extract(g, ModularityClass)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(comms) != 2 {
		t.Fatalf("Expected 2 communities, got %d", len(comms))
	}

	if !comms[0].Label.Equal(graph.IntValue(0)) {
		t.Errorf("Expected first label 0, got %s", comms[0].Label)
	}
	assert.Equal(t, []string{"a0", "a1", "a2", "a3", "a4"}, comms[0].Nodes)
	assert.Equal(t, []string{"b0", "b1", "b2", "b3", "b4"}, comms[1].Nodes)
	assert.Equal(t, 5, comms[1].Size())
}

// TestExtract_FirstSeenOrder tests that communities follow first appearance
func TestExtract_FirstSeenOrder(t *testing.T) {
	g := graphtest.Build(
		[]string{"n1", "n2", "n3", "n4", "n5"},
		map[string]int64{"n1": 7, "n2": 2, "n3": 7, "n4": 9, "n5": 2},
		nil,
	)

	comms, err := Extract(g, ModularityClass)
	require.NoError(t, err)
	require.Len(t, comms, 3)

	var labels []int64
	for _, c := range comms {
		l, err := c.Label.AsInt()
		require.NoError(t, err)
		labels = append(labels, l)
	}
	assert.Equal(t, []int64{7, 2, 9}, labels)
	assert.Equal(t, []string{"n1", "n3"}, comms[0].Nodes)
	assert.Equal(t, []string{"n2", "n5"}, comms[1].Nodes)
}

// TestExtract_SingleLabel tests a graph where every node shares one class
func TestExtract_SingleLabel(t *testing.T) {
	g := graphtest.Build([]string{"x", "y"}, map[string]int64{"x": 1, "y": 1}, nil)

	comms, err := Extract(g, ModularityClass)
	require.NoError(t, err)
	require.Len(t, comms, 1)
	assert.Equal(t, 2, comms[0].Size())
}

// TestExtract_MissingAttribute tests the error for an unlabelled node
func TestExtract_MissingAttribute(t *testing.T) {
	g := graphtest.Build([]string{"x", "y", "z"}, map[string]int64{"x": 0, "z": 1}, nil)

	_, err := Extract(g, ModularityClass)
	if !errors.Is(err, ErrMissingAttribute) {
		t.Fatalf("Expected ErrMissingAttribute, got %v", err)
	}

	var mae *MissingAttributeError
	if !errors.As(err, &mae) {
		t.Fatalf("Expected *MissingAttributeError, got %T", err)
	}
	if mae.NodeID != "y" || mae.Attribute != ModularityClass {
		t.Errorf("Unexpected error fields: %+v", mae)
	}
}

// TestExtract_KindsDoNotMerge tests that labels of different kinds stay apart
func TestExtract_KindsDoNotMerge(t *testing.T) {
	b := graph.NewBuilder()
	require.NoError(t, b.AddNode("i", map[string]graph.Value{"c": graph.IntValue(3)}))
	require.NoError(t, b.AddNode("f", map[string]graph.Value{"c": graph.FloatValue(3)}))
	require.NoError(t, b.AddNode("s", map[string]graph.Value{"c": graph.StringValue("3")}))
	require.NoError(t, b.AddNode("i2", map[string]graph.Value{"c": graph.IntValue(3)}))

	comms, err := Extract(b.Build(), "c")
	require.NoError(t, err)
	require.Len(t, comms, 3)
	assert.Equal(t, []string{"i", "i2"}, comms[0].Nodes)
}

// TestExtract_EmptyGraph tests that an empty graph has no communities
func TestExtract_EmptyGraph(t *testing.T) {
	comms, err := Extract(graph.NewBuilder().Build(), ModularityClass)
	require.NoError(t, err)
	assert.Empty(t, comms)
}

func TestCheckPartition(t *testing.T) {
	g := graphtest.TwoCliques(3)
	comms, err := Extract(g, ModularityClass)
	require.NoError(t, err)
	require.NoError(t, CheckPartition(g, comms))

	tests := []struct {
		name  string
		comms []Community
	}{
		{"missing node", []Community{{Nodes: []string{"a0", "a1", "a2"}}, {Nodes: []string{"b0", "b1"}}}},
		{"overlap", append(comms, Community{Nodes: []string{"a0"}})},
		{"unknown node", append(comms, Community{Nodes: []string{"zz"}})},
		{"empty community", append(comms, Community{})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckPartition(g, tt.comms)
			assert.ErrorIs(t, err, ErrNotPartition)
		})
	}
}

// TestModularity_TwoCliques tests Q = 19/42 for two bridged 5-cliques
func TestModularity_TwoCliques(t *testing.T) {
	g := graphtest.TwoCliques(5)
	comms, err := Extract(g, ModularityClass)
	require.NoError(t, err)

	q, err := Modularity(g, comms, 1)
	require.NoError(t, err)
	assert.InDelta(t, 19.0/42.0, q, 1e-9)

	whole := []Community{{Label: graph.IntValue(0), Nodes: g.Nodes()}}
	q, err = Modularity(g, whole, 1)
	require.NoError(t, err)
	assert.InDelta(t, 0, q, 1e-9)
}

func TestModularity_NoEdges(t *testing.T) {
	g := graphtest.Build([]string{"x", "y"}, map[string]int64{"x": 0, "y": 1}, nil)
	comms, err := Extract(g, ModularityClass)
	require.NoError(t, err)

	q, err := Modularity(g, comms, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, q)
}

func TestModularity_RejectsNonPartition(t *testing.T) {
	g := graphtest.TwoCliques(3)
	_, err := Modularity(g, []Community{{Nodes: []string{"a0"}}}, 1)
	assert.ErrorIs(t, err, ErrNotPartition)
}

// TestExtractProperties checks that extraction always partitions the graph
func TestExtractProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	properties.Property("communities partition the node set", prop.ForAll(
		func(classes []int) bool {
			ids := make([]string, len(classes))
			labels := make(map[string]int64, len(classes))
			for i, c := range classes {
				ids[i] = fmt.Sprintf("n%d", i)
				labels[ids[i]] = int64(c)
			}
			g := graphtest.Build(ids, labels, nil)

			comms, err := Extract(g, ModularityClass)
			if err != nil {
				return false
			}
			return CheckPartition(g, comms) == nil
		},
		gen.SliceOf(gen.IntRange(0, 5)),
	))

	properties.Property("every member carries its community label", prop.ForAll(
		func(classes []int) bool {
			ids := make([]string, len(classes))
			labels := make(map[string]int64, len(classes))
			for i, c := range classes {
				ids[i] = fmt.Sprintf("n%d", i)
				labels[ids[i]] = int64(c)
			}
			g := graphtest.Build(ids, labels, nil)

			comms, err := Extract(g, ModularityClass)
			if err != nil {
				return false
			}
			for _, c := range comms {
				for _, id := range c.Nodes {
					v, ok := g.Attribute(id, ModularityClass)
					if !ok || !v.Equal(c.Label) {
						return false
					}
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 5)),
	))

	properties.TestingRun(t)
}
