package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleGraph() ([]Node, []Edge) {
	nodes := []Node{
		{ID: "n1", Type: NodeNote},
		{ID: "n2", Type: NodeNote},
		{ID: "c1", Type: NodeChat},
	}
	edges := []Edge{
		{ID: "e1", Source: "n1", Target: "c1"},
		{ID: "e2", Source: "n2", Target: "c1"},
		{ID: "e3", Source: "n1", Target: "n2"},
	}
	return nodes, edges
}

func TestDeleteNode_CascadesEdges(t *testing.T) {
	nodes, edges := sampleGraph()

	gotNodes, gotEdges := DeleteNode(nodes, edges, "n1")

	require.Len(t, gotNodes, 2)
	assert.Nil(t, FindNode(gotNodes, "n1"))
	require.Len(t, gotEdges, 1)
	assert.Equal(t, "e2", gotEdges[0].ID)
	for _, e := range gotEdges {
		assert.NotEqual(t, "n1", e.Source)
		assert.NotEqual(t, "n1", e.Target)
	}
	// input untouched
	assert.Len(t, nodes, 3)
	assert.Len(t, edges, 3)
}

func TestDeleteEdge(t *testing.T) {
	_, edges := sampleGraph()

	got := DeleteEdge(edges, "e2")
	assert.Len(t, got, 2)
	assert.Len(t, DeleteEdge(got, "missing"), 2)
}

func TestAddNode(t *testing.T) {
	nodes, _ := sampleGraph()

	got, err := AddNode(nodes, Node{ID: "p1", Type: NodePDF})
	require.NoError(t, err)
	assert.Len(t, got, 4)

	_, err = AddNode(nodes, Node{ID: "n1"})
	assert.ErrorIs(t, err, ErrDuplicateNode)

	_, err = AddNode(nodes, Node{})
	assert.Error(t, err)
}

func TestAddEdge(t *testing.T) {
	_, edges := sampleGraph()

	tests := []struct {
		name    string
		edge    Edge
		wantErr error
	}{
		{"new edge", Edge{ID: "e4", Source: "n2", Target: "n1"}, nil},
		{"self loop", Edge{ID: "e5", Source: "c1", Target: "c1"}, ErrSelfLoop},
		{"same pair", Edge{ID: "e6", Source: "n1", Target: "c1"}, ErrDuplicateEdge},
		{"same id", Edge{ID: "e1", Source: "c1", Target: "n2"}, ErrDuplicateEdge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AddEdge(edges, tt.edge)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, len(edges)+1)
		})
	}
}

func TestUpdates(t *testing.T) {
	nodes, _ := sampleGraph()

	literal := Nodes(Node{ID: "x"})
	assert.Equal(t, []Node{{ID: "x"}}, literal(nodes))

	appended := NodesFunc(func(prev []Node) []Node {
		next, _ := AddNode(prev, Node{ID: "y"})
		return next
	})
	assert.Len(t, appended(nodes), 4)

	none := Edges()
	assert.Empty(t, none(nil))
}

func TestEncodeDecode(t *testing.T) {
	nodes, edges := sampleGraph()

	rawNodes, rawEdges, err := Encode(nodes, edges)
	require.NoError(t, err)

	gotNodes, err := DecodeNodes(rawNodes)
	require.NoError(t, err)
	assert.Equal(t, nodes, gotNodes)

	gotEdges, err := DecodeEdges(rawEdges)
	require.NoError(t, err)
	assert.Equal(t, edges, gotEdges)

	empty, err := DecodeNodes(nil)
	require.NoError(t, err)
	assert.NotNil(t, empty)

	n, e, err := Encode(nil, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(n))
	assert.JSONEq(t, `[]`, string(e))

	_, err = DecodeEdges([]byte(`{"id":"e1"}`))
	assert.Error(t, err)
}

func TestAssembleContext(t *testing.T) {
	text := map[string]string{
		"n1": "  foo  ",
		"n2": "",
		"n3": " \n\t ",
		"p1": "pdf body",
	}
	lookup := func(n Node) string { return text[n.ID] }

	t.Run("single note", func(t *testing.T) {
		nodes := []Node{{ID: "n1", Type: NodeNote}, {ID: "c1", Type: NodeChat}}
		edges := []Edge{{ID: "e1", Source: "n1", Target: "c1"}}

		assert.Equal(t, "  foo  ", AssembleContext(nodes, edges, "c1", lookup))
	})

	t.Run("edge order and blank pieces", func(t *testing.T) {
		nodes := []Node{{ID: "n1"}, {ID: "n2"}, {ID: "n3"}, {ID: "p1", Type: NodePDF}, {ID: "c1", Type: NodeChat}}
		edges := []Edge{
			{ID: "e1", Source: "p1", Target: "c1"},
			{ID: "e2", Source: "n2", Target: "c1"},
			{ID: "e3", Source: "n3", Target: "c1"},
			{ID: "e4", Source: "n1", Target: "c1"},
			{ID: "e5", Source: "n1", Target: "p1"},
		}

		assert.Equal(t, "pdf body\n\n  foo  ", AssembleContext(nodes, edges, "c1", lookup))
	})

	t.Run("dangling edge ignored", func(t *testing.T) {
		nodes := []Node{{ID: "c1", Type: NodeChat}}
		edges := []Edge{{ID: "e1", Source: "gone", Target: "c1"}}

		assert.Equal(t, "", AssembleContext(nodes, edges, "c1", lookup))
	})
}
