// Package graph holds the client-side canvas graph and pure update functions
// over it. Nothing here touches the network or shared state.
package graph

import (
	"encoding/json"
	"errors"
	"fmt"
)

// NodeType identifies the block rendered for a node
type NodeType string

const (
	NodeNote NodeType = "note"
	NodeChat NodeType = "chat"
	NodePDF  NodeType = "pdf"
)

var (
	ErrDuplicateNode = errors.New("node already exists")
	ErrDuplicateEdge = errors.New("edge already exists")
	ErrSelfLoop      = errors.New("edge cannot connect a node to itself")
)

// Position is a node's location on the canvas
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is a block on the canvas. Data is kept as sent by the editor.
type Node struct {
	ID       string          `json:"id"`
	Type     NodeType        `json:"type"`
	Position Position        `json:"position"`
	Data     json.RawMessage `json:"data,omitempty"`
}

// Edge connects two nodes. Edges may outlive their endpoints on the server.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type,omitempty"`
}

// NodesUpdate computes the next node list from the previous one
type NodesUpdate func(prev []Node) []Node

// EdgesUpdate computes the next edge list from the previous one
type EdgesUpdate func(prev []Edge) []Edge

// Nodes replaces the node list with a literal value
func Nodes(nodes ...Node) NodesUpdate {
	next := cloneNodes(nodes)
	return func([]Node) []Node { return next }
}

// NodesFunc derives the node list from the previous state
func NodesFunc(fn func(prev []Node) []Node) NodesUpdate {
	return NodesUpdate(fn)
}

// Edges replaces the edge list with a literal value
func Edges(edges ...Edge) EdgesUpdate {
	next := cloneEdges(edges)
	return func([]Edge) []Edge { return next }
}

// EdgesFunc derives the edge list from the previous state
func EdgesFunc(fn func(prev []Edge) []Edge) EdgesUpdate {
	return EdgesUpdate(fn)
}

// AddNode appends n unless its id is taken
func AddNode(nodes []Node, n Node) ([]Node, error) {
	if n.ID == "" {
		return nil, errors.New("node id is required")
	}
	if FindNode(nodes, n.ID) != nil {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateNode, n.ID)
	}
	return append(cloneNodes(nodes), n), nil
}

// AddEdge appends e. Self loops and a second edge between the same ordered
// pair are rejected.
func AddEdge(edges []Edge, e Edge) ([]Edge, error) {
	if e.ID == "" {
		return nil, errors.New("edge id is required")
	}
	if e.Source == e.Target {
		return nil, ErrSelfLoop
	}
	for _, existing := range edges {
		if existing.ID == e.ID || (existing.Source == e.Source && existing.Target == e.Target) {
			return nil, fmt.Errorf("%w: %s -> %s", ErrDuplicateEdge, e.Source, e.Target)
		}
	}
	return append(cloneEdges(edges), e), nil
}

// DeleteNode removes the node and every edge that touches it
func DeleteNode(nodes []Node, edges []Edge, id string) ([]Node, []Edge) {
	keptNodes := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if n.ID != id {
			keptNodes = append(keptNodes, n)
		}
	}
	keptEdges := make([]Edge, 0, len(edges))
	for _, e := range edges {
		if e.Source != id && e.Target != id {
			keptEdges = append(keptEdges, e)
		}
	}
	return keptNodes, keptEdges
}

// DeleteEdge removes the edge with the given id
func DeleteEdge(edges []Edge, id string) []Edge {
	kept := make([]Edge, 0, len(edges))
	for _, e := range edges {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	return kept
}

// Incoming returns the edges ending at target, in list order
func Incoming(edges []Edge, target string) []Edge {
	var in []Edge
	for _, e := range edges {
		if e.Target == target {
			in = append(in, e)
		}
	}
	return in
}

// FindNode returns the node with id, or nil
func FindNode(nodes []Node, id string) *Node {
	for i := range nodes {
		if nodes[i].ID == id {
			return &nodes[i]
		}
	}
	return nil
}

// DecodeNodes parses a stored node document. Empty input is an empty list.
func DecodeNodes(raw []byte) ([]Node, error) {
	nodes := []Node{}
	if len(raw) == 0 {
		return nodes, nil
	}
	if err := json.Unmarshal(raw, &nodes); err != nil {
		return nil, fmt.Errorf("decode nodes: %w", err)
	}
	return nodes, nil
}

// DecodeEdges parses a stored edge document. Empty input is an empty list.
func DecodeEdges(raw []byte) ([]Edge, error) {
	edges := []Edge{}
	if len(raw) == 0 {
		return edges, nil
	}
	if err := json.Unmarshal(raw, &edges); err != nil {
		return nil, fmt.Errorf("decode edges: %w", err)
	}
	return edges, nil
}

// Encode renders nodes and edges as the JSON arrays the API stores
func Encode(nodes []Node, edges []Edge) (json.RawMessage, json.RawMessage, error) {
	if nodes == nil {
		nodes = []Node{}
	}
	if edges == nil {
		edges = []Edge{}
	}
	n, err := json.Marshal(nodes)
	if err != nil {
		return nil, nil, fmt.Errorf("encode nodes: %w", err)
	}
	e, err := json.Marshal(edges)
	if err != nil {
		return nil, nil, fmt.Errorf("encode edges: %w", err)
	}
	return n, e, nil
}

func cloneNodes(nodes []Node) []Node {
	out := make([]Node, len(nodes))
	copy(out, nodes)
	return out
}

func cloneEdges(edges []Edge) []Edge {
	out := make([]Edge, len(edges))
	copy(out, edges)
	return out
}
