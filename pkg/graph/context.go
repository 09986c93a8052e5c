package graph

import "strings"

// ContextSeparator joins the text of every source feeding a chat node
const ContextSeparator = "\n\n"

// TextLookup returns the text a node contributes to chat context: note
// content or extracted PDF text. Unknown nodes yield "".
type TextLookup func(node Node) string

// AssembleContext gathers the text of every node with an edge into the chat
// node, in edge order. Pieces that are blank and edges from missing nodes are
// dropped. Other pieces are passed through as they are.
func AssembleContext(nodes []Node, edges []Edge, chatNodeID string, lookup TextLookup) string {
	var pieces []string
	for _, e := range Incoming(edges, chatNodeID) {
		source := FindNode(nodes, e.Source)
		if source == nil {
			continue
		}
		text := lookup(*source)
		if strings.TrimSpace(text) != "" {
			pieces = append(pieces, text)
		}
	}
	return strings.Join(pieces, ContextSeparator)
}
