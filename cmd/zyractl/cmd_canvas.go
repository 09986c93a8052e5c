package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Labib591/zyra/pkg/client"
	"github.com/Labib591/zyra/pkg/graph"
	"github.com/Labib591/zyra/pkg/workspace"
)

func runCanvasesList(cmd *cobra.Command, args []string) error {
	c, err := requireToken()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()

	canvases, err := c.ListCanvases(ctx)
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), canvases)
	}

	tw := newTable(cmd.OutOrStdout(), "ID", "TITLE", "UPDATED")
	for _, cv := range canvases {
		row(tw, cv.ID, cv.Title, stamp(cv.UpdatedAt))
	}
	return tw.Flush()
}

func runCanvasesCreate(cmd *cobra.Command, args []string) error {
	c, err := requireToken()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()

	var in client.CanvasInput
	if len(args) == 1 {
		in.Title = args[0]
	}
	canvas, err := c.CreateCanvas(ctx, in)
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), canvas)
	}
	fmt.Fprintln(cmd.OutOrStdout(), canvas.ID)
	return nil
}

func runCanvasesShow(cmd *cobra.Command, args []string) error {
	c, err := requireToken()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()

	data, err := c.GetCanvas(ctx, args[0])
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), data)
	}

	nodes, err := graph.DecodeNodes(data.Nodes)
	if err != nil {
		return err
	}
	edges, err := graph.DecodeEdges(data.Edges)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s  %s\n", data.ID, data.Title)
	fmt.Fprintf(out, "nodes: %d  edges: %d  notes: %d  messages: %d  pdfs: %d\n\n",
		len(nodes), len(edges), len(data.Notes), len(data.Messages), len(data.PDFs))

	tw := newTable(out, "NODE", "TYPE", "INPUTS", "TEXT")
	for _, n := range nodes {
		text := ""
		switch n.Type {
		case graph.NodeNote:
			if note := data.Note(n.ID); note != nil {
				text = note.Content
			}
		case graph.NodePDF:
			if pdf := data.PDF(n.ID); pdf != nil {
				text = pdf.FileName
			}
		}
		row(tw, n.ID, n.Type, len(graph.Incoming(edges, n.ID)), truncate(text, 48))
	}
	return tw.Flush()
}

func runCanvasesRename(cmd *cobra.Command, args []string) error {
	c, err := requireToken()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()

	title := args[1]
	canvas, err := c.UpdateCanvas(ctx, args[0], client.CanvasPatch{Title: &title})
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), canvas)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %q\n", canvas.ID, canvas.Title)
	return nil
}

func runCanvasesDelete(cmd *cobra.Command, args []string) error {
	c, err := requireToken()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()

	if err := c.DeleteCanvas(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
	return nil
}

// withWorkspace opens the canvas, runs fn against it and saves any graph
// change on close.
func withWorkspace(cmd *cobra.Command, canvasID string, fn func(ctx context.Context, ws *workspace.Workspace) error) error {
	c, err := requireToken()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()

	saved := make(chan error, 1)
	ws, err := workspace.Open(ctx, c, canvasID, newLogger(),
		workspace.WithSaveHook(func(_ string, err error) {
			select {
			case saved <- err:
			default:
			}
		}),
	)
	if err != nil {
		return err
	}

	fnErr := fn(ctx, ws)
	ws.Close()
	if fnErr != nil {
		return fnErr
	}

	select {
	case err := <-saved:
		return err
	default:
		return nil
	}
}

func runGraphAddNode(cmd *cobra.Command, args []string) error {
	canvasID, nodeID := args[0], args[1]
	nodeType := graph.NodeType(args[2])
	switch nodeType {
	case graph.NodeNote, graph.NodeChat, graph.NodePDF:
	default:
		return fmt.Errorf("unknown node type %q: want note, chat or pdf", args[2])
	}

	return withWorkspace(cmd, canvasID, func(_ context.Context, ws *workspace.Workspace) error {
		snap := ws.Store.Snapshot()
		next, err := graph.AddNode(snap.Nodes, graph.Node{
			ID:       nodeID,
			Type:     nodeType,
			Position: graph.Position{X: float64(len(snap.Nodes) * 240)},
		})
		if err != nil {
			return err
		}
		ws.Store.SetNodes(graph.Nodes(next...))
		return nil
	})
}

func runGraphConnect(cmd *cobra.Command, args []string) error {
	canvasID, source, target := args[0], args[1], args[2]

	return withWorkspace(cmd, canvasID, func(_ context.Context, ws *workspace.Workspace) error {
		snap := ws.Store.Snapshot()
		for _, id := range []string{source, target} {
			if graph.FindNode(snap.Nodes, id) == nil {
				return fmt.Errorf("node %s not found on canvas", id)
			}
		}
		next, err := graph.AddEdge(snap.Edges, graph.Edge{
			ID:     fmt.Sprintf("e-%s-%s", source, target),
			Source: source,
			Target: target,
		})
		if err != nil {
			return err
		}
		ws.Store.SetEdges(graph.Edges(next...))
		return nil
	})
}

func runGraphDeleteNode(cmd *cobra.Command, args []string) error {
	canvasID, nodeID := args[0], args[1]

	return withWorkspace(cmd, canvasID, func(ctx context.Context, ws *workspace.Workspace) error {
		if err := ws.RemoveBlock(ctx, nodeID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted node %s\n", nodeID)
		return nil
	})
}
