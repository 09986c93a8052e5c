package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Labib591/zyra/pkg/workspace"
)

func runNotesList(cmd *cobra.Command, args []string) error {
	c, err := requireToken()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()

	notes, err := c.ListNotes(ctx, args[0])
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), notes)
	}

	tw := newTable(cmd.OutOrStdout(), "NOTE", "UPDATED", "CONTENT")
	for _, n := range notes {
		row(tw, n.ID, stamp(n.UpdatedAt), truncate(n.Content, 60))
	}
	return tw.Flush()
}

// runNotesSet updates the note, creating it when the server has none
func runNotesSet(cmd *cobra.Command, args []string) error {
	canvasID, noteID, content := args[0], args[1], args[2]

	return withWorkspace(cmd, canvasID, func(ctx context.Context, ws *workspace.Workspace) error {
		note, err := ws.SaveNote(ctx, noteID, content)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), note)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved note %s\n", note.ID)
		return nil
	})
}

func runNotesDelete(cmd *cobra.Command, args []string) error {
	return withWorkspace(cmd, args[0], func(ctx context.Context, ws *workspace.Workspace) error {
		if err := ws.DeleteNote(ctx, args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted note %s\n", args[1])
		return nil
	})
}
