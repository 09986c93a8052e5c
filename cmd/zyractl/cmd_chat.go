package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Labib591/zyra/pkg/workspace"
)

func runChatSend(cmd *cobra.Command, args []string) error {
	c, err := requireToken()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()

	canvasID, nodeID, text := args[0], args[1], args[2]
	ws, err := workspace.Open(ctx, c, canvasID, newLogger())
	if err != nil {
		return err
	}
	defer ws.Close()

	reply, err := ws.Chat.Send(ctx, nodeID, text)
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), reply)
	}
	fmt.Fprintln(cmd.OutOrStdout(), reply.Content)
	return nil
}

func runChatHistory(cmd *cobra.Command, args []string) error {
	c, err := requireToken()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()

	messages, err := c.ListMessages(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), messages)
	}
	for _, m := range messages {
		fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s: %s\n", stamp(m.CreatedAt), m.Role, m.Content)
	}
	return nil
}

func runChatClear(cmd *cobra.Command, args []string) error {
	c, err := requireToken()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()

	result, err := c.DeleteBlockMessages(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d messages\n", result.DeletedCount)
	return nil
}
