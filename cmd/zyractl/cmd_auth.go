package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func runRegister(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	user, err := newClient().Register(ctx, registerName, registerEmail, registerPassword)
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), user)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Registered %s (%s)\n", user.Email, user.ID)
	return nil
}

func runLogin(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	session, err := newClient().Login(ctx, loginEmail, loginPassword)
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), session)
	}
	fmt.Fprintln(cmd.OutOrStdout(), session.Token)
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	c, err := requireToken()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()

	user, err := c.Session(ctx)
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), user)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> (%s)\n", user.Name, user.Email, user.ID)
	return nil
}
