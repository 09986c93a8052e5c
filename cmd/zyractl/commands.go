package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Labib591/zyra/pkg/client"
)

const defaultServerURL = "http://localhost:8080"

// --- Global Command Variables ---
var (
	serverURL   string
	authToken   string
	jsonOutput  bool
	verbose     bool
	callTimeout time.Duration

	rootCmd = &cobra.Command{
		Use:           "zyractl",
		Short:         "Command line client for the Zyra canvas API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// --- Auth ---
	registerCmd = &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE:  runRegister,
	}
	loginCmd = &cobra.Command{
		Use:   "login",
		Short: "Sign in and print a session token (export it as ZYRA_TOKEN)",
		Args:  cobra.NoArgs,
		RunE:  runLogin,
	}
	whoamiCmd = &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE:  runWhoami,
	}

	// --- Canvases ---
	canvasesCmd = &cobra.Command{
		Use:     "canvases",
		Short:   "Manage canvases",
		Aliases: []string{"canvas", "c"},
	}
	canvasesListCmd = &cobra.Command{
		Use:   "list",
		Short: "List your canvases, newest first",
		Args:  cobra.NoArgs,
		RunE:  runCanvasesList,
	}
	canvasesCreateCmd = &cobra.Command{
		Use:   "create [title]",
		Short: "Create a canvas",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCanvasesCreate,
	}
	canvasesShowCmd = &cobra.Command{
		Use:   "show <canvas-id>",
		Short: "Show a canvas with its notes, messages and PDFs",
		Args:  cobra.ExactArgs(1),
		RunE:  runCanvasesShow,
	}
	canvasesRenameCmd = &cobra.Command{
		Use:   "rename <canvas-id> <title>",
		Short: "Change a canvas title without touching its graph",
		Args:  cobra.ExactArgs(2),
		RunE:  runCanvasesRename,
	}
	canvasesDeleteCmd = &cobra.Command{
		Use:   "delete <canvas-id>",
		Short: "Delete a canvas and everything on it",
		Args:  cobra.ExactArgs(1),
		RunE:  runCanvasesDelete,
	}

	// --- Graph ---
	graphCmd = &cobra.Command{
		Use:   "graph",
		Short: "Edit the nodes and edges of a canvas",
	}
	graphAddNodeCmd = &cobra.Command{
		Use:   "add-node <canvas-id> <node-id> <note|chat|pdf>",
		Short: "Add a node",
		Args:  cobra.ExactArgs(3),
		RunE:  runGraphAddNode,
	}
	graphConnectCmd = &cobra.Command{
		Use:   "connect <canvas-id> <source-id> <target-id>",
		Short: "Connect two nodes",
		Args:  cobra.ExactArgs(3),
		RunE:  runGraphConnect,
	}
	graphDeleteNodeCmd = &cobra.Command{
		Use:   "delete-node <canvas-id> <node-id>",
		Short: "Delete a node and its edges",
		Args:  cobra.ExactArgs(2),
		RunE:  runGraphDeleteNode,
	}

	// --- Notes ---
	notesCmd = &cobra.Command{
		Use:   "notes",
		Short: "Manage note contents",
	}
	notesListCmd = &cobra.Command{
		Use:   "list <canvas-id>",
		Short: "List the notes of a canvas",
		Args:  cobra.ExactArgs(1),
		RunE:  runNotesList,
	}
	notesSetCmd = &cobra.Command{
		Use:   "set <canvas-id> <note-id> <content>",
		Short: "Create or replace the text of a note",
		Args:  cobra.ExactArgs(3),
		RunE:  runNotesSet,
	}
	notesDeleteCmd = &cobra.Command{
		Use:   "delete <canvas-id> <note-id>",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(2),
		RunE:  runNotesDelete,
	}

	// --- PDFs ---
	pdfCmd = &cobra.Command{
		Use:   "pdf",
		Short: "Attach documents to pdf nodes",
	}
	pdfUploadCmd = &cobra.Command{
		Use:   "upload <canvas-id> <block-id> <file>",
		Short: "Upload a PDF (10MB max)",
		Args:  cobra.ExactArgs(3),
		RunE:  runPDFUpload,
	}
	pdfDeleteCmd = &cobra.Command{
		Use:   "delete <canvas-id> <block-id>",
		Short: "Remove the PDF of a block",
		Args:  cobra.ExactArgs(2),
		RunE:  runPDFDelete,
	}

	// --- Chat ---
	chatCmd = &cobra.Command{
		Use:   "chat",
		Short: "Talk to the assistant from a chat node",
	}
	chatSendCmd = &cobra.Command{
		Use:   "send <canvas-id> <chat-node-id> <message>",
		Short: "Send a message using the notes and PDFs connected to the node as context",
		Args:  cobra.ExactArgs(3),
		RunE:  runChatSend,
	}
	chatHistoryCmd = &cobra.Command{
		Use:   "history <canvas-id> <chat-node-id>",
		Short: "Show the conversation of a chat node",
		Args:  cobra.ExactArgs(2),
		RunE:  runChatHistory,
	}
	chatClearCmd = &cobra.Command{
		Use:   "clear <canvas-id> <chat-node-id>",
		Short: "Delete the conversation of a chat node",
		Args:  cobra.ExactArgs(2),
		RunE:  runChatClear,
	}
)

var (
	registerName     string
	registerEmail    string
	registerPassword string
	loginEmail       string
	loginPassword    string
)

func init() {
	serverDefault := os.Getenv("ZYRA_URL")
	if serverDefault == "" {
		serverDefault = defaultServerURL
	}
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", serverDefault, "API base URL (env ZYRA_URL)")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", os.Getenv("ZYRA_TOKEN"), "Session token (env ZYRA_TOKEN)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print raw JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log requests and autosaves")
	rootCmd.PersistentFlags().DurationVar(&callTimeout, "timeout", 2*time.Minute, "Overall time limit for the command")

	registerCmd.Flags().StringVar(&registerName, "name", "", "Display name")
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "Email address")
	registerCmd.Flags().StringVar(&registerPassword, "password", "", "Password (8 characters or more)")
	_ = registerCmd.MarkFlagRequired("email")
	_ = registerCmd.MarkFlagRequired("password")

	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Email address")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Password")
	_ = loginCmd.MarkFlagRequired("email")
	_ = loginCmd.MarkFlagRequired("password")

	canvasesCmd.AddCommand(canvasesListCmd, canvasesCreateCmd, canvasesShowCmd, canvasesRenameCmd, canvasesDeleteCmd)
	graphCmd.AddCommand(graphAddNodeCmd, graphConnectCmd, graphDeleteNodeCmd)
	notesCmd.AddCommand(notesListCmd, notesSetCmd, notesDeleteCmd)
	pdfCmd.AddCommand(pdfUploadCmd, pdfDeleteCmd)
	chatCmd.AddCommand(chatSendCmd, chatHistoryCmd, chatClearCmd)

	rootCmd.AddCommand(registerCmd, loginCmd, whoamiCmd, canvasesCmd, graphCmd, notesCmd, pdfCmd, chatCmd)
}

// newClient builds an API client from the global flags
func newClient() *client.Client {
	return client.New(serverURL, client.WithToken(authToken))
}

// requireToken fails early for commands that need a session
func requireToken() (*client.Client, error) {
	if authToken == "" {
		return nil, errors.New("not signed in: run 'zyractl login' and set ZYRA_TOKEN, or pass --token")
	}
	return newClient(), nil
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), callTimeout)
}

func newLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
