package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Labib591/zyra/pkg/workspace"
)

func runPDFUpload(cmd *cobra.Command, args []string) error {
	canvasID, blockID, path := args[0], args[1], args[2]
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return withWorkspace(cmd, canvasID, func(ctx context.Context, ws *workspace.Workspace) error {
		pdf, err := ws.UploadPDF(ctx, blockID, filepath.Base(path), f)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), pdf)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s (%d bytes, %d characters of text)\n%s\n",
			pdf.FileName, pdf.FileSize, len([]rune(pdf.ExtractedText)), pdf.FileURL)
		return nil
	})
}

func runPDFDelete(cmd *cobra.Command, args []string) error {
	return withWorkspace(cmd, args[0], func(ctx context.Context, ws *workspace.Workspace) error {
		if err := ws.DeletePDF(ctx, args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted PDF for block %s\n", args[1])
		return nil
	})
}
