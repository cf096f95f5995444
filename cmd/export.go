package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/budgetchat/chat-mirror/internal"
	"github.com/budgetchat/chat-mirror/internal/export"
	"github.com/spf13/cobra"
)

var (
	format         string
	outputDir      string
	conversationID int64
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export conversations to files",
	Long: `Export conversations to various formats (jsonl, md, yaml, json).

You can export all conversations or a specific one by ID. Each conversation
is written to its own file, conversation_<id>.<ext>, in the output directory.
Use 'chat-mirror list' to see available conversation IDs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		exporter, err := export.NewExporter(format)
		if err != nil {
			return err
		}

		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = app.Close() }()

		conversations := app.Store.Conversations()
		if conversationID != 0 {
			conv, ok := app.Store.Conversation(conversationID)
			if !ok {
				return fmt.Errorf("%w: %d (use 'chat-mirror list' to see available conversations)", internal.ErrConversationNotFound, conversationID)
			}
			conversations = []internal.Conversation{conv}
		}

		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return &internal.ExportError{Format: format, Path: outputDir, Err: err}
		}

		exported := 0
		err = internal.ShowProgress(cmd.Context(), fmt.Sprintf("Exporting %d conversation(s) to %s", len(conversations), outputDir), func() error {
			for i := range conversations {
				conv := &conversations[i]
				path := filepath.Join(outputDir, export.FileName(conv, exporter))

				if err := exportToFile(exporter, conv, path); err != nil {
					internal.PrintError(cmd.ErrOrStderr(), fmt.Sprintf("Failed to export conversation %d: %v", conv.ID, err))
					continue
				}
				exported++
			}
			return nil
		})
		if err != nil {
			return err
		}

		if exported < len(conversations) {
			return fmt.Errorf("exported %d of %d conversation(s)", exported, len(conversations))
		}

		internal.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Export complete: %d conversation(s) exported to %s", exported, outputDir))
		return nil
	},
}

func exportToFile(exporter export.Exporter, conv *internal.Conversation, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return &internal.ExportError{Format: exporter.Extension(), Path: path, Err: err}
	}

	if err := exporter.Export(conv, file); err != nil {
		_ = file.Close()
		return &internal.ExportError{Format: exporter.Extension(), Path: path, Err: err}
	}

	if err := file.Close(); err != nil {
		return &internal.ExportError{Format: exporter.Extension(), Path: path, Err: err}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&format, "format", "f", "jsonl", "Export format (jsonl, md, yaml, json)")
	exportCmd.Flags().StringVarP(&outputDir, "out", "o", "./exports", "Output directory")
	exportCmd.Flags().Int64Var(&conversationID, "id", 0, "Export a specific conversation by ID")
}
