package cmd

import (
	"fmt"

	"github.com/budgetchat/chat-mirror/internal"
	"github.com/spf13/cobra"
)

// newCmd represents the new command
var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a conversation",
	Long: `Create an empty conversation. Its title is the configured base title
("New Chat" by default), suffixed with the first free number if taken.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = app.Close() }()

		conv, err := app.Store.Create(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to create conversation: %w", err)
		}

		internal.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Created conversation %d: %s", conv.ID, conv.Title))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
}
