package cmd

import (
	"fmt"
	"strconv"

	"github.com/budgetchat/chat-mirror/internal"
	"github.com/spf13/cobra"
)

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:     "delete <conversation-id>",
	Aliases: []string{"rm"},
	Short:   "Delete a conversation and its messages",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseConversationID(args[0])
		if err != nil {
			return err
		}

		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = app.Close() }()

		if err := app.Store.Remove(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to delete conversation %d: %w", id, err)
		}

		internal.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Deleted conversation %d", id))
		if next, ok := app.Store.ActiveConversation(); ok {
			internal.PrintInfo(cmd.OutOrStdout(), fmt.Sprintf("Active conversation is now %d: %s", next.ID, next.Title))
		}
		return nil
	},
}

func parseConversationID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid conversation id %q: must be a positive integer", s)
	}
	return id, nil
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
