package cmd

import (
	"fmt"
	"strings"

	"github.com/budgetchat/chat-mirror/internal"
	"github.com/spf13/cobra"
)

var (
	sendConversationID int64
	sendRole           string
	sendImages         []string
	sendReply          bool
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send <text>",
	Short: "Append a message to a conversation",
	Long: `Append a message to a conversation. Without --id the newest conversation
is used.

Image URLs given with --image turn the message into structured content:
the text block first, then one image block per URL. With --reply the
conversation is sent to the configured chat model and the answer is stored
as an assistant message.`,
	Args: cobra.RangeArgs(0, 1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := ""
		if len(args) > 0 {
			text = args[0]
		}
		if strings.TrimSpace(text) == "" && len(sendImages) == 0 {
			return fmt.Errorf("nothing to send: provide text or --image")
		}

		role, err := internal.ParseRole(sendRole)
		if err != nil {
			return err
		}

		content := buildContent(text, sendImages)

		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = app.Close() }()

		conv, err := selectConversation(app, sendConversationID)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		msg, err := app.Store.AppendMessage(ctx, conv.ID, role, content)
		if err != nil {
			return fmt.Errorf("failed to send message: %w", err)
		}
		internal.PrintSuccess(out, fmt.Sprintf("Added %s message %d to conversation %d", msg.Role, msg.ID, conv.ID))

		if !sendReply {
			return nil
		}

		responder, err := app.Responder(ctx)
		if err != nil {
			return err
		}

		conv, _ = app.Store.Conversation(conv.ID)
		var reply string
		err = internal.ShowProgress(ctx, fmt.Sprintf("Waiting for %s", app.Config.Model), func() error {
			var replyErr error
			reply, replyErr = responder.Reply(ctx, conv.Messages)
			return replyErr
		})
		if err != nil {
			return fmt.Errorf("failed to get reply: %w", err)
		}

		answer, err := app.Store.AppendMessage(ctx, conv.ID, internal.RoleAssistant, internal.Text(reply))
		if err != nil {
			return fmt.Errorf("failed to store reply: %w", err)
		}

		_, _ = fmt.Fprintln(out)
		displayMessage(out, len(conv.Messages)+1, *answer, len(conv.Messages)+1)
		return nil
	},
}

// buildContent returns plain text, or blocks when image URLs are attached
func buildContent(text string, images []string) internal.MessageContent {
	if len(images) == 0 {
		return internal.Text(text)
	}
	blocks := make(internal.Blocks, 0, len(images)+1)
	if strings.TrimSpace(text) != "" {
		blocks = append(blocks, internal.TextBlock{Text: text})
	}
	for _, url := range images {
		blocks = append(blocks, internal.ImageBlock{URL: url})
	}
	return blocks
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().Int64Var(&sendConversationID, "id", 0, "Conversation to append to (default: newest)")
	sendCmd.Flags().StringVar(&sendRole, "role", string(internal.RoleUser), "Message role (user, assistant, system)")
	sendCmd.Flags().StringSliceVar(&sendImages, "image", nil, "Attach an image URL (repeatable)")
	sendCmd.Flags().BoolVar(&sendReply, "reply", false, "Request an assistant reply after sending")
}
