package cmd

import (
	"fmt"

	"github.com/budgetchat/chat-mirror/internal"
	"github.com/spf13/cobra"
)

// openApp resolves the config, opens the database and loads the store
func openApp(cmd *cobra.Command) (*internal.App, error) {
	cfg, err := internal.LoadConfig(v)
	if err != nil {
		return nil, err
	}

	ctx := cmd.Context()
	app, err := internal.OpenApp(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := app.Store.Load(ctx); err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("failed to load conversations: %w", err)
	}
	return app, nil
}

// selectConversation makes id the active conversation, or keeps the current
// one when id is 0
func selectConversation(app *internal.App, id int64) (internal.Conversation, error) {
	if id != 0 && !app.Store.Select(id) {
		return internal.Conversation{}, fmt.Errorf("%w: %d (use 'chat-mirror list' to see available conversations)", internal.ErrConversationNotFound, id)
	}
	conv, ok := app.Store.ActiveConversation()
	if !ok {
		return internal.Conversation{}, fmt.Errorf("no conversations yet, create one with 'chat-mirror new'")
	}
	return conv, nil
}
