package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/budgetchat/chat-mirror/internal"
	"github.com/spf13/cobra"
)

// keyCmd groups the credential subcommands
var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage the API credential",
	Long: `Manage the API credential used for assistant replies. The credential is
kept in its own owner-only file (see --key-file), never in the database.`,
}

var keySetCmd = &cobra.Command{
	Use:   "set [value]",
	Short: "Store the API credential",
	Long:  `Store the API credential. Without an argument the value is read from stdin.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		value := ""
		if len(args) > 0 {
			value = args[0]
		} else {
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("failed to read credential from stdin: %w", err)
			}
			value = line
		}
		value = strings.TrimSpace(value)
		if value == "" {
			return fmt.Errorf("credential is empty")
		}

		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = app.Close() }()

		if err := app.Credentials.Set(cmd.Context(), value); err != nil {
			return fmt.Errorf("failed to store credential: %w", err)
		}

		internal.PrintSuccess(cmd.OutOrStdout(), "Credential stored")
		return nil
	},
}

var keyCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check whether an API credential is stored",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = app.Close() }()

		if err := app.Credentials.Probe(cmd.Context()); err != nil {
			if errors.Is(err, internal.ErrCredentialNotFound) {
				internal.PrintWarning(cmd.OutOrStdout(), "No credential stored, run `chat-mirror key set`")
				return nil
			}
			return fmt.Errorf("failed to check credential: %w", err)
		}

		internal.PrintSuccess(cmd.OutOrStdout(), "Credential is set")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(keyCmd)
	keyCmd.AddCommand(keySetCmd)
	keyCmd.AddCommand(keyCheckCmd)
}
