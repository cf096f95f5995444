package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/budgetchat/chat-mirror/internal"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42")).
		Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	failStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check that the database and credential are usable",
	Long: `Check the health of chat-mirror by verifying:
  • Configuration resolution
  • Database access and schema
  • Conversation loading
  • Credential presence and file permissions

This command is useful for debugging setup issues.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintln(out, sectionStyle.Render("🔍 chat-mirror Health Check"))
		_, _ = fmt.Fprintln(out)

		// Step 1: Resolve configuration
		_, _ = fmt.Fprintln(out, infoStyle.Render("Step 1: Resolving configuration..."))
		cfg, err := internal.LoadConfig(v)
		if err != nil {
			_, _ = fmt.Fprintln(out, failStyle.Render("❌ Invalid configuration:"), err)
			return fmt.Errorf("health check failed: %w", err)
		}
		_, _ = fmt.Fprintln(out, okStyle.Render("✅ Configuration resolved"))
		internal.LogInfo("Database: %s", cfg.DBPath)
		internal.LogInfo("Credential file: %s", cfg.KeyFile)
		_, _ = fmt.Fprintln(out)

		// Step 2: Open database
		_, _ = fmt.Fprintln(out, infoStyle.Render("Step 2: Opening database..."))
		app, err := internal.OpenApp(cmd.Context(), cfg)
		if err != nil {
			_, _ = fmt.Fprintln(out, failStyle.Render("❌ Failed to open database:"), err)
			return fmt.Errorf("health check failed: %w", err)
		}
		defer func() { _ = app.Close() }()
		_, _ = fmt.Fprintln(out, okStyle.Render("✅ Database ready"))
		_, _ = fmt.Fprintln(out)

		// Step 3: Load conversations
		_, _ = fmt.Fprintln(out, infoStyle.Render("Step 3: Loading conversations..."))
		if err := app.Store.Load(cmd.Context()); err != nil {
			_, _ = fmt.Fprintln(out, failStyle.Render("❌ Failed to load conversations:"), err)
			return fmt.Errorf("health check failed: %w", err)
		}
		conversations := app.Store.Conversations()
		messageCount := 0
		for _, conv := range conversations {
			messageCount += len(conv.Messages)
		}
		_, _ = fmt.Fprintln(out, okStyle.Render(fmt.Sprintf("✅ Found %d conversation(s), %d message(s)", len(conversations), messageCount)))
		_, _ = fmt.Fprintln(out)

		// Step 4: Credential
		_, _ = fmt.Fprintln(out, infoStyle.Render("Step 4: Checking credential..."))
		credentialOK := checkCredential(cmd.Context(), out, app)
		_, _ = fmt.Fprintln(out)

		// Summary
		_, _ = fmt.Fprintln(out, sectionStyle.Render("📊 Summary"))
		_, _ = fmt.Fprintln(out)
		if credentialOK {
			_, _ = fmt.Fprintln(out, okStyle.Render("✅ Health check passed!"))
		} else {
			_, _ = fmt.Fprintln(out, warnStyle.Render("⚠️  Storage is usable, but replies need a credential"))
		}
		return nil
	},
}

func checkCredential(ctx context.Context, out io.Writer, app *internal.App) bool {
	err := app.Credentials.Probe(ctx)
	if errors.Is(err, internal.ErrCredentialNotFound) {
		_, _ = fmt.Fprintln(out, warnStyle.Render("⚠️  No credential stored"))
		_, _ = fmt.Fprintln(out, "   Run `chat-mirror key set` to enable assistant replies")
		return false
	}
	if err != nil {
		_, _ = fmt.Fprintln(out, failStyle.Render("❌ Failed to read credential:"), err)
		return false
	}
	_, _ = fmt.Fprintln(out, okStyle.Render("✅ Credential stored"))

	if runtime.GOOS != "windows" {
		if info, err := os.Stat(app.KeyFile()); err == nil && info.Mode().Perm()&0077 != 0 {
			_, _ = fmt.Fprintln(out, warnStyle.Render(fmt.Sprintf("⚠️  Credential file is readable by others (mode %o)", info.Mode().Perm())))
		}
	}
	return true
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
}
