package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/budgetchat/chat-mirror/internal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	v       = viper.New()
	version string = "dev"
	commit  string = "unknown"
	date    string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "chat-mirror",
	Short: "Manage locally stored LLM chat conversations",
	Long: `A CLI for the conversations and messages kept by a chat client in a local
SQLite database.

Features:
  • List, create and delete conversations
  • View conversations with text and image content
  • Append messages and request assistant replies
  • Store the API credential outside the database
  • Export in multiple formats (JSONL, Markdown, YAML, JSON)

Quick Start:
  chat-mirror new                         # Start a conversation
  chat-mirror send "Hello there" --reply  # Send a message and wait for a reply
  chat-mirror list                        # List all conversations
  chat-mirror export --format md          # Export as Markdown

Settings are read from flags, CHAT_MIRROR_* environment variables and
config.yaml in the current directory or $XDG_CONFIG_HOME/chat-mirror.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initConfig(); err != nil {
			return err
		}
		internal.SetVerbose(v.GetBool(internal.KeyVerbose))
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// initConfig reads the optional config file. A missing default config file
// is not an error; a missing --config file is.
func initConfig() error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
		}
		internal.LogDebug("Using config file: %s", v.ConfigFileUsed())
		return nil
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "chat-mirror"))
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		return nil
	}
	internal.LogDebug("Using config file: %s", v.ConfigFileUsed())
	return nil
}

func init() {
	if err := internal.SetConfigDefaults(v); err != nil {
		internal.LogWarn("Failed to resolve default paths: %v", err)
	}
	v.SetEnvPrefix("CHAT_MIRROR")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (default: ./config.yaml or $XDG_CONFIG_HOME/chat-mirror/config.yaml)")
	flags.String(internal.KeyDB, "", "Path to the SQLite database")
	flags.String(internal.KeyKeyFile, "", "Path to the credential file")
	flags.String(internal.KeyProvider, internal.DefaultProvider, "LLM provider recorded on new conversations")
	flags.String(internal.KeyModel, internal.DefaultModel, "Chat model used for replies")
	flags.String(internal.KeyBaseURL, "", "Base URL of an OpenAI-compatible API")
	flags.String(internal.KeyTitleBase, internal.DefaultTitleBase, "Base title for new conversations")
	flags.BoolP(internal.KeyVerbose, "v", false, "Enable verbose logging")

	for _, key := range []string{
		internal.KeyDB, internal.KeyKeyFile, internal.KeyProvider, internal.KeyModel,
		internal.KeyBaseURL, internal.KeyTitleBase, internal.KeyVerbose,
	} {
		if err := v.BindPFlag(key, flags.Lookup(key)); err != nil {
			internal.LogWarn("Failed to bind flag %s: %v", key, err)
		}
	}

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
