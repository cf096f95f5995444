package cmd

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

// cliEnv points the CLI at a throwaway database and credential file
type cliEnv struct {
	dbPath  string
	keyPath string
	extra   []string
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	dir := t.TempDir()
	return &cliEnv{
		dbPath:  filepath.Join(dir, "db.sqlite"),
		keyPath: filepath.Join(dir, "credential"),
	}
}

// run executes the root command with args and returns combined output
func (e *cliEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return e.runWithInput(t, "", args...)
}

func (e *cliEnv) runWithInput(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	resetCommandFlags()
	resetRootFlags()

	full := append([]string{}, args...)
	full = append(full, "--db", e.dbPath, "--key-file", e.keyPath)
	full = append(full, e.extra...)
	rootCmd.SetArgs(full)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	var in io.Reader = strings.NewReader(input)
	rootCmd.SetIn(in)

	err := rootCmd.Execute()
	return buf.String(), err
}

// mustRun fails the test if the command returns an error
func (e *cliEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, args...)
	if err != nil {
		t.Fatalf("%v failed: %v\noutput:\n%s", args, err, out)
	}
	return out
}

// resetCommandFlags restores flag variables shared across test executions
func resetCommandFlags() {
	limit = 0
	since = ""
	sendConversationID = 0
	sendRole = "user"
	sendImages = nil
	sendReply = false
	format = "jsonl"
	outputDir = "./exports"
	conversationID = 0
	inspectSampleRows = 3
}

// resetRootFlags clears --version on rootCmd and --help on every command,
// which otherwise stay set between executions
func resetRootFlags() {
	_ = rootCmd.Flags().Set("version", "false")
	resetHelpFlags(rootCmd)
}

func resetHelpFlags(c *cobra.Command) {
	if f := c.Flags().Lookup("help"); f != nil {
		_ = f.Value.Set("false")
		f.Changed = false
	}
	for _, sub := range c.Commands() {
		resetHelpFlags(sub)
	}
}
