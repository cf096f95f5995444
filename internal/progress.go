package internal

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	progressStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)
)

// ShowProgress runs fn while showing a spinner on a terminal, or a plain
// log line otherwise
func ShowProgress(ctx context.Context, message string, fn func() error) error {
	if !isTerminal(os.Stderr) {
		LogInfo("%s", message)
		return fn()
	}
	return showProgressSimple(ctx, message, fn)
}

// showProgressSimple uses a simple text-based spinner
func showProgressSimple(ctx context.Context, message string, fn func() error) error {
	spinnerChars := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	done := make(chan error, 1)
	stop := make(chan struct{})
	spinnerDone := make(chan struct{})

	go func() {
		defer close(spinnerDone)
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		i := 0
		for {
			select {
			case <-stop:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				char := spinnerChars[i%len(spinnerChars)]
				fmt.Fprintf(os.Stderr, "\r%s %s", progressStyle.Render(char), message)
				i++
			}
		}
	}()

	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		close(stop)
		<-spinnerDone
		if err != nil {
			fmt.Fprintf(os.Stderr, "\r%s %s\n", errorStyle.Render("✗"), message)
			return err
		}
		fmt.Fprintf(os.Stderr, "\r%s %s\n", successStyle.Render("✓"), message)
		return nil
	case <-ctx.Done():
		close(stop)
		<-spinnerDone
		return ctx.Err()
	}
}

// isTerminal checks if the writer is a terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// PrintSuccess writes a success line, styled when w is a terminal
func PrintSuccess(w io.Writer, message string) {
	printStatus(w, successStyle, "✓", "", message)
}

// PrintError writes an error line
func PrintError(w io.Writer, message string) {
	printStatus(w, errorStyle, "✗", "ERROR: ", message)
}

// PrintInfo writes an informational line
func PrintInfo(w io.Writer, message string) {
	printStatus(w, progressStyle, "ℹ", "", message)
}

// PrintWarning writes a warning line
func PrintWarning(w io.Writer, message string) {
	printStatus(w, warningStyle, "⚠", "WARNING: ", message)
}

func printStatus(w io.Writer, style lipgloss.Style, icon, plainPrefix, message string) {
	if isTerminal(w) {
		_, _ = fmt.Fprintf(w, "%s %s\n", style.Render(icon), message)
		return
	}
	_, _ = fmt.Fprintf(w, "%s%s\n", plainPrefix, message)
}
