package internal

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"
)

func TestShowProgress(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		message string
		fn      func() error
		wantErr bool
	}{
		{
			name:    "successful function",
			message: "Testing",
			fn: func() error {
				return nil
			},
			wantErr: false,
		},
		{
			name:    "function with error",
			message: "Testing error",
			fn: func() error {
				return errors.New("test error")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ShowProgress(ctx, tt.message, tt.fn)
			if (err != nil) != tt.wantErr {
				t.Errorf("ShowProgress() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestShowProgress_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	// Should return without panicking whether or not stderr is a terminal
	_ = ShowProgress(ctx, "Testing", func() error {
		time.Sleep(100 * time.Millisecond)
		return nil
	})
}

func TestPrintHelpers_NonTerminal(t *testing.T) {
	tests := []struct {
		name  string
		print func(w *bytes.Buffer)
		want  string
	}{
		{"success", func(w *bytes.Buffer) { PrintSuccess(w, "done") }, "done\n"},
		{"error", func(w *bytes.Buffer) { PrintError(w, "boom") }, "ERROR: boom\n"},
		{"info", func(w *bytes.Buffer) { PrintInfo(w, "note") }, "note\n"},
		{"warning", func(w *bytes.Buffer) { PrintWarning(w, "careful") }, "WARNING: careful\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.print(&buf)
			if got := buf.String(); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsTerminal(t *testing.T) {
	if isTerminal(&bytes.Buffer{}) {
		t.Error("isTerminal() should be false for a buffer")
	}
}
