package cmd

import (
	"strings"
	"testing"
)

func TestNewAndDeleteCommands(t *testing.T) {
	env := newCLIEnv(t)

	out := env.mustRun(t, "new")
	if !strings.Contains(out, "Created conversation 1: New Chat") {
		t.Errorf("first new output = %q", out)
	}
	out = env.mustRun(t, "new")
	if !strings.Contains(out, "Created conversation 2: New Chat 1") {
		t.Errorf("second new output = %q", out)
	}

	out = env.mustRun(t, "delete", "2")
	if !strings.Contains(out, "Deleted conversation 2") {
		t.Errorf("delete output = %q", out)
	}
	if !strings.Contains(out, "Active conversation is now 1") {
		t.Errorf("delete should report the new selection, got %q", out)
	}

	// The freed title is reused
	out = env.mustRun(t, "new")
	if !strings.Contains(out, "New Chat 1") {
		t.Errorf("new after delete output = %q", out)
	}
}

func TestDeleteCommand_Errors(t *testing.T) {
	env := newCLIEnv(t)

	tests := []struct {
		name string
		args []string
	}{
		{"missing id", []string{"delete"}},
		{"invalid id", []string{"delete", "abc"}},
		{"negative id", []string{"delete", "-1"}},
		{"unknown id", []string{"delete", "99"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := env.run(t, tt.args...); err == nil {
				t.Errorf("%v should fail", tt.args)
			}
		})
	}
}

func TestParseConversationID(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{"1", 1, false},
		{"42", 42, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"x", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseConversationID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseConversationID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseConversationID(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}
