package internal

import "testing"

func TestNextTitle(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		want     string
	}{
		{"no titles", nil, "New Chat"},
		{"base taken", []string{"New Chat"}, "New Chat 1"},
		{"base and 1 taken", []string{"New Chat", "New Chat 1"}, "New Chat 2"},
		{"gap at zero", []string{"New Chat 1"}, "New Chat"},
		{"gap in the middle", []string{"New Chat", "New Chat 2"}, "New Chat 1"},
		{"unrelated titles", []string{"Recipes", "New Chat 7"}, "New Chat"},
		{"order does not matter", []string{"New Chat 1", "New Chat 2", "New Chat"}, "New Chat 3"},
		{"similar but different", []string{"New Chat", "New Chat01", "New Chat 1 "}, "New Chat 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextTitle(tt.existing, DefaultTitleBase); got != tt.want {
				t.Errorf("NextTitle(%v) = %q, want %q", tt.existing, got, tt.want)
			}
		})
	}
}

func TestNextTitle_CustomBase(t *testing.T) {
	got := NextTitle([]string{"Chat", "Chat 1"}, "Chat")
	if got != "Chat 2" {
		t.Errorf("NextTitle() = %q, want %q", got, "Chat 2")
	}
}
