package cmd

import (
	"strings"
	"testing"
	"time"
)

func TestRootCommandRegistration(t *testing.T) {
	want := []string{
		"login", "register", "logout", "whoami",
		"chat", "send", "history", "diagrams", "books", "export",
	}

	have := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		have[c.Name()] = true
	}

	for _, name := range want {
		if !have[name] {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input string
		max   int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"this one is definitely too long", 10, "this on..."},
	}

	for _, tt := range tests {
		if got := truncate(tt.input, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.max, got, tt.want)
		}
	}
}

func TestFormatWhen(t *testing.T) {
	if got := formatWhen(time.Time{}); got != "" {
		t.Errorf("formatWhen(zero) = %q, want empty", got)
	}

	ts := time.Date(2024, 5, 1, 10, 30, 0, 0, time.Local)
	if got := formatWhen(ts); got != "2024-05-01 10:30" {
		t.Errorf("formatWhen() = %q, want %q", got, "2024-05-01 10:30")
	}
}

func TestRenderStrength(t *testing.T) {
	tests := []struct {
		strength int
		want     string
	}{
		{0, "weak (0/100)"},
		{50, "fair (50/100)"},
		{75, "good (75/100)"},
		{100, "strong (100/100)"},
	}

	for _, tt := range tests {
		got := renderStrength(tt.strength)
		if !strings.Contains(got, tt.want) {
			t.Errorf("renderStrength(%d) = %q, want it to contain %q", tt.strength, got, tt.want)
		}
	}
}
