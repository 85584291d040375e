package internal

import "testing"

func TestPasswordStrength(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     int
	}{
		{"empty", "", 0},
		{"short lowercase", "abc", 0},
		{"long lowercase", "abcdefgh", 25},
		{"long mixed case", "Abcdefgh", 50},
		{"long mixed with digit", "Abcdefg1", 75},
		{"all criteria", "Abcdef1!", 100},
		{"short but varied", "Ab1!", 75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PasswordStrength(tt.password)
			if got != tt.want {
				t.Errorf("PasswordStrength(%q) = %d, want %d", tt.password, got, tt.want)
			}
		})
	}
}

func TestPasswordStrengthLabel(t *testing.T) {
	tests := []struct {
		strength int
		want     string
	}{
		{0, "weak"},
		{25, "weak"},
		{50, "fair"},
		{75, "good"},
		{100, "strong"},
	}

	for _, tt := range tests {
		got := PasswordStrengthLabel(tt.strength)
		if got != tt.want {
			t.Errorf("PasswordStrengthLabel(%d) = %q, want %q", tt.strength, got, tt.want)
		}
	}
}
