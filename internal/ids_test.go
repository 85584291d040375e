package internal

import "testing"

func TestNewMessageID(t *testing.T) {
	id := NewMessageID()
	if id == "" {
		t.Fatal("NewMessageID() returned empty string")
	}

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewMessageID()
		if seen[id] {
			t.Fatalf("NewMessageID() produced duplicate %q", id)
		}
		seen[id] = true
	}
}
