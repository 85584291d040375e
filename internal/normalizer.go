package internal

import "strings"

// StripFences removes markdown fence markers (triple backticks with an
// optional language tag) wrapping diagram source and trims surrounding
// whitespace. Backends embed mermaid text inside fenced blocks; the
// renderer requires bare source. The operation is idempotent: applying
// it to already-stripped text returns the text unchanged.
func StripFences(s string) string {
	t := strings.TrimSpace(s)

	if strings.HasPrefix(t, "```") {
		t = t[3:]
		if i := strings.IndexByte(t, '\n'); i >= 0 {
			// Opening fence line carries at most a language tag.
			t = t[i+1:]
		} else {
			// Single-line block: drop a leading language tag.
			t = strings.TrimPrefix(t, "mermaid")
		}
	}

	t = strings.TrimSpace(t)
	t = strings.TrimSuffix(t, "```")

	return strings.TrimSpace(t)
}

// NormalizeDiagram prepares a backend diagram payload for rendering.
// It returns the stripped mermaid source, or "" when the diagram
// carries no content.
func NormalizeDiagram(d *Diagram) string {
	if d == nil {
		return ""
	}
	return StripFences(d.Content.Mermaid)
}
