package internal

import "testing"

func TestStripFences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "bare source unchanged",
			input: "graph TD\n    A --> B",
			want:  "graph TD\n    A --> B",
		},
		{
			name:  "fenced with language tag",
			input: "```mermaid\ngraph TD\n    A --> B\n```",
			want:  "graph TD\n    A --> B",
		},
		{
			name:  "fenced without language tag",
			input: "```\ngraph LR\n    X --> Y\n```",
			want:  "graph LR\n    X --> Y",
		},
		{
			name:  "single line block",
			input: "```mermaid\ngraph TD;A-->B```",
			want:  "graph TD;A-->B",
		},
		{
			name:  "surrounding whitespace",
			input: "  \n```mermaid\ngraph TD\n    A --> B\n```\n  ",
			want:  "graph TD\n    A --> B",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
		{
			name:  "whitespace only",
			input: "   \n\t",
			want:  "",
		},
		{
			name:  "fences only",
			input: "```mermaid\n```",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StripFences(tt.input)
			if got != tt.want {
				t.Errorf("StripFences(%q) = %q, want %q", tt.input, got, tt.want)
			}

			// Stripping is idempotent.
			again := StripFences(got)
			if again != got {
				t.Errorf("StripFences not idempotent: %q became %q", got, again)
			}
		})
	}
}

func TestNormalizeDiagram(t *testing.T) {
	d := &Diagram{
		ID:      "d1",
		Content: DiagramContent{Mermaid: "```mermaid\ngraph TD\n    A --> B\n```"},
	}
	got := NormalizeDiagram(d)
	want := "graph TD\n    A --> B"
	if got != want {
		t.Errorf("NormalizeDiagram() = %q, want %q", got, want)
	}
}

func TestNormalizeDiagramNil(t *testing.T) {
	if got := NormalizeDiagram(nil); got != "" {
		t.Errorf("NormalizeDiagram(nil) = %q, want empty", got)
	}
}
