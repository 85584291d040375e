package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/iksnae/devbook/internal"
	"gopkg.in/yaml.v3"
)

func sampleTranscript() *internal.Transcript {
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	return &internal.Transcript{
		User:       "tester",
		ExportedAt: ts,
		Messages: []internal.Message{
			{
				ID:        "m1",
				Role:      internal.RoleUser,
				Content:   "Draw the login flow",
				Type:      internal.TypeDiagram,
				Timestamp: ts,
			},
			{
				ID:        "m2",
				Role:      internal.RoleAssistant,
				Content:   "Diagram generated successfully.",
				Type:      internal.TypeDiagram,
				Diagram:   "graph TD\n    A --> B",
				Timestamp: ts.Add(time.Second),
			},
		},
	}
}

func TestNewExporter(t *testing.T) {
	tests := []struct {
		format  string
		wantExt string
		wantErr bool
	}{
		{"json", "json", false},
		{"jsonl", "jsonl", false},
		{"yaml", "yaml", false},
		{"md", "md", false},
		{"markdown", "md", false},
		{"xml", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run("format "+tt.format, func(t *testing.T) {
			e, err := NewExporter(tt.format)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NewExporter(%q) should fail", tt.format)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewExporter(%q) failed: %v", tt.format, err)
			}
			if got := e.Extension(); got != tt.wantExt {
				t.Errorf("Extension() = %q, want %q", got, tt.wantExt)
			}
		})
	}
}

func TestJSONExport(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONExporter{}).Export(sampleTranscript(), &buf); err != nil {
		t.Fatalf("Export() failed: %v", err)
	}

	var decoded internal.Transcript
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded.Messages) != 2 {
		t.Errorf("decoded %d messages, want 2", len(decoded.Messages))
	}
	if decoded.User != "tester" {
		t.Errorf("decoded user = %q, want tester", decoded.User)
	}
}

func TestJSONLExport(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONLExporter{}).Export(sampleTranscript(), &buf); err != nil {
		t.Fatalf("Export() failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("output has %d lines, want 2", len(lines))
	}

	for i, line := range lines {
		var obj map[string]interface{}
		if err := json.Unmarshal([]byte(line), &obj); err != nil {
			t.Fatalf("line %d is not valid JSON: %v", i, err)
		}
		if _, ok := obj["role"]; !ok {
			t.Errorf("line %d missing role: %s", i, line)
		}
	}

	var second map[string]interface{}
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatal(err)
	}
	if second["diagram"] != "graph TD\n    A --> B" {
		t.Errorf("diagram field = %v, want the mermaid source", second["diagram"])
	}
}

func TestYAMLExport(t *testing.T) {
	var buf bytes.Buffer
	if err := (&YAMLExporter{}).Export(sampleTranscript(), &buf); err != nil {
		t.Fatalf("Export() failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if decoded["user"] != "tester" {
		t.Errorf("decoded user = %v, want tester", decoded["user"])
	}
}

func TestMarkdownExport(t *testing.T) {
	var buf bytes.Buffer
	if err := (&MarkdownExporter{}).Export(sampleTranscript(), &buf); err != nil {
		t.Fatalf("Export() failed: %v", err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, "# DevBook conversation") {
		t.Error("output missing title header")
	}
	if !strings.Contains(out, "**user:**") || !strings.Contains(out, "**assistant:**") {
		t.Error("output missing role headers")
	}
	// Diagram source is re-fenced so the export renders.
	if !strings.Contains(out, "```mermaid\ngraph TD\n    A --> B\n```") {
		t.Errorf("output missing fenced diagram:\n%s", out)
	}
}

func TestMarkdownEscapesEmphasis(t *testing.T) {
	transcript := &internal.Transcript{
		Messages: []internal.Message{
			{Role: internal.RoleUser, Content: "this is **bold** text"},
		},
	}

	var buf bytes.Buffer
	if err := (&MarkdownExporter{}).Export(transcript, &buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `\*\*bold\*\*`) {
		t.Errorf("emphasis not escaped:\n%s", buf.String())
	}
}
