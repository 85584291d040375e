package internal

import (
	"fmt"
	"strings"
)

// SketchDiagram builds a rough mermaid flowchart from a free-text
// description without contacting the backend: significant words become
// nodes chained left to right. It is a quick offline preview, not a
// substitute for generated diagrams.
func SketchDiagram(input string) string {
	var words []string
	for _, w := range strings.Fields(input) {
		if len(w) > 2 {
			words = append(words, w)
		}
	}

	var b strings.Builder
	b.WriteString("graph TD\n")
	for i := 0; i+1 < len(words); i++ {
		fmt.Fprintf(&b, "    %s[%s] --> %s[%s]\n", words[i], words[i], words[i+1], words[i+1])
	}

	return b.String()
}
