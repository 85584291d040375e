package internal

import (
	"sort"
	"strings"
	"time"
)

// CombinedHistoryItem is a derived, read-only row in the merged
// chat+diagram history view. It is recomputed from the two source
// lists on demand and never persisted.
type CombinedHistoryItem struct {
	ID        string
	Type      string // TypeChat or TypeDiagram
	Text      string
	Timestamp time.Time
}

// CombineHistory merges chat-history entries and diagrams into one
// reverse-chronological list. Diagrams fall back to their generation
// time when createdAt is absent.
func CombineHistory(entries []ChatHistoryEntry, diagrams []Diagram) []CombinedHistoryItem {
	items := make([]CombinedHistoryItem, 0, len(entries)+len(diagrams))

	for _, e := range entries {
		items = append(items, CombinedHistoryItem{
			ID:        e.ID,
			Type:      TypeChat,
			Text:      e.DisplayText(),
			Timestamp: e.CreatedAt,
		})
	}
	for _, d := range diagrams {
		items = append(items, CombinedHistoryItem{
			ID:        d.ID,
			Type:      TypeDiagram,
			Text:      d.Description,
			Timestamp: d.EffectiveTimestamp(),
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Timestamp.After(items[j].Timestamp)
	})
	return items
}

// FilterHistory returns the items whose text contains query,
// case-insensitively. An empty query matches everything.
func FilterHistory(items []CombinedHistoryItem, query string) []CombinedHistoryItem {
	if query == "" {
		return items
	}

	q := strings.ToLower(query)
	var out []CombinedHistoryItem
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Text), q) {
			out = append(out, item)
		}
	}
	return out
}
