package seen

import (
	"encoding/json"
	"fmt"
	"time"
)

// Document is the persisted shape of the seen-set.
type Document struct {
	SeenURLs    []string `json:"seenUrls"`
	LastUpdated string   `json:"lastUpdated"`
}

// Encode renders set as an indented document stamped with updatedAt.
// URLs are sorted so successive documents diff cleanly.
func Encode(set Set, updatedAt time.Time) ([]byte, error) {
	doc := Document{
		SeenURLs:    set.Sorted(),
		LastUpdated: updatedAt.UTC().Format(time.RFC3339),
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal seen-set document: %w", err)
	}
	return data, nil
}

// Decode parses a persisted document into a Set.
func Decode(data []byte) (Set, *Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("unmarshal seen-set document: %w", err)
	}
	return NewSet(doc.SeenURLs...), &doc, nil
}
