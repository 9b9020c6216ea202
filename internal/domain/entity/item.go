// Package entity defines the core domain entities shared by every stage of the
// notification pipeline: the normalized Item record and the closed set of
// source tags it can carry.
package entity

import (
	"strings"
	"time"
)

// UntitledPlaceholder is the title adapters substitute when a source omits one.
const UntitledPlaceholder = "Untitled"

// Item is one piece of announced-or-announceable content.
// URL is the sole identity key: two Items with equal URL are the same item.
type Item struct {
	Title  string
	URL    string
	Date   string // RFC 3339, or the scrape time when the source had no usable date
	Source SourceTag
}

// NewItem builds an Item applying the normalization every adapter must honour:
// a placeholder title and a date that always parses.
func NewItem(title, url string, published time.Time, source SourceTag) Item {
	title = strings.TrimSpace(title)
	if title == "" {
		title = UntitledPlaceholder
	}
	if published.IsZero() {
		published = time.Now()
	}
	return Item{
		Title:  title,
		URL:    strings.TrimSpace(url),
		Date:   published.UTC().Format(time.RFC3339),
		Source: source,
	}
}

// URLs projects items onto their identity keys, preserving order.
func URLs(items []Item) []string {
	urls := make([]string, 0, len(items))
	for _, it := range items {
		urls = append(urls, it.URL)
	}
	return urls
}
