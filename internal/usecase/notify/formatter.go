package notify

import (
	"fmt"
	"strings"
	"time"

	"blog-notifier/internal/domain/entity"
)

// Formatter renders an item as a Message.
type Formatter interface {
	Format(item entity.Item) Message
}

// SourceFormatter renders items with a fixed banner title, color and footer.
type SourceFormatter struct {
	Banner string
	Color  int
	Footer string
}

// Format implements Formatter.
func (f SourceFormatter) Format(item entity.Item) Message {
	return Message{
		Title:       f.Banner,
		URL:         item.URL,
		Headline:    item.Title,
		Description: Description(item),
		Color:       f.Color,
		Timestamp:   FormatTimestamp(item.Date, time.Now()),
		Footer:      f.Footer,
	}
}

// Description renders the item title in bold followed by a link.
func Description(item entity.Item) string {
	return fmt.Sprintf("**%s**\n\n[Read more →](%s)", item.Title, item.URL)
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// FormatTimestamp normalizes raw to RFC 3339 in UTC. Unparseable input
// yields now.
func FormatTimestamp(raw string, now time.Time) string {
	raw = strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC().Format(time.RFC3339)
		}
	}
	return now.UTC().Format(time.RFC3339)
}
