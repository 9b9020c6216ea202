package notify

import "fmt"

// Message is the channel-neutral rendering of one item. It is derived per item
// per run and never persisted.
type Message struct {
	Title string
	URL   string
	// Headline is the item's own title; Title carries the source banner.
	Headline    string
	Description string
	Color       int // 0xRRGGBB
	Timestamp   string
	Footer      string
}

// ColorHex renders Color as "#rrggbb".
func (m Message) ColorHex() string {
	return fmt.Sprintf("#%06x", m.Color&0xFFFFFF)
}
