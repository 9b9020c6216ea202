package notify

import (
	"fmt"

	"blog-notifier/internal/domain/entity"
)

// Dispatch maps each source tag to its formatter. The table is closed over
// entity.AllSources: NewDispatch fills every tag and Verify proves it.
type Dispatch struct {
	formatters map[entity.SourceTag]Formatter
}

// defaultFormatters holds the per-source presentation.
var defaultFormatters = map[entity.SourceTag]SourceFormatter{
	entity.SourceNextJS: {Banner: "🚀 New Next.js blog post!", Color: 0x000000, Footer: "Next.js Blog"},
	entity.SourceReact:  {Banner: "⚛️ New React blog post!", Color: 0x61DAFB, Footer: "React Blog"},
	entity.SourceTkDodo: {Banner: "💬 New TkDodo blog post!", Color: 0x000000, Footer: "TkDodo Blog"},
	entity.SourceIanlog: {Banner: "📝 New Ianlog blog post!", Color: 0x5865F2, Footer: "Ianlog Blog"},
}

// NewDispatch returns a Dispatch with the built-in formatter for every tag.
func NewDispatch() *Dispatch {
	d := NewEmptyDispatch()
	for _, tag := range entity.AllSources() {
		if f, ok := defaultFormatters[tag]; ok {
			d.Register(tag, f)
		}
	}
	return d
}

// NewEmptyDispatch returns a Dispatch with no formatters registered.
func NewEmptyDispatch() *Dispatch {
	return &Dispatch{formatters: make(map[entity.SourceTag]Formatter)}
}

// Register installs f for tag, replacing any previous formatter.
func (d *Dispatch) Register(tag entity.SourceTag, f Formatter) {
	d.formatters[tag] = f
}

// Resolve returns the formatter for tag, or *UnsupportedSourceError.
func (d *Dispatch) Resolve(tag entity.SourceTag) (Formatter, error) {
	f, ok := d.formatters[tag]
	if !ok {
		return nil, &UnsupportedSourceError{Source: tag}
	}
	return f, nil
}

// Verify checks that every tag in entity.AllSources has a formatter.
func (d *Dispatch) Verify() error {
	for _, tag := range entity.AllSources() {
		if _, err := d.Resolve(tag); err != nil {
			return fmt.Errorf("verify formatter table: %w", err)
		}
	}
	return nil
}

// FormatAll renders items in order. If an item's source has no formatter it
// returns the messages rendered before it together with the
// *UnsupportedSourceError; nothing at or after that item is rendered.
func (d *Dispatch) FormatAll(items []entity.Item) ([]Message, error) {
	msgs := make([]Message, 0, len(items))
	for _, item := range items {
		f, err := d.Resolve(item.Source)
		if err != nil {
			return msgs, err
		}
		msgs = append(msgs, f.Format(item))
	}
	return msgs, nil
}
