package entity

import "fmt"

// SourceTag identifies one configured content source. It selects both the
// adapter that produced an Item and the formatter that announces it.
type SourceTag string

// Configured sources. Adding a source means adding a constant here, an entry
// in AllSources, an adapter definition and a formatter.
const (
	SourceNextJS SourceTag = "nextjs"
	SourceReact  SourceTag = "react"
	SourceTkDodo SourceTag = "tkdodo"
	SourceIanlog SourceTag = "ianlog"
)

// AllSources returns every member of the source tag domain in registration order.
func AllSources() []SourceTag {
	return []SourceTag{SourceNextJS, SourceReact, SourceTkDodo, SourceIanlog}
}

// String implements fmt.Stringer.
func (t SourceTag) String() string {
	return string(t)
}

// Valid reports whether t belongs to the closed source tag domain.
func (t SourceTag) Valid() bool {
	for _, s := range AllSources() {
		if s == t {
			return true
		}
	}
	return false
}

// ParseSourceTag converts a configuration string into a SourceTag.
func ParseSourceTag(s string) (SourceTag, error) {
	t := SourceTag(s)
	if !t.Valid() {
		return "", &ValidationError{
			Field:   "source",
			Message: fmt.Sprintf("unknown source tag %q", s),
		}
	}
	return t, nil
}
