// Package seen owns the durable record of already-announced URLs: the Set type,
// the new-item selector, the persisted document shape and the Store that reads
// and replaces it through a pluggable Backend.
package seen

import "sort"

// Set is a set of announced URLs.
type Set map[string]struct{}

// NewSet builds a Set from urls.
func NewSet(urls ...string) Set {
	s := make(Set, len(urls))
	for _, u := range urls {
		s[u] = struct{}{}
	}
	return s
}

// Has reports whether url is in the set.
func (s Set) Has(url string) bool {
	_, ok := s[url]
	return ok
}

// Len returns the number of URLs in the set.
func (s Set) Len() int {
	return len(s)
}

// Union returns a new Set holding every member of s plus urls. s is not modified.
func (s Set) Union(urls []string) Set {
	out := make(Set, len(s)+len(urls))
	for u := range s {
		out[u] = struct{}{}
	}
	for _, u := range urls {
		out[u] = struct{}{}
	}
	return out
}

// Sorted returns the members in lexical order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for u := range s {
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}

// Equal reports whether s and other hold the same members.
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for u := range s {
		if !other.Has(u) {
			return false
		}
	}
	return true
}

// SelectNew returns the URLs of current that are not in seen, in first-seen
// order with duplicates removed.
func SelectNew(current []string, seen Set) []string {
	emitted := make(map[string]struct{}, len(current))
	out := make([]string, 0)
	for _, u := range current {
		if seen.Has(u) {
			continue
		}
		if _, dup := emitted[u]; dup {
			continue
		}
		emitted[u] = struct{}{}
		out = append(out, u)
	}
	return out
}
