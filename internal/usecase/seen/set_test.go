package seen

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestSelectNew(t *testing.T) {
	tests := []struct {
		name    string
		current []string
		seen    Set
		want    []string
	}{
		{
			name:    "set difference keeps first-seen order",
			current: []string{"B", "C", "A", "D"},
			seen:    NewSet("A", "B"),
			want:    []string{"C", "D"},
		},
		{
			name:    "duplicates collapse to first occurrence",
			current: []string{"C", "D", "C", "E", "D"},
			seen:    NewSet(),
			want:    []string{"C", "D", "E"},
		},
		{
			name:    "steady state yields nothing",
			current: []string{"A", "B"},
			seen:    NewSet("A", "B", "Z"),
			want:    []string{},
		},
		{
			name:    "cold start yields everything",
			current: []string{"A", "B"},
			seen:    nil,
			want:    []string{"A", "B"},
		},
		{
			name:    "empty run",
			current: nil,
			seen:    NewSet("A"),
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectNew(tt.current, tt.seen)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("SelectNew mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSet_Union(t *testing.T) {
	prev := NewSet("A", "B")
	next := prev.Union([]string{"B", "C", "C"})

	assert.True(t, next.Equal(NewSet("A", "B", "C")))
	assert.Equal(t, 2, prev.Len(), "receiver must not be modified")
}

func TestSet_SortedAndEqual(t *testing.T) {
	s := NewSet("https://b.example", "https://a.example")

	assert.Equal(t, []string{"https://a.example", "https://b.example"}, s.Sorted())
	assert.True(t, s.Equal(NewSet("https://a.example", "https://b.example")))
	assert.False(t, s.Equal(NewSet("https://a.example")))
	assert.False(t, s.Equal(NewSet("https://a.example", "https://c.example")))
	assert.True(t, Set(nil).Equal(NewSet()))
}
