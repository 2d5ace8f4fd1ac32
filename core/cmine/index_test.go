package cmine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndex(t *testing.T) {
	x := NewIndex()

	assert.True(t, x.Add(Venture{ID: 1, HighLevelPitch: "Foo", UpdatedAt: "t1"}))
	assert.True(t, x.Add(Venture{ID: 2, HighLevelPitch: "Bar"}))
	assert.False(t, x.Add(Venture{ID: 3, HighLevelPitch: "Foo", UpdatedAt: "t3"}))

	e, ok := x.Lookup("Foo")
	assert.True(t, ok)
	assert.Equal(t, int64(1), e.ID)
	assert.Equal(t, "t1", e.UpdatedAt)

	_, ok = x.Lookup("Baz")
	assert.False(t, ok)

	assert.Equal(t, 2, x.Len())
	assert.Equal(t, []string{"Bar", "Foo"}, x.Titles())
	assert.Equal(t, []string{"Bar", "Foo"}, x.Orphans())

	x.MarkSeen("Foo")
	x.MarkSeen("Baz")
	assert.Equal(t, []string{"Bar"}, x.Orphans())
}
