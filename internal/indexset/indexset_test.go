package indexset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetInsert(t *testing.T) {
	s := &Set[int]{}

	assert.True(t, s.Insert(1))
	assert.True(t, s.Insert(2))
	assert.False(t, s.Insert(1), "duplicate insert is a no-op")

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []int{1, 2}, s.Items())
}

func TestSetRemove(t *testing.T) {
	tests := []struct {
		name      string
		initial   []int
		remove    int
		wantFound bool
		wantItems []int
	}{
		{name: "remove first swaps last in", initial: []int{1, 2, 3}, remove: 1, wantFound: true, wantItems: []int{3, 2}},
		{name: "remove middle", initial: []int{1, 2, 3}, remove: 2, wantFound: true, wantItems: []int{1, 3}},
		{name: "remove last", initial: []int{1, 2, 3}, remove: 3, wantFound: true, wantItems: []int{1, 2}},
		{name: "remove only item", initial: []int{7}, remove: 7, wantFound: true, wantItems: []int{}},
		{name: "remove absent", initial: []int{1, 2}, remove: 9, wantItems: []int{1, 2}},
		{name: "remove from empty", initial: nil, remove: 1, wantItems: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.initial...)

			found := s.Remove(tt.remove)

			assert.Equal(t, tt.wantFound, found)
			assert.Equal(t, tt.wantItems, s.Items())
			assert.False(t, s.Contains(tt.remove))
		})
	}
}

func TestSetReinsertAfterRemove(t *testing.T) {
	s := New("frost", "attack")
	s.Remove("frost")
	assert.False(t, s.Contains("frost"))

	assert.True(t, s.Insert("frost"))
	assert.True(t, s.Contains("frost"))
	assert.Equal(t, 2, s.Len())
}

func TestSetItemsIsCopy(t *testing.T) {
	s := New(1, 2)
	items := s.Items()
	items[0] = 42

	assert.True(t, s.Contains(1))
	assert.False(t, s.Contains(42))
}

func TestNewDropsDuplicates(t *testing.T) {
	s := New(1, 1, 2, 2, 3)
	assert.Equal(t, 3, s.Len())
}
