// Package indexset provides a small unordered set backed by a slice.
// Sets are expected to hold a handful of items, so lookups scan linearly
// and removal swaps the last element into the vacated slot.
package indexset

// Set is an unordered collection of unique items. The zero value is an
// empty set ready to use.
type Set[T comparable] struct {
	items []T
}

// New returns a set holding items, with duplicates dropped.
func New[T comparable](items ...T) *Set[T] {
	s := &Set[T]{}
	for _, it := range items {
		s.Insert(it)
	}
	return s
}

// Insert appends item unless it is already present. It reports whether the
// set changed.
func (s *Set[T]) Insert(item T) bool {
	if s.Contains(item) {
		return false
	}
	s.items = append(s.items, item)
	return true
}

// Remove deletes item by moving the last element into its slot. Order is
// not preserved. It reports whether the item was present.
func (s *Set[T]) Remove(item T) bool {
	i := s.indexOf(item)
	if i < 0 {
		return false
	}
	last := len(s.items) - 1
	s.items[i] = s.items[last]
	var zero T
	s.items[last] = zero
	s.items = s.items[:last]
	return true
}

// Contains reports whether item is in the set.
func (s *Set[T]) Contains(item T) bool {
	return s.indexOf(item) >= 0
}

// Len returns the number of items.
func (s *Set[T]) Len() int {
	return len(s.items)
}

// Items returns a copy of the items in storage order.
func (s *Set[T]) Items() []T {
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Set[T]) indexOf(item T) int {
	for i, it := range s.items {
		if it == item {
			return i
		}
	}
	return -1
}
