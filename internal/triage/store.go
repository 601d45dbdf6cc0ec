package triage

import (
	"sync"

	"github.com/google/uuid"
)

// Record is anything a Store can key.
type Record interface {
	GetID() uuid.UUID
}

// Store is one screen's local collection. Mutations apply immediately; the undo
// funcs they return let the caller put a row back when the server call fails.
type Store[T Record] struct {
	mu       sync.RWMutex
	items    []T
	selected map[uuid.UUID]struct{}
}

func NewStore[T Record](items ...T) *Store[T] {
	s := &Store[T]{selected: make(map[uuid.UUID]struct{})}
	s.Replace(items)
	return s
}

// Replace swaps the whole collection, as after a fetch. Selection is cleared.
func (s *Store[T]) Replace(items []T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(make([]T, 0, len(items)), items...)
	s.selected = make(map[uuid.UUID]struct{})
}

// Items returns a copy of the collection in order.
func (s *Store[T]) Items() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append(make([]T, 0, len(s.items)), s.items...)
}

func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *Store[T]) Get(id uuid.UUID) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.items[i], true
	}
	var zero T
	return zero, false
}

// Upsert replaces the row with the same ID in place, or prepends a new row.
func (s *Store[T]) Upsert(item T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(item.GetID()); i >= 0 {
		s.items[i] = item
		return
	}
	s.items = append([]T{item}, s.items...)
}

// Patch mutates one row in place.
func (s *Store[T]) Patch(id uuid.UUID, fn func(*T)) (undo func(), ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return func() {}, false
	}
	before := s.items[i]
	fn(&s.items[i])
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if j := s.indexOf(id); j >= 0 {
			s.items[j] = before
		}
	}, true
}

// Remove drops one row.
func (s *Store[T]) Remove(id uuid.UUID) (undo func(), ok bool) {
	removed, undo := s.RemoveMany([]uuid.UUID{id})
	return undo, removed == 1
}

// RemoveMany drops every row whose ID is listed. Survivors keep their order.
func (s *Store[T]) RemoveMany(ids []uuid.UUID) (removed int, undo func()) {
	drop := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	before := append(make([]T, 0, len(s.items)), s.items...)
	kept := s.items[:0:0]
	for _, item := range s.items {
		if _, gone := drop[item.GetID()]; gone {
			removed++
			delete(s.selected, item.GetID())
			continue
		}
		kept = append(kept, item)
	}
	s.items = kept

	return removed, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.items = restoreOrder(before, s.items)
	}
}

// restoreOrder puts back rows from before that are missing in current, at their
// old relative positions, keeping any newer versions of rows still present.
func restoreOrder[T Record](before, current []T) []T {
	latest := make(map[uuid.UUID]T, len(current))
	for _, item := range current {
		latest[item.GetID()] = item
	}
	seen := make(map[uuid.UUID]struct{}, len(before))
	out := make([]T, 0, len(before)+len(current))
	for _, item := range before {
		id := item.GetID()
		seen[id] = struct{}{}
		if cur, ok := latest[id]; ok {
			out = append(out, cur)
		} else {
			out = append(out, item)
		}
	}
	for _, item := range current {
		if _, ok := seen[item.GetID()]; !ok {
			out = append(out, item)
		}
	}
	return out
}

// Select marks rows for a bulk action. Unknown IDs are ignored.
func (s *Store[T]) Select(ids ...uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		if s.indexOf(id) >= 0 {
			s.selected[id] = struct{}{}
		}
	}
}

// Toggle flips the selection of one row.
func (s *Store[T]) Toggle(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.selected[id]; ok {
		delete(s.selected, id)
		return
	}
	if s.indexOf(id) >= 0 {
		s.selected[id] = struct{}{}
	}
}

// SelectAll selects every row currently in the store.
func (s *Store[T]) SelectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		s.selected[item.GetID()] = struct{}{}
	}
}

func (s *Store[T]) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = make(map[uuid.UUID]struct{})
}

// Selected returns the selected IDs in list order.
func (s *Store[T]) Selected() []uuid.UUID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []uuid.UUID
	for _, item := range s.items {
		if _, ok := s.selected[item.GetID()]; ok {
			out = append(out, item.GetID())
		}
	}
	return out
}

func (s *Store[T]) indexOf(id uuid.UUID) int {
	for i, item := range s.items {
		if item.GetID() == id {
			return i
		}
	}
	return -1
}
