package view

import "sync"

// Rows is the last-known-good list behind a view. Failed fetches leave it
// untouched; only a successful response replaces it.
type Rows[T any] struct {
	mu     sync.RWMutex
	rows   []T
	loaded bool
}

func (r *Rows[T]) Set(rows []T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append([]T(nil), rows...)
	r.loaded = true
}

// Get returns a copy.
func (r *Rows[T]) Get() []T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]T(nil), r.rows...)
}

// Loaded reports whether any fetch has succeeded yet.
func (r *Rows[T]) Loaded() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loaded
}

// Remove drops every row for which match is true and reports how many went.
func (r *Rows[T]) Remove(match func(T) bool) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.rows[:0:0]
	for _, row := range r.rows {
		if !match(row) {
			kept = append(kept, row)
		}
	}
	removed := len(r.rows) - len(kept)
	r.rows = kept
	return removed
}
