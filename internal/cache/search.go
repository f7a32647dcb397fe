package cache

import (
	"fmt"
	"strings"
	"sync"

	"orderdesk/internal/metrics"

	lru "github.com/hashicorp/golang-lru/v2"
)

const DefaultSize = 100

// Search holds recent search results keyed by the normalized term. It is
// bounded: once full, the entry inserted longest ago is evicted. Neither a
// lookup nor storing a new result for a known term changes its position.
type Search[V any] struct {
	name string
	mu   sync.Mutex
	lru  *lru.Cache[string, *entry[V]]
}

type entry[V any] struct {
	value V
}

func NewSearch[V any](name string, size int) (*Search[V], error) {
	if size <= 0 {
		size = DefaultSize
	}
	c, err := lru.New[string, *entry[V]](size)
	if err != nil {
		return nil, fmt.Errorf("create %s cache: %w", name, err)
	}
	return &Search[V]{name: name, lru: c}, nil
}

func (s *Search[V]) Get(term string) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.lru.Peek(normalize(term))
	if !ok {
		var zero V
		return zero, false
	}
	metrics.SearchCacheHits.WithLabelValues(s.name).Inc()
	return e.value, true
}

// Add stores v for term. A term already cached keeps its insertion slot and
// only its value is replaced.
func (s *Search[V]) Add(term string, v V) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := normalize(term)
	if e, ok := s.lru.Peek(key); ok {
		e.value = v
		return
	}
	s.lru.Add(key, &entry[V]{value: v})
}

func (s *Search[V]) Len() int {
	return s.lru.Len()
}

// Purge drops every entry. Called after writes that make cached results stale.
func (s *Search[V]) Purge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lru.Purge()
}

func normalize(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}
