package internal

import "sync"

// SafeSet is a concurrency-safe set of comparable keys.
type SafeSet[K comparable] struct {
	mu sync.Mutex
	v  map[K]struct{}
}

func NewSafeSet[K comparable]() *SafeSet[K] {
	return &SafeSet[K]{v: make(map[K]struct{})}
}

// Add inserts key and reports whether it was new.
func (s *SafeSet[K]) Add(key K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, seen := s.v[key]; seen {
		return false
	}
	s.v[key] = struct{}{}
	return true
}

func (s *SafeSet[K]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.v)
}
