package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/handiism/f1rdf/internal/model"
	"github.com/handiism/f1rdf/internal/section"
)

var (
	// ErrUnknownSection is returned when toggling an ID the registry lacks.
	ErrUnknownSection = errors.New("unknown section")

	// ErrStaleScope is returned by Store when a batch result belongs to a
	// scope that is no longer active.
	ErrStaleScope = errors.New("result belongs to a different selection")
)

// Session is the explicit context for one user's interaction: the active
// scope, the chosen sections and the results fetched for them.
type Session struct {
	registry *section.Registry

	mu       sync.RWMutex
	key      model.SelectionKey
	selected map[string]bool
	cache    *Cache
}

// New creates a Session with no scope and nothing selected.
func New(registry *section.Registry) *Session {
	return &Session{
		registry: registry,
		selected: make(map[string]bool),
		cache:    NewCache(model.SelectionKey{}),
	}
}

// Registry returns the catalog the session selects from.
func (s *Session) Registry() *section.Registry {
	return s.registry
}

// SetScope makes key the active scope. If key differs from the current one,
// the selection and the cache are cleared first. It reports whether the
// scope changed.
//
// Call SetScope before any other mutation in an interaction cycle.
func (s *Session) SetScope(key model.SelectionKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if key == s.key {
		return false
	}
	s.selected = make(map[string]bool)
	s.cache = NewCache(key)
	s.key = key
	return true
}

// Key returns the active scope.
func (s *Session) Key() model.SelectionKey {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.key
}

// Toggle flips the membership of id in the selection.
func (s *Session) Toggle(id string) error {
	if !s.registry.Contains(id) {
		return fmt.Errorf("toggle %q: %w", id, ErrUnknownSection)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selected[id] {
		delete(s.selected, id)
	} else {
		s.selected[id] = true
	}
	return nil
}

// Select sets the selection to exactly ids, replacing any prior choice.
func (s *Session) Select(ids ...string) error {
	next := make(map[string]bool, len(ids))
	for _, id := range ids {
		if !s.registry.Contains(id) {
			return fmt.Errorf("select %q: %w", id, ErrUnknownSection)
		}
		next[id] = true
	}
	s.mu.Lock()
	s.selected = next
	s.mu.Unlock()
	return nil
}

// IsSelected reports whether id is currently chosen.
func (s *Session) IsSelected(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected[id]
}

// SelectAll chooses every registered section.
func (s *Session) SelectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.registry.IDs() {
		s.selected[id] = true
	}
}

// ClearAll deselects every section.
func (s *Session) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = make(map[string]bool)
}

// AllSelected reports whether every registered section is chosen.
func (s *Session) AllSelected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.selected) == s.registry.Len()
}

// Selected returns the chosen section IDs in registry order.
func (s *Session) Selected() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.selected))
	for _, id := range s.registry.IDs() {
		if s.selected[id] {
			ids = append(ids, id)
		}
	}
	return ids
}

// Store installs the result of a finished batch. The cache must belong to
// the active scope; results for any other scope are rejected.
func (s *Session) Store(c *Cache) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.Key() != s.key {
		return fmt.Errorf("store %v while %v is active: %w", c.Key(), s.key, ErrStaleScope)
	}
	s.cache = c
	return nil
}

// Cache returns the results for the active scope. It is never nil.
func (s *Session) Cache() *Cache {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cache
}

// HasResults reports whether a batch has been stored for the active scope.
func (s *Session) HasResults() bool {
	return s.Cache().Len() > 0
}

// Reset clears the selection and the cached results but keeps the scope.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = make(map[string]bool)
	s.cache = NewCache(s.key)
}
