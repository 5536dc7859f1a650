package session

import (
	"sort"

	"github.com/handiism/f1rdf/internal/model"
)

// Cache maps section IDs to fetch outcomes for a single SelectionKey.
type Cache struct {
	key      model.SelectionKey
	outcomes map[string]model.Outcome
}

// NewCache creates an empty cache bound to key.
func NewCache(key model.SelectionKey) *Cache {
	return &Cache{key: key, outcomes: make(map[string]model.Outcome)}
}

// Key returns the scope the cached outcomes belong to.
func (c *Cache) Key() model.SelectionKey {
	return c.key
}

// Set records the outcome for a section, replacing any previous one.
func (c *Cache) Set(id string, o model.Outcome) {
	c.outcomes[id] = o
}

// Get returns the outcome for a section. Sections that were never fetched
// report false.
func (c *Cache) Get(id string) (model.Outcome, bool) {
	if c == nil {
		return model.Outcome{}, false
	}
	o, ok := c.outcomes[id]
	return o, ok
}

// Len returns the number of cached outcomes.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return len(c.outcomes)
}

// IDs returns the cached section IDs sorted lexically. Use
// section.Registry.Ordered for registry order.
func (c *Cache) IDs() []string {
	if c == nil {
		return nil
	}
	ids := make([]string, 0, len(c.outcomes))
	for id := range c.outcomes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Count returns how many outcomes have the given status.
func (c *Cache) Count(status model.Status) int {
	if c == nil {
		return 0
	}
	n := 0
	for _, o := range c.outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}
