package services

import (
	"sort"

	"github.com/psdshow/vanilla/internal/core/domain"
)

// PendingRequestRegistry maps each in-flight lookup key to the placeholder
// currently standing in for it. A key is present until its placeholder is
// resolved or removed from the document. Setting an existing key replaces
// the tracked placeholder.
//
// The registry is owned by the event loop and is not safe for concurrent use.
type PendingRequestRegistry struct {
	entries map[domain.LookupKey]*domain.Placeholder
}

// NewPendingRequestRegistry creates an empty registry.
func NewPendingRequestRegistry() *PendingRequestRegistry {
	return &PendingRequestRegistry{
		entries: make(map[domain.LookupKey]*domain.Placeholder),
	}
}

// Set stores or overwrites the placeholder for key.
func (r *PendingRequestRegistry) Set(key domain.LookupKey, p *domain.Placeholder) {
	r.entries[key] = p
}

// Get returns the placeholder for key.
func (r *PendingRequestRegistry) Get(key domain.LookupKey) (*domain.Placeholder, bool) {
	p, ok := r.entries[key]
	return p, ok
}

// Delete removes key. Deleting an absent key is a no-op.
func (r *PendingRequestRegistry) Delete(key domain.LookupKey) {
	delete(r.entries, key)
}

// Len returns the number of pending keys.
func (r *PendingRequestRegistry) Len() int {
	return len(r.entries)
}

// Keys returns the pending keys ordered by their string form.
func (r *PendingRequestRegistry) Keys() []domain.LookupKey {
	keys := make([]domain.LookupKey, 0, len(r.entries))
	for key := range r.entries {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].String() < keys[j].String()
	})
	return keys
}
