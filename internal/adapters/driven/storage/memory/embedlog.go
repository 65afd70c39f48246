package memory

import (
	"context"
	"sync"

	"github.com/psdshow/vanilla/internal/core/domain"
	"github.com/psdshow/vanilla/internal/core/ports/driven"
)

// Ensure EmbedLogStore implements the interface.
var _ driven.EmbedLogStore = (*EmbedLogStore)(nil)

// EmbedLogStore is an in-memory implementation of driven.EmbedLogStore.
type EmbedLogStore struct {
	mu      sync.RWMutex
	entries []domain.EmbedLogEntry
}

// NewEmbedLogStore creates a new in-memory embed log.
func NewEmbedLogStore() *EmbedLogStore {
	return &EmbedLogStore{}
}

// Append records an entry.
func (s *EmbedLogStore) Append(_ context.Context, entry domain.EmbedLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

// List returns up to limit entries for documentID, newest first.
func (s *EmbedLogStore) List(_ context.Context, documentID string, limit int) ([]domain.EmbedLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.EmbedLogEntry
	for i := len(s.entries) - 1; i >= 0; i-- {
		if limit > 0 && len(result) >= limit {
			break
		}
		if documentID != "" && s.entries[i].DocumentID != documentID {
			continue
		}
		result = append(result, s.entries[i])
	}
	return result, nil
}
