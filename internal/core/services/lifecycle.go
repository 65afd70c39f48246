package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/psdshow/vanilla/internal/core/domain"
	"github.com/psdshow/vanilla/internal/core/ports/driven"
	"github.com/psdshow/vanilla/internal/logger"
)

// Ensure PlaceholderLifecycle can be armed as a destroy hook.
var _ domain.DestroyHook = (*PlaceholderLifecycle)(nil)

// PlaceholderLifecycle creates loading nodes and later resolves them into
// result or error nodes.
//
// Results can arrive after the document has moved on: the placeholder may
// have been deleted, undone, or displaced by a duplicate submission. Resolve
// looks the placeholder up through the registry every time and never assumes
// it still exists.
type PlaceholderLifecycle struct {
	engine   driven.DocumentEngine
	registry *PendingRequestRegistry
	tracker  *SelectionTracker

	history    driven.EmbedLogStore
	documentID string
}

// NewPlaceholderLifecycle creates a lifecycle over a document engine.
func NewPlaceholderLifecycle(
	engine driven.DocumentEngine,
	registry *PendingRequestRegistry,
	tracker *SelectionTracker,
) *PlaceholderLifecycle {
	return &PlaceholderLifecycle{
		engine:   engine,
		registry: registry,
		tracker:  tracker,
	}
}

// SetHistory records terminal transitions for documentID in store.
// A nil store disables recording.
func (l *PlaceholderLifecycle) SetHistory(store driven.EmbedLogStore, documentID string) {
	l.history = store
	l.documentID = documentID
}

// CreatePlaceholder inserts a loading node for key at the tracked selection,
// moves the caret past it and registers it under key.
func (l *PlaceholderLifecycle) CreatePlaceholder(key domain.LookupKey) (*domain.Placeholder, error) {
	if key.IsZero() {
		return nil, fmt.Errorf("%w: placeholder requires a lookup key", domain.ErrInvalidInput)
	}

	index := l.tracker.Current().Index
	var id domain.NodeID
	err := l.tracker.Guard(func() error {
		var err error
		id, err = l.engine.Insert(index, domain.PlaceholderNode(key, l))
		if err != nil {
			return err
		}
		l.engine.SetSelection(index + 1)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("insert placeholder: %w", err)
	}
	l.tracker.Set(domain.Caret(index + 1))

	node, ok := l.engine.Node(id)
	if !ok || node.Placeholder == nil {
		return nil, fmt.Errorf("%w: placeholder %s", domain.ErrNotFound, id)
	}

	if previous, ok := l.registry.Get(key); ok {
		logger.Debug("Key %s already pending in node %s, tracking %s instead", key, previous.ID, id)
	}
	l.registry.Set(key, node.Placeholder)
	logger.Debug("Placeholder %s created for %s at %d", id, key, index)

	return node.Placeholder, nil
}

// Resolve settles the operation identified by key.
//
// If the placeholder is still pending it is replaced by the outcome's node.
// Otherwise a successful outcome is discarded and a failed outcome is
// inserted as a standalone error node at the last known selection.
func (l *PlaceholderLifecycle) Resolve(key domain.LookupKey, outcome domain.Outcome) {
	message := ""
	if outcome.IsError() {
		message = outcome.Err.Error()
		logger.Error("%s", message)
	}
	result := outcome.Node()

	if p, ok := l.registry.Get(key); ok {
		l.registry.Delete(key)
		err := l.engine.Replace(p.ID, result)
		if err == nil {
			logger.Debug("Placeholder %s for %s resolved as %s", p.ID, key, result.Kind)
			l.record(key, result.Kind, statusOf(outcome), message)
			return
		}
		logger.Warn("Placeholder %s for %s could not be replaced: %v", p.ID, key, err)
	}

	if !outcome.IsError() {
		logger.Debug("Discarding late result for %s", key)
		l.record(key, result.Kind, domain.EmbedDiscarded, "")
		return
	}

	if err := l.insertStandalone(result); err != nil {
		logger.Error("insert error embed for %s: %v", key, err)
		return
	}
	l.record(key, result.Kind, domain.EmbedFailed, message)
}

// PlaceholderDestroyed implements domain.DestroyHook. It forgets key only if
// the destroyed node is the one currently tracked, so removing an orphaned
// duplicate does not cancel the live request.
func (l *PlaceholderLifecycle) PlaceholderDestroyed(p *domain.Placeholder) {
	current, ok := l.registry.Get(p.Key)
	if !ok || current.ID != p.ID {
		return
	}
	l.registry.Delete(p.Key)
	logger.Debug("Placeholder %s for %s removed before its result arrived", p.ID, p.Key)
	l.record(p.Key, domain.NodePlaceholder, domain.EmbedCancelled, "")
}

// insertStandalone places node at the tracked selection and moves past it.
func (l *PlaceholderLifecycle) insertStandalone(node domain.Node) error {
	index := l.tracker.Current().Index
	err := l.tracker.Guard(func() error {
		if _, err := l.engine.Insert(index, node); err != nil {
			return err
		}
		l.engine.SetSelection(index + 1)
		return nil
	})
	if err != nil {
		return err
	}
	l.tracker.Set(domain.Caret(index + 1))
	return nil
}

func (l *PlaceholderLifecycle) record(key domain.LookupKey, kind domain.NodeKind, status domain.EmbedStatus, message string) {
	if l.history == nil {
		return
	}
	entry := domain.EmbedLogEntry{
		ID:         uuid.New().String(),
		DocumentID: l.documentID,
		Key:        key.String(),
		Kind:       kind,
		Status:     status,
		Message:    message,
		CreatedAt:  time.Now(),
	}
	if err := l.history.Append(context.Background(), entry); err != nil {
		logger.Warn("recording embed history for %s: %v", key, err)
	}
}

func statusOf(outcome domain.Outcome) domain.EmbedStatus {
	if outcome.IsError() {
		return domain.EmbedFailed
	}
	return domain.EmbedResolved
}
