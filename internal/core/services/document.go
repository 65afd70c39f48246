package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/psdshow/vanilla/internal/core/domain"
	"github.com/psdshow/vanilla/internal/core/ports/driven"
	"github.com/psdshow/vanilla/internal/core/ports/driving"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// defaultHistoryLimit bounds History when no limit is given.
const defaultHistoryLimit = 50

// DocumentService manages persisted editor documents.
type DocumentService struct {
	docStore driven.DocumentStore
	embedLog driven.EmbedLogStore
}

// NewDocumentService creates a new document service.
// embedLog may be nil, in which case History returns nothing.
func NewDocumentService(docStore driven.DocumentStore, embedLog driven.EmbedLogStore) *DocumentService {
	return &DocumentService{
		docStore: docStore,
		embedLog: embedLog,
	}
}

// Create makes and stores a new empty document.
func (s *DocumentService) Create(ctx context.Context, title string) (*domain.Document, error) {
	if s.docStore == nil {
		return nil, domain.ErrNotImplemented
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = "Untitled"
	}

	now := time.Now()
	doc := &domain.Document{
		ID:        uuid.New().String(),
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.docStore.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}
	return doc, nil
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(ctx context.Context, id string) (*domain.Document, error) {
	if s.docStore == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.docStore.GetDocument(ctx, id)
}

// Save persists a document body. Placeholders are dropped.
func (s *DocumentService) Save(ctx context.Context, doc *domain.Document) error {
	if s.docStore == nil {
		return domain.ErrNotImplemented
	}
	if doc == nil || doc.ID == "" {
		return fmt.Errorf("%w: document ID is required", domain.ErrInvalidInput)
	}

	now := time.Now()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now
	doc.Nodes = doc.Durable()

	return s.docStore.SaveDocument(ctx, doc)
}

// Delete removes a document.
func (s *DocumentService) Delete(ctx context.Context, id string) error {
	if s.docStore == nil {
		return domain.ErrNotImplemented
	}
	return s.docStore.DeleteDocument(ctx, id)
}

// List returns all documents without bodies.
func (s *DocumentService) List(ctx context.Context) ([]domain.Document, error) {
	if s.docStore == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.docStore.ListDocuments(ctx)
}

// Render returns one display line per node.
func (s *DocumentService) Render(doc *domain.Document) []string {
	if doc == nil {
		return nil
	}
	lines := make([]string, 0, len(doc.Nodes))
	for i := range doc.Nodes {
		lines = append(lines, doc.Nodes[i].String())
	}
	return lines
}

// History returns recent embed transitions for a document, newest first.
func (s *DocumentService) History(ctx context.Context, documentID string, limit int) ([]domain.EmbedLogEntry, error) {
	if s.embedLog == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return s.embedLog.List(ctx, documentID, limit)
}
