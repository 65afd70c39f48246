package driven

import (
	"context"

	"github.com/psdshow/vanilla/internal/core/domain"
)

// DocumentStore persists editor documents.
type DocumentStore interface {
	// SaveDocument stores or updates a document. Placeholders are dropped.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// DeleteDocument removes a document.
	DeleteDocument(ctx context.Context, id string) error

	// ListDocuments returns all documents without their bodies.
	ListDocuments(ctx context.Context) ([]domain.Document, error)
}

// EmbedLogStore records terminal embed transitions.
type EmbedLogStore interface {
	// Append records an entry.
	Append(ctx context.Context, entry domain.EmbedLogEntry) error

	// List returns the most recent entries for a document, newest first.
	// An empty documentID lists entries for all documents.
	List(ctx context.Context, documentID string, limit int) ([]domain.EmbedLogEntry, error)
}
