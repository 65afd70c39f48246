package driving

import (
	"context"

	"github.com/psdshow/vanilla/internal/core/domain"
)

// DocumentService manages persisted editor documents.
type DocumentService interface {
	// Create makes a new empty document.
	Create(ctx context.Context, title string) (*domain.Document, error)

	// Get retrieves a document by ID.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// Save persists a document body.
	Save(ctx context.Context, doc *domain.Document) error

	// Delete removes a document.
	Delete(ctx context.Context, id string) error

	// List returns all documents without bodies.
	List(ctx context.Context) ([]domain.Document, error)

	// Render returns the document body as display lines.
	Render(doc *domain.Document) []string

	// History returns recent embed transitions for a document.
	History(ctx context.Context, documentID string, limit int) ([]domain.EmbedLogEntry, error)
}
