package driving

import (
	"context"

	"github.com/psdshow/vanilla/internal/core/domain"
	"github.com/psdshow/vanilla/internal/core/ports/driven"
)

// EditorService opens documents for editing outside an interactive UI.
type EditorService interface {
	// Open loads a document and starts an edit session on it.
	// The session must be closed.
	Open(ctx context.Context, documentID string) (EditSession, error)
}

// EmbedFactory builds an EmbedService for a document whose engine is owned by
// the caller's event loop. It must be called on that loop.
type EmbedFactory func(engine driven.DocumentEngine, dispatcher driven.Dispatcher, documentID string) EmbedService

// EditSession is one open document with its own event loop.
// All methods are safe to call from any goroutine.
type EditSession interface {
	// Document returns the document as loaded.
	Document() *domain.Document

	// InsertText inserts a text line at the caret.
	InsertText(ctx context.Context, text string) error

	// ScrapeMedia embeds url at the caret.
	ScrapeMedia(ctx context.Context, url string) error

	// UploadFile uploads file and embeds it at the caret.
	UploadFile(ctx context.Context, file *domain.File) error

	// Pending returns the keys still awaiting a result.
	Pending(ctx context.Context) ([]domain.LookupKey, error)

	// Wait blocks until every embed started in this session has settled.
	Wait(ctx context.Context) error

	// Nodes returns a snapshot of the document body.
	Nodes(ctx context.Context) ([]domain.Node, error)

	// Save persists the document body. Placeholders are dropped.
	Save(ctx context.Context) (*domain.Document, error)

	// Close stops the session's event loop. Unsettled embeds are abandoned.
	Close() error
}
