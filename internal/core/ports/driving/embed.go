package driving

import (
	"context"

	"github.com/psdshow/vanilla/internal/core/domain"
	"github.com/psdshow/vanilla/internal/core/ports/driven"
)

// EmbedService inserts embeds into a document asynchronously.
//
// Every method except Wait must be called on the goroutine that owns the
// document, i.e. from a function posted to the service's dispatcher.
type EmbedService interface {
	// ScrapeMedia inserts a placeholder for url at the selection and
	// resolves it once the scrape settles.
	ScrapeMedia(ctx context.Context, url string) error

	// UploadFile hands file to the upload helper. The placeholder is
	// created when the helper reports the upload has started.
	UploadFile(ctx context.Context, file *domain.File) error

	// UploadHooks returns the callbacks to wire into an upload helper.
	UploadHooks() driven.UploadHooks

	// ObserveSelection records the caret after a document change.
	ObserveSelection(sel domain.Selection)

	// Pending returns the keys of placeholders still awaiting a result.
	Pending() []domain.LookupKey

	// Wait blocks until every request started through this service has
	// settled and its continuation has run.
	Wait(ctx context.Context) error
}
