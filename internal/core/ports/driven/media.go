package driven

import (
	"context"

	"github.com/psdshow/vanilla/internal/core/domain"
)

// MediaScraper resolves a URL into embed metadata.
// Failures reported by a server are returned as *domain.RemoteError.
type MediaScraper interface {
	Scrape(ctx context.Context, url string) (*domain.ScrapeResult, error)
}

// MediaUploader stores a file and returns where it can be fetched from.
type MediaUploader interface {
	Upload(ctx context.Context, file *domain.File) (*domain.UploadResult, error)
}

// UploadHooks are the callbacks an upload helper invokes around an upload.
// OnStart runs before the network call begins; exactly one of OnSuccess or
// OnFailure follows. OnFailure may be invoked without OnStart when a file is
// rejected before uploading. Hooks may be invoked from any goroutine.
type UploadHooks struct {
	OnStart   func(file *domain.File)
	OnSuccess func(file *domain.File, result *domain.UploadResult)
	OnFailure func(file *domain.File, err error)
}

// UploadHelper validates and uploads files, reporting through its UploadHooks.
type UploadHelper interface {
	// Upload runs one upload to completion, blocking until the final hook returns.
	Upload(ctx context.Context, file *domain.File)
}
