package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/psdshow/vanilla/internal/core/domain"
	"github.com/psdshow/vanilla/internal/core/ports/driven"
	"github.com/psdshow/vanilla/internal/core/ports/driving"
	"github.com/psdshow/vanilla/internal/logger"
)

// Ensure EmbedService implements the interface.
var _ driving.EmbedService = (*EmbedService)(nil)

// EmbedOptions configures an EmbedService.
type EmbedOptions struct {
	// RejectDuplicates makes a second submission of a pending key fail with
	// domain.ErrAlreadyPending instead of orphaning the first placeholder.
	RejectDuplicates bool

	// VideoEnabled turns video scrape results into video embeds.
	VideoEnabled bool

	// History, if set, records every terminal embed transition.
	History driven.EmbedLogStore

	// DocumentID labels history entries.
	DocumentID string
}

// EmbedService inserts scraped and uploaded media into a document.
type EmbedService struct {
	engine     driven.DocumentEngine
	dispatcher driven.Dispatcher
	registry   *PendingRequestRegistry
	tracker    *SelectionTracker
	lifecycle  *PlaceholderLifecycle
	media      *MediaResolver
	uploader   driven.UploadHelper
	tasks      *taskGroup
	opts       EmbedOptions

	// uploading holds files from submission until their upload task ends,
	// covering the gap before OnStart registers a placeholder.
	uploading map[*domain.File]struct{}
}

// NewEmbedService creates an embed service for one document.
// The service subscribes to the engine's change notifications, so it must be
// constructed on the goroutine that owns the engine.
func NewEmbedService(
	engine driven.DocumentEngine,
	dispatcher driven.Dispatcher,
	scraper driven.MediaScraper,
	opts EmbedOptions,
) *EmbedService {
	registry := NewPendingRequestRegistry()
	tracker := NewSelectionTracker(engine.Selection())
	lifecycle := NewPlaceholderLifecycle(engine, registry, tracker)
	lifecycle.SetHistory(opts.History, opts.DocumentID)

	s := &EmbedService{
		engine:     engine,
		dispatcher: dispatcher,
		registry:   registry,
		tracker:    tracker,
		lifecycle:  lifecycle,
		media:      NewMediaResolver(scraper, opts.VideoEnabled),
		tasks:      newTaskGroup(dispatcher),
		opts:       opts,
		uploading:  make(map[*domain.File]struct{}),
	}
	engine.OnChange(s.ObserveSelection)
	return s
}

// SetUploadHelper sets the helper UploadFile delegates to. The helper is
// expected to report through the hooks returned by UploadHooks.
func (s *EmbedService) SetUploadHelper(helper driven.UploadHelper) {
	s.uploader = helper
}

// ScrapeMedia inserts a placeholder for rawURL and scrapes it in the background.
func (s *EmbedService) ScrapeMedia(ctx context.Context, rawURL string) error {
	target, err := normalizeURL(rawURL)
	if err != nil {
		return err
	}
	key := domain.URLKey(target)
	if err := s.checkDuplicate(key); err != nil {
		return err
	}

	if _, err := s.lifecycle.CreatePlaceholder(key); err != nil {
		return err
	}
	logger.Debug("Scraping %s", target)

	s.tasks.Go(func() func() {
		outcome := s.media.Resolve(ctx, target)
		return func() {
			s.lifecycle.Resolve(key, outcome)
		}
	})
	return nil
}

// UploadFile uploads file in the background. The placeholder appears when
// the helper reports the upload has started.
func (s *EmbedService) UploadFile(ctx context.Context, file *domain.File) error {
	if file == nil {
		return fmt.Errorf("%w: file is required", domain.ErrInvalidInput)
	}
	if s.uploader == nil {
		return fmt.Errorf("%w: no upload backend configured", domain.ErrNotImplemented)
	}
	if _, ok := s.uploading[file]; ok && s.opts.RejectDuplicates {
		return fmt.Errorf("%w: %s", domain.ErrAlreadyPending, domain.FileKey(file))
	}
	if err := s.checkDuplicate(domain.FileKey(file)); err != nil {
		return err
	}
	logger.Debug("Uploading %s (%d bytes)", file.Name, file.Size)

	s.uploading[file] = struct{}{}
	s.tasks.Go(func() func() {
		// The helper posts its hooks before returning, so they run
		// ahead of this task's completion.
		s.uploader.Upload(ctx, file)
		return func() {
			delete(s.uploading, file)
		}
	})
	return nil
}

// UploadHooks returns hooks that hand upload progress to the event loop.
// They are safe to call from any goroutine.
func (s *EmbedService) UploadHooks() driven.UploadHooks {
	return driven.UploadHooks{
		OnStart: func(file *domain.File) {
			s.post(func() { s.uploadStarted(file) })
		},
		OnSuccess: func(file *domain.File, result *domain.UploadResult) {
			s.post(func() { s.uploadFinished(file, uploadSucceeded(file, result)) })
		},
		OnFailure: func(file *domain.File, err error) {
			s.post(func() { s.uploadFinished(file, uploadFailed(file, err)) })
		},
	}
}

// ObserveSelection records the caret after a document change.
func (s *EmbedService) ObserveSelection(sel domain.Selection) {
	s.tracker.Observe(sel)
}

// Pending returns the keys still awaiting a result.
func (s *EmbedService) Pending() []domain.LookupKey {
	return s.registry.Keys()
}

// Wait blocks until all background work has settled on the loop.
func (s *EmbedService) Wait(ctx context.Context) error {
	return s.tasks.Wait(ctx)
}

func (s *EmbedService) checkDuplicate(key domain.LookupKey) error {
	if !s.opts.RejectDuplicates {
		return nil
	}
	if _, ok := s.registry.Get(key); ok {
		return fmt.Errorf("%w: %s", domain.ErrAlreadyPending, key)
	}
	return nil
}

func (s *EmbedService) post(fn func()) {
	if err := s.dispatcher.Post(fn); err != nil {
		logger.Warn("Dropping upload event: %v", err)
	}
}

// normalizeURL trims raw and checks it is an absolute http(s) URL.
func normalizeURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("%w: url is required", domain.ErrInvalidInput)
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: %q is not an http(s) URL", domain.ErrInvalidInput, trimmed)
	}
	return trimmed, nil
}
