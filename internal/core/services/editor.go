package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/psdshow/vanilla/internal/core/domain"
	"github.com/psdshow/vanilla/internal/core/ports/driven"
	"github.com/psdshow/vanilla/internal/core/ports/driving"
	"github.com/psdshow/vanilla/internal/logger"
)

// Ensure EditorService implements the interface.
var _ driving.EditorService = (*EditorService)(nil)

// EditorConfig holds the collaborators an EditorService wires into each session.
type EditorConfig struct {
	// Documents loads and saves documents.
	Documents driving.DocumentService

	// NewEngine builds a document engine holding nodes.
	NewEngine func(nodes []domain.Node) driven.DocumentEngine

	// Scraper resolves URLs.
	Scraper driven.MediaScraper

	// NewUploadHelper, if set, builds the helper reporting through hooks.
	// Without it UploadFile fails with domain.ErrNotImplemented.
	NewUploadHelper func(hooks driven.UploadHooks) driven.UploadHelper

	// Options are applied to every session's EmbedService.
	// DocumentID is filled in per session.
	Options EmbedOptions
}

// EditorService opens edit sessions over persisted documents.
type EditorService struct {
	cfg EditorConfig
}

// NewEditorService creates an editor service.
func NewEditorService(cfg EditorConfig) *EditorService {
	return &EditorService{cfg: cfg}
}

// Open loads documentID and starts its event loop.
func (s *EditorService) Open(ctx context.Context, documentID string) (driving.EditSession, error) {
	if s.cfg.Documents == nil || s.cfg.NewEngine == nil || s.cfg.Scraper == nil {
		return nil, fmt.Errorf("%w: editor is not configured", domain.ErrNotImplemented)
	}
	doc, err := s.cfg.Documents.Get(ctx, documentID)
	if err != nil {
		return nil, err
	}

	session := &EditSession{
		doc:    doc,
		docs:   s.cfg.Documents,
		loop:   NewEventLoop(),
		done:   make(chan error, 1),
		engine: s.cfg.NewEngine(doc.Nodes),
	}
	go func() {
		session.done <- session.loop.Run(context.Background())
	}()

	err = session.loop.Do(ctx, func() error {
		session.embeds = s.newEmbedService(session.engine, session.loop, doc.ID)
		return nil
	})
	if err != nil {
		_ = session.Close()
		return nil, err
	}
	logger.Debug("Opened document %s (%d nodes)", doc.ID, len(doc.Nodes))
	return session, nil
}

// NewEmbeds builds an EmbedService for a document hosted on the caller's
// own loop. It must be called on that loop.
func (s *EditorService) NewEmbeds(
	engine driven.DocumentEngine,
	dispatcher driven.Dispatcher,
	documentID string,
) driving.EmbedService {
	return s.newEmbedService(engine, dispatcher, documentID)
}

func (s *EditorService) newEmbedService(
	engine driven.DocumentEngine,
	dispatcher driven.Dispatcher,
	documentID string,
) *EmbedService {
	opts := s.cfg.Options
	opts.DocumentID = documentID
	embeds := NewEmbedService(engine, dispatcher, s.cfg.Scraper, opts)
	if s.cfg.NewUploadHelper != nil {
		embeds.SetUploadHelper(s.cfg.NewUploadHelper(embeds.UploadHooks()))
	}
	return embeds
}

// EditSession edits one document on its own event loop.
type EditSession struct {
	// mu guards doc and serialises saves.
	mu     sync.Mutex
	doc    *domain.Document
	docs   driving.DocumentService
	loop   *EventLoop
	done   chan error
	engine driven.DocumentEngine
	embeds *EmbedService
}

// Document returns the document as loaded.
func (s *EditSession) Document() *domain.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

// InsertText inserts a text line at the caret and moves the caret past it.
func (s *EditSession) InsertText(ctx context.Context, text string) error {
	return s.loop.Do(ctx, func() error {
		index := s.engine.Selection().Index
		if _, err := s.engine.Insert(index, domain.TextNode(text)); err != nil {
			return err
		}
		s.engine.SetSelection(index + 1)
		return nil
	})
}

// ScrapeMedia embeds url at the caret.
func (s *EditSession) ScrapeMedia(ctx context.Context, url string) error {
	return s.loop.Do(ctx, func() error {
		return s.embeds.ScrapeMedia(ctx, url)
	})
}

// UploadFile uploads file and embeds it at the caret.
func (s *EditSession) UploadFile(ctx context.Context, file *domain.File) error {
	return s.loop.Do(ctx, func() error {
		return s.embeds.UploadFile(ctx, file)
	})
}

// Pending returns the keys still awaiting a result.
func (s *EditSession) Pending(ctx context.Context) ([]domain.LookupKey, error) {
	var keys []domain.LookupKey
	err := s.loop.Do(ctx, func() error {
		keys = s.embeds.Pending()
		return nil
	})
	return keys, err
}

// Wait blocks until every embed started in this session has settled.
func (s *EditSession) Wait(ctx context.Context) error {
	return s.embeds.Wait(ctx)
}

// Nodes returns a snapshot of the document body.
func (s *EditSession) Nodes(ctx context.Context) ([]domain.Node, error) {
	var nodes []domain.Node
	err := s.loop.Do(ctx, func() error {
		nodes = s.engine.Nodes()
		return nil
	})
	return nodes, err
}

// Save persists the current body. Concurrent saves run one at a time.
func (s *EditSession) Save(ctx context.Context) (*domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	nodes, err := s.Nodes(ctx)
	if err != nil {
		return nil, err
	}
	doc := *s.doc
	doc.Nodes = nodes
	if err := s.docs.Save(ctx, &doc); err != nil {
		return nil, err
	}
	s.doc = &doc
	return &doc, nil
}

// Close stops the event loop and waits for it to exit.
func (s *EditSession) Close() error {
	s.loop.Stop()
	err := <-s.done
	s.done <- err
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
