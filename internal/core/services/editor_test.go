package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psdshow/vanilla/internal/adapters/driven/document/arena"
	"github.com/psdshow/vanilla/internal/adapters/driven/storage/memory"
	"github.com/psdshow/vanilla/internal/core/domain"
	"github.com/psdshow/vanilla/internal/core/ports/driven"
	"github.com/psdshow/vanilla/internal/core/ports/driving"
)

type editorFixture struct {
	docs    *DocumentService
	log     *memory.EmbedLogStore
	scraper *stubScraper
	editor  *EditorService
	doc     *domain.Document
}

func newEditorFixture(t *testing.T, upload *domain.UploadResult) *editorFixture {
	t.Helper()
	f := &editorFixture{
		log:     memory.NewEmbedLogStore(),
		scraper: &stubScraper{results: map[string]*domain.ScrapeResult{}},
	}
	f.docs = NewDocumentService(memory.NewDocumentStore(), f.log)

	cfg := EditorConfig{
		Documents: f.docs,
		NewEngine: func(nodes []domain.Node) driven.DocumentEngine { return arena.NewEngine(nodes...) },
		Scraper:   f.scraper,
		Options:   EmbedOptions{History: f.log},
	}
	if upload != nil {
		cfg.NewUploadHelper = func(hooks driven.UploadHooks) driven.UploadHelper {
			return &stubUploadHelper{hooks: hooks, result: upload}
		}
	}
	f.editor = NewEditorService(cfg)

	doc, err := f.docs.Create(context.Background(), "Notes")
	require.NoError(t, err)
	f.doc = doc
	return f
}

func (f *editorFixture) open(t *testing.T) driving.EditSession {
	t.Helper()
	session, err := f.editor.Open(context.Background(), f.doc.ID)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func TestEditorService_ScrapeAndSave(t *testing.T) {
	f := newEditorFixture(t, nil)
	ctx := context.Background()
	session := f.open(t)

	require.NoError(t, session.InsertText(ctx, "Look at this:"))
	require.NoError(t, session.ScrapeMedia(ctx, "https://example.com/a"))
	require.NoError(t, session.Wait(ctx))

	saved, err := session.Save(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Look at this:", "[site] https://example.com/a <https://example.com/a>"},
		f.docs.Render(saved))

	stored, err := f.docs.Get(ctx, f.doc.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Nodes, 2)

	history, err := f.docs.History(ctx, f.doc.ID, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, domain.EmbedResolved, history[0].Status)
}

func TestEditorService_SaveDropsPendingPlaceholders(t *testing.T) {
	f := newEditorFixture(t, nil)
	f.scraper.release = make(chan struct{})
	defer close(f.scraper.release)
	ctx := context.Background()
	session := f.open(t)

	require.NoError(t, session.ScrapeMedia(ctx, "https://slow.example.com"))

	pending, err := session.Pending(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.LookupKey{domain.URLKey("https://slow.example.com")}, pending)

	nodes, err := session.Nodes(ctx)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, domain.NodePlaceholder, nodes[0].Kind)

	saved, err := session.Save(ctx)
	require.NoError(t, err)
	assert.Empty(t, saved.Nodes)
}

func TestEditSession_ConcurrentSaves(t *testing.T) {
	f := newEditorFixture(t, nil)
	ctx := context.Background()
	session := f.open(t)

	require.NoError(t, session.ScrapeMedia(ctx, "https://example.com/a"))
	require.NoError(t, session.ScrapeMedia(ctx, "https://example.com/b"))

	var wg sync.WaitGroup
	errs := make(chan error, 4)
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := session.Wait(ctx); err != nil {
				errs <- err
				return
			}
			_, err := session.Save(ctx)
			errs <- err
			_ = session.Document()
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	assert.Len(t, session.Document().Nodes, 2)
	stored, err := f.docs.Get(ctx, f.doc.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Nodes, 2)
}

func TestEditorService_Upload(t *testing.T) {
	f := newEditorFixture(t, &domain.UploadResult{URL: "https://cdn.example.com/cat.png"})
	ctx := context.Background()
	session := f.open(t)

	require.NoError(t, session.UploadFile(ctx, &domain.File{Name: "cat.png", MIMEType: "image/png"}))
	require.NoError(t, session.Wait(ctx))

	nodes, err := session.Nodes(ctx)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, domain.ImageEmbed{URL: "https://cdn.example.com/cat.png", Name: "cat.png"}, nodes[0].Embed)
}

func TestEditorService_UploadWithoutHelper(t *testing.T) {
	f := newEditorFixture(t, nil)
	session := f.open(t)

	err := session.UploadFile(context.Background(), &domain.File{Name: "cat.png"})

	assert.ErrorIs(t, err, domain.ErrNotImplemented)
}

func TestEditorService_OpenMissingDocument(t *testing.T) {
	f := newEditorFixture(t, nil)

	_, err := f.editor.Open(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEditorService_OpenUnconfigured(t *testing.T) {
	_, err := NewEditorService(EditorConfig{}).Open(context.Background(), "doc")
	assert.ErrorIs(t, err, domain.ErrNotImplemented)
}

func TestEditSession_CloseIsIdempotent(t *testing.T) {
	f := newEditorFixture(t, nil)
	session, err := f.editor.Open(context.Background(), f.doc.ID)
	require.NoError(t, err)

	require.NoError(t, session.Close())
	require.NoError(t, session.Close())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.ErrorIs(t, session.InsertText(ctx, "late"), domain.ErrLoopStopped)
}

func TestEditorService_NewEmbedsOnCallerLoop(t *testing.T) {
	f := newEditorFixture(t, nil)
	loop := startLoop(t)
	engine := arena.NewEngine()
	var factory driving.EmbedFactory = f.editor.NewEmbeds

	var embeds driving.EmbedService
	require.NoError(t, loop.Do(context.Background(), func() error {
		embeds = factory(engine, loop, f.doc.ID)
		return embeds.ScrapeMedia(context.Background(), "https://example.com")
	}))
	require.NoError(t, embeds.Wait(context.Background()))

	entries, err := f.log.List(context.Background(), f.doc.ID, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, f.doc.ID, entries[0].DocumentID)
}
