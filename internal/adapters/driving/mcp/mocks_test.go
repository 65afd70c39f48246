package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/psdshow/vanilla/internal/adapters/driven/document/arena"
	"github.com/psdshow/vanilla/internal/adapters/driven/storage/memory"
	"github.com/psdshow/vanilla/internal/core/domain"
	"github.com/psdshow/vanilla/internal/core/ports/driven"
	"github.com/psdshow/vanilla/internal/core/services"
)

// mockScraper returns a site embed, or fails for URLs listed in failures.
type mockScraper struct {
	failures map[string]error
	block    chan struct{}
}

func (m *mockScraper) Scrape(ctx context.Context, url string) (*domain.ScrapeResult, error) {
	if m.block != nil {
		select {
		case <-m.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err, ok := m.failures[url]; ok {
		return nil, err
	}
	return &domain.ScrapeResult{Type: domain.ScrapeTypeSite, URL: url, Name: "Page"}, nil
}

// mockHelper uploads every file to a fixed CDN.
type mockHelper struct {
	hooks driven.UploadHooks
}

func (h *mockHelper) Upload(_ context.Context, file *domain.File) {
	h.hooks.OnStart(file)
	h.hooks.OnSuccess(file, &domain.UploadResult{URL: "https://cdn.example.com/" + file.Name, Name: file.Name})
}

// failingDocuments fails List and Get.
type failingDocuments struct {
	*services.DocumentService
}

func (failingDocuments) List(context.Context) ([]domain.Document, error) {
	return nil, errors.New("store offline")
}

func (failingDocuments) Get(context.Context, string) (*domain.Document, error) {
	return nil, errors.New("store offline")
}

type fixture struct {
	server  *Server
	docs    *services.DocumentService
	scraper *mockScraper
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := memory.NewEmbedLogStore()
	docs := services.NewDocumentService(memory.NewDocumentStore(), log)
	scraper := &mockScraper{failures: map[string]error{}}
	editor := services.NewEditorService(services.EditorConfig{
		Documents: docs,
		NewEngine: func(nodes []domain.Node) driven.DocumentEngine { return arena.NewEngine(nodes...) },
		Scraper:   scraper,
		NewUploadHelper: func(hooks driven.UploadHooks) driven.UploadHelper {
			return &mockHelper{hooks: hooks}
		},
		Options: services.EmbedOptions{History: log},
	})

	server, err := NewServer(&Ports{
		Documents: docs,
		Editor:    editor,
		ReadFile: func(path string) (*domain.File, error) {
			if path == "missing.png" {
				return nil, domain.ErrNotFound
			}
			return &domain.File{Name: path, MIMEType: "image/png", Size: 3, Content: []byte("png")}, nil
		},
	})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return &fixture{server: server, docs: docs, scraper: scraper}
}

func (f *fixture) newDocument(t *testing.T) *domain.Document {
	t.Helper()
	doc, err := f.docs.Create(context.Background(), "Notes")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return doc
}
