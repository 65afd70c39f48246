package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psdshow/vanilla/internal/core/domain"
)

func TestServer_handleCreateDocument(t *testing.T) {
	f := newFixture(t)

	_, out, err := f.server.handleCreateDocument(context.Background(), nil, CreateDocumentInput{Title: "Trip"})

	require.NoError(t, err)
	assert.NotEmpty(t, out.DocumentID)
	assert.Equal(t, "Trip", out.Title)
}

func TestServer_handleAppendText(t *testing.T) {
	f := newFixture(t)
	doc := f.newDocument(t)

	_, out, err := f.server.handleAppendText(context.Background(), nil, AppendTextInput{
		DocumentID: doc.ID,
		Lines:      []string{"one", "two"},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, out.Lines)
}

func TestServer_handleEmbedURLs(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves and saves embeds", func(t *testing.T) {
		f := newFixture(t)
		doc := f.newDocument(t)

		_, out, err := f.server.handleEmbedURLs(ctx, nil, EmbedURLsInput{
			DocumentID: doc.ID,
			URLs:       []string{"https://example.com/a"},
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"[site] Page <https://example.com/a>"}, out.Lines)
		assert.Zero(t, out.Dropped)

		stored, err := f.docs.Get(ctx, doc.ID)
		require.NoError(t, err)
		require.Len(t, stored.Nodes, 1)
		assert.Equal(t, domain.NodeSite, stored.Nodes[0].Kind)
	})

	t.Run("invalid urls are rejected individually", func(t *testing.T) {
		f := newFixture(t)
		doc := f.newDocument(t)

		_, out, err := f.server.handleEmbedURLs(ctx, nil, EmbedURLsInput{
			DocumentID: doc.ID,
			URLs:       []string{"not a url", "https://example.com/b"},
		})

		require.NoError(t, err)
		require.Len(t, out.Rejected, 1)
		assert.Equal(t, "not a url", out.Rejected[0].Input)
		assert.Len(t, out.Lines, 1)
	})

	t.Run("scrape failure becomes an error embed", func(t *testing.T) {
		f := newFixture(t)
		f.scraper.failures["https://example.com/gone"] = &domain.RemoteError{
			StatusCode: 404,
			Message:    "Failed to load URL: https://example.com/gone",
		}
		doc := f.newDocument(t)

		_, out, err := f.server.handleEmbedURLs(ctx, nil, EmbedURLsInput{
			DocumentID: doc.ID,
			URLs:       []string{"https://example.com/gone"},
		})

		require.NoError(t, err)
		require.Len(t, out.Lines, 1)
		assert.Contains(t, out.Lines[0], "[error]")
	})

	t.Run("timeout drops loading embeds", func(t *testing.T) {
		f := newFixture(t)
		f.scraper.block = make(chan struct{})
		defer close(f.scraper.block)
		doc := f.newDocument(t)

		_, out, err := f.server.handleEmbedURLs(ctx, nil, EmbedURLsInput{
			DocumentID:     doc.ID,
			URLs:           []string{"https://example.com/slow"},
			TimeoutSeconds: 1,
		})

		require.NoError(t, err)
		assert.Equal(t, 1, out.Dropped)
		assert.Empty(t, out.Lines)
	})

	t.Run("requires urls", func(t *testing.T) {
		f := newFixture(t)

		_, _, err := f.server.handleEmbedURLs(ctx, nil, EmbedURLsInput{DocumentID: "doc"})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("requires document id", func(t *testing.T) {
		f := newFixture(t)

		_, _, err := f.server.handleEmbedURLs(ctx, nil, EmbedURLsInput{URLs: []string{"https://example.com"}})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("unknown document", func(t *testing.T) {
		f := newFixture(t)

		_, _, err := f.server.handleEmbedURLs(ctx, nil, EmbedURLsInput{
			DocumentID: "missing",
			URLs:       []string{"https://example.com"},
		})

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestServer_handleUploadFiles(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	doc := f.newDocument(t)

	_, out, err := f.server.handleUploadFiles(ctx, nil, UploadFilesInput{
		DocumentID: doc.ID,
		Paths:      []string{"photo.png", "missing.png"},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"[image] photo.png <https://cdn.example.com/photo.png>"}, out.Lines)
	require.Len(t, out.Rejected, 1)
	assert.Equal(t, "missing.png", out.Rejected[0].Input)
}

func TestServer_handleUploadFiles_RequiresPaths(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.server.handleUploadFiles(context.Background(), nil, UploadFilesInput{DocumentID: "doc"})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
