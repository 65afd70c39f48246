package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psdshow/vanilla/internal/adapters/driven/storage/memory"
	"github.com/psdshow/vanilla/internal/core/domain"
)

func TestDocumentService_Create(t *testing.T) {
	svc := NewDocumentService(memory.NewDocumentStore(), nil)
	ctx := context.Background()

	doc, err := svc.Create(ctx, "  Weekly digest ")
	require.NoError(t, err)
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, "Weekly digest", doc.Title)
	assert.False(t, doc.CreatedAt.IsZero())

	untitled, err := svc.Create(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "Untitled", untitled.Title)
	assert.NotEqual(t, doc.ID, untitled.ID)
}

func TestDocumentService_SaveDropsPlaceholders(t *testing.T) {
	svc := NewDocumentService(memory.NewDocumentStore(), nil)
	ctx := context.Background()

	doc, err := svc.Create(ctx, "Draft")
	require.NoError(t, err)
	created := doc.UpdatedAt

	doc.Nodes = []domain.Node{
		domain.TextNode("hello"),
		domain.PlaceholderNode(domain.URLKey("https://example.com"), nil),
		domain.EmbedNode(domain.ImageEmbed{URL: "https://example.com/a.png"}),
	}
	time.Sleep(time.Millisecond)
	require.NoError(t, svc.Save(ctx, doc))
	assert.True(t, doc.UpdatedAt.After(created))

	saved, err := svc.Get(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, saved.Nodes, 2)
	assert.Equal(t, domain.NodeImage, saved.Nodes[1].Kind)
}

func TestDocumentService_Save_RequiresID(t *testing.T) {
	svc := NewDocumentService(memory.NewDocumentStore(), nil)
	err := svc.Save(context.Background(), &domain.Document{Title: "No ID"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDocumentService_ListAndDelete(t *testing.T) {
	svc := NewDocumentService(memory.NewDocumentStore(), nil)
	ctx := context.Background()

	a, err := svc.Create(ctx, "A")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "B")
	require.NoError(t, err)

	docs, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	require.NoError(t, svc.Delete(ctx, a.ID))
	_, err = svc.Get(ctx, a.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentService_NoStore(t *testing.T) {
	svc := NewDocumentService(nil, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, "x")
	assert.ErrorIs(t, err, domain.ErrNotImplemented)
	_, err = svc.List(ctx)
	assert.ErrorIs(t, err, domain.ErrNotImplemented)

	entries, err := svc.History(ctx, "doc-1", 10)
	assert.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDocumentService_Render(t *testing.T) {
	svc := NewDocumentService(nil, nil)
	doc := &domain.Document{Nodes: []domain.Node{
		domain.TextNode("Check this out:"),
		domain.PlaceholderNode(domain.URLKey("https://example.com"), nil),
		domain.EmbedNode(domain.SiteEmbed{URL: "https://example.com", Name: "Example"}),
		domain.EmbedNode(domain.ErrorEmbed{Message: domain.MsgUnsupportedEmbed}),
	}}

	assert.Equal(t, []string{
		"Check this out:",
		"[loading] url:https://example.com",
		"[site] Example <https://example.com>",
		"[error] That type of embed is not currently supported.",
	}, svc.Render(doc))
	assert.Nil(t, svc.Render(nil))
}

func TestDocumentService_History(t *testing.T) {
	log := memory.NewEmbedLogStore()
	svc := NewDocumentService(memory.NewDocumentStore(), log)
	ctx := context.Background()

	for i := 0; i < 60; i++ {
		require.NoError(t, log.Append(ctx, domain.EmbedLogEntry{DocumentID: "doc-1", Status: domain.EmbedResolved}))
	}

	entries, err := svc.History(ctx, "doc-1", 0)
	require.NoError(t, err)
	assert.Len(t, entries, 50)

	entries, err = svc.History(ctx, "doc-1", 5)
	require.NoError(t, err)
	assert.Len(t, entries, 5)
}
