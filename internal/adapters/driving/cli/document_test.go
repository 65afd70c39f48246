package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psdshow/vanilla/internal/core/domain"
)

func TestDocumentCmd_HasSubcommands(t *testing.T) {
	names := make([]string, 0)
	for _, cmd := range documentCmd.Commands() {
		names = append(names, cmd.Name())
	}
	assert.ElementsMatch(t, []string{"new", "list", "show", "append", "delete"}, names)
}

func TestDocumentNew(t *testing.T) {
	env := setupTestServices(t)

	out, err := runCommand(t, "doc", "new", "Weekly notes")

	require.NoError(t, err)
	assert.Contains(t, out, "Created Weekly notes")
	docs, err := env.docs.List(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Weekly notes", docs[0].Title)
}

func TestDocumentList_Empty(t *testing.T) {
	setupTestServices(t)

	out, err := runCommand(t, "doc", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "No documents.")
}

func TestDocumentShow(t *testing.T) {
	env := setupTestServices(t)
	doc, err := env.docs.Create(context.Background(), "Notes")
	require.NoError(t, err)
	doc.Nodes = []domain.Node{
		domain.TextNode("hello"),
		domain.EmbedNode(domain.ImageEmbed{URL: "https://cdn.example.com/a.png"}),
	}
	require.NoError(t, env.docs.Save(context.Background(), doc))

	out, err := runCommand(t, "doc", "show", doc.ID)

	require.NoError(t, err)
	assert.Contains(t, out, "Notes ("+doc.ID+")")
	assert.Contains(t, out, "  1  hello")
	assert.Contains(t, out, "  2  [image] <https://cdn.example.com/a.png>")
}

func TestDocumentShow_NotFound(t *testing.T) {
	setupTestServices(t)

	_, err := runCommand(t, "doc", "show", "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentAppend(t *testing.T) {
	env := setupTestServices(t)
	doc, err := env.docs.Create(context.Background(), "Notes")
	require.NoError(t, err)

	out, err := runCommand(t, "doc", "append", doc.ID, "first", "line")

	require.NoError(t, err)
	assert.Contains(t, out, "  1  first line")
	stored, err := env.docs.Get(context.Background(), doc.ID)
	require.NoError(t, err)
	require.Len(t, stored.Nodes, 1)
	assert.Equal(t, "first line", stored.Nodes[0].Text)
}

func TestDocumentDelete(t *testing.T) {
	env := setupTestServices(t)
	doc, err := env.docs.Create(context.Background(), "Notes")
	require.NoError(t, err)

	out, err := runCommand(t, "doc", "delete", doc.ID)

	require.NoError(t, err)
	assert.Contains(t, out, "Deleted "+doc.ID)
	_, err = env.docs.Get(context.Background(), doc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocument_NotConfigured(t *testing.T) {
	SetServices(Services{})

	_, err := runCommand(t, "doc", "list")

	assert.ErrorIs(t, err, errNotConfigured)
}
