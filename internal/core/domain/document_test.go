package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocument_Durable(t *testing.T) {
	doc := &Document{Nodes: []Node{
		TextNode("a"),
		PlaceholderNode(URLKey("https://example.com"), nil),
		EmbedNode(ErrorEmbed{Message: "x"}),
	}}

	durable := doc.Durable()
	assert.Len(t, durable, 2)
	assert.Equal(t, NodeText, durable[0].Kind)
	assert.Equal(t, NodeError, durable[1].Kind)
	assert.Len(t, doc.Nodes, 3)
}

func TestDocument_Durable_Empty(t *testing.T) {
	doc := &Document{}
	assert.Empty(t, doc.Durable())
}
