package domain

import "time"

// Document is a persisted editor document.
// Placeholders are never persisted: in-flight state does not survive a save.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Title is the human-readable title.
	Title string

	// Nodes is the document body in order.
	Nodes []Node

	// CreatedAt is when the document was first saved.
	CreatedAt time.Time

	// UpdatedAt is when the document was last saved.
	UpdatedAt time.Time
}

// Durable returns the nodes that can be persisted, dropping placeholders.
func (d *Document) Durable() []Node {
	nodes := make([]Node, 0, len(d.Nodes))
	for i := range d.Nodes {
		if d.Nodes[i].Kind == NodePlaceholder {
			continue
		}
		nodes = append(nodes, d.Nodes[i])
	}
	return nodes
}

// EmbedStatus is the terminal state of an embed operation.
type EmbedStatus string

// Terminal embed states.
const (
	// EmbedResolved means a placeholder was replaced by its result.
	EmbedResolved EmbedStatus = "resolved"

	// EmbedFailed means an error embed was placed (replacement or standalone).
	EmbedFailed EmbedStatus = "failed"

	// EmbedDiscarded means a result arrived after its placeholder was removed.
	EmbedDiscarded EmbedStatus = "discarded"

	// EmbedCancelled means the placeholder was removed before the result arrived.
	EmbedCancelled EmbedStatus = "cancelled"
)

// EmbedLogEntry records one terminal transition of an embed operation.
type EmbedLogEntry struct {
	// ID is the unique identifier for the entry.
	ID string

	// DocumentID is the document the embed belonged to.
	DocumentID string

	// Key is the string form of the lookup key.
	Key string

	// Kind is the node kind that was placed, if any.
	Kind NodeKind

	// Status is the terminal state.
	Status EmbedStatus

	// Message is the error message for failed embeds.
	Message string

	// CreatedAt is when the transition happened.
	CreatedAt time.Time
}
