package driven

import "github.com/psdshow/vanilla/internal/core/domain"

// DocumentEngine is the rich-text document the embed core edits.
//
// Node handles returned by Insert stay valid while the node is in the
// document; callers re-fetch by handle instead of caching node values.
// Removing a placeholder by Delete, Undo or Redo must invoke its OnDestroy
// hook. Replacing a placeholder must not.
type DocumentEngine interface {
	// Insert places node at index and returns its handle.
	// Indexes past the end append.
	Insert(index int, node domain.Node) (domain.NodeID, error)

	// NodeAt returns the node at index if it has the given kind.
	NodeAt(index int, kind domain.NodeKind) (*domain.Node, bool)

	// Node returns the node with the given handle.
	Node(id domain.NodeID) (*domain.Node, bool)

	// Replace swaps the node with the given handle for another node.
	// Returns domain.ErrNotFound if the handle is no longer in the document.
	Replace(id domain.NodeID, node domain.Node) error

	// Delete removes the node with the given handle.
	Delete(id domain.NodeID) error

	// Selection returns the current caret or selection.
	Selection() domain.Selection

	// SetSelection moves the caret to index.
	SetSelection(index int)

	// OnChange registers a listener notified with the selection after every change.
	OnChange(listener func(domain.Selection))

	// Nodes returns a snapshot of the document body in order.
	Nodes() []domain.Node
}

// HistoryEngine is a DocumentEngine with undo/redo.
type HistoryEngine interface {
	DocumentEngine

	// Undo reverts the most recent change. Returns false if there was none.
	Undo() bool

	// Redo re-applies the most recently undone change. Returns false if there was none.
	Redo() bool
}
