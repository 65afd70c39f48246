// Package arena provides an in-memory document engine with undo history.
//
// Nodes live in a map keyed by handle with a separate ordering slice, so a
// handle stays valid while edits shift positions around it.
package arena

import (
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/psdshow/vanilla/internal/core/domain"
	"github.com/psdshow/vanilla/internal/core/ports/driven"
)

// Ensure Engine implements the interface.
var _ driven.HistoryEngine = (*Engine)(nil)

type opKind int

const (
	opInsert opKind = iota
	opDelete
	opReplace
)

// change is one undoable edit. For replace, node is the previous node and
// next the one that took its place.
type change struct {
	op    opKind
	index int
	node  domain.Node
	next  domain.Node
}

// Engine is an in-memory document.
type Engine struct {
	mu        sync.Mutex
	order     []domain.NodeID
	nodes     map[domain.NodeID]*domain.Node
	selection domain.Selection
	listeners []func(domain.Selection)
	undo      []change
	redo      []change
}

// NewEngine creates a document holding nodes, with the caret at the end.
// Nodes keep their IDs if they have one.
func NewEngine(nodes ...domain.Node) *Engine {
	e := &Engine{
		nodes: make(map[domain.NodeID]*domain.Node, len(nodes)),
	}
	for _, n := range nodes {
		if n.ID == "" || e.nodes[n.ID] != nil {
			n.ID = newID()
		}
		e.store(len(e.order), n)
	}
	e.selection = domain.Caret(len(e.order))
	return e
}

// Insert places node at index and returns its handle.
func (e *Engine) Insert(index int, node domain.Node) (domain.NodeID, error) {
	if node.Kind == domain.NodePlaceholder && node.Placeholder == nil {
		return "", fmt.Errorf("%w: placeholder node without placeholder", domain.ErrInvalidInput)
	}

	e.mu.Lock()
	index = clamp(index, len(e.order))
	node.ID = newID()
	e.store(index, node)
	e.shiftForInsert(index)
	e.record(change{op: opInsert, index: index, node: node})
	sel := e.selection
	e.mu.Unlock()

	e.notify(sel)
	return node.ID, nil
}

// NodeAt returns the node at index if it has the given kind.
func (e *Engine) NodeAt(index int, kind domain.NodeKind) (*domain.Node, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if index < 0 || index >= len(e.order) {
		return nil, false
	}
	n := *e.nodes[e.order[index]]
	if n.Kind != kind {
		return nil, false
	}
	return &n, true
}

// Node returns the node with the given handle.
func (e *Engine) Node(id domain.NodeID) (*domain.Node, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	stored, ok := e.nodes[id]
	if !ok {
		return nil, false
	}
	n := *stored
	return &n, true
}

// Replace swaps the node with handle id for node. No destroy hook fires.
// Replacing a placeholder is not an undo step of its own: the step that
// inserted the placeholder now inserts node instead.
func (e *Engine) Replace(id domain.NodeID, node domain.Node) error {
	e.mu.Lock()
	index := e.indexOf(id)
	if index < 0 {
		e.mu.Unlock()
		return fmt.Errorf("%w: node %s", domain.ErrNotFound, id)
	}
	prev := e.remove(index)
	node.ID = newID()
	e.store(index, node)
	if prev.Kind == domain.NodePlaceholder {
		e.retarget(prev.ID, node)
	} else {
		e.record(change{op: opReplace, index: index, node: prev, next: node})
	}
	sel := e.selection
	e.mu.Unlock()

	e.notify(sel)
	return nil
}

// Delete removes the node with handle id, firing its destroy hook.
// A deleted placeholder is gone for good and leaves no history.
func (e *Engine) Delete(id domain.NodeID) error {
	e.mu.Lock()
	index := e.indexOf(id)
	if index < 0 {
		e.mu.Unlock()
		return fmt.Errorf("%w: node %s", domain.ErrNotFound, id)
	}
	removed := e.remove(index)
	e.shiftForDelete(index)
	if removed.Kind == domain.NodePlaceholder {
		e.forget(removed.ID)
	} else {
		e.record(change{op: opDelete, index: index, node: removed})
	}
	sel := e.selection
	e.mu.Unlock()

	destroyed(removed)
	e.notify(sel)
	return nil
}

// Undo reverts the most recent change. Undoing a placeholder insertion
// destroys it and cannot be redone.
func (e *Engine) Undo() bool {
	e.mu.Lock()
	if len(e.undo) == 0 {
		e.mu.Unlock()
		return false
	}
	c := e.undo[len(e.undo)-1]
	e.undo = e.undo[:len(e.undo)-1]
	removed := e.revert(c)
	if c.op != opInsert || c.node.Kind != domain.NodePlaceholder {
		e.redo = append(e.redo, c)
	}
	sel := e.selection
	e.mu.Unlock()

	destroyed(removed...)
	e.notify(sel)
	return true
}

// Redo re-applies the most recently undone change.
func (e *Engine) Redo() bool {
	e.mu.Lock()
	if len(e.redo) == 0 {
		e.mu.Unlock()
		return false
	}
	c := e.redo[len(e.redo)-1]
	e.redo = e.redo[:len(e.redo)-1]
	removed := e.apply(c)
	e.undo = append(e.undo, c)
	sel := e.selection
	e.mu.Unlock()

	destroyed(removed...)
	e.notify(sel)
	return true
}

// Selection returns the current caret.
func (e *Engine) Selection() domain.Selection {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selection
}

// SetSelection moves the caret to index, clamped to the document.
func (e *Engine) SetSelection(index int) {
	e.mu.Lock()
	e.selection = domain.Caret(clamp(index, len(e.order)))
	sel := e.selection
	e.mu.Unlock()

	e.notify(sel)
}

// OnChange registers a listener called with the selection after every change.
func (e *Engine) OnChange(listener func(domain.Selection)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, listener)
}

// Nodes returns a snapshot of the document body.
func (e *Engine) Nodes() []domain.Node {
	e.mu.Lock()
	defer e.mu.Unlock()
	nodes := make([]domain.Node, 0, len(e.order))
	for _, id := range e.order {
		nodes = append(nodes, *e.nodes[id])
	}
	return nodes
}

// Len returns the number of nodes.
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.order)
}

// apply performs c and returns any node it removed.
func (e *Engine) apply(c change) []domain.Node {
	switch c.op {
	case opInsert:
		e.store(c.index, c.node)
		e.shiftForInsert(c.index)
	case opDelete:
		if i := e.indexOf(c.node.ID); i >= 0 {
			e.shiftForDelete(i)
			return []domain.Node{e.remove(i)}
		}
	case opReplace:
		if i := e.indexOf(c.node.ID); i >= 0 {
			prev := e.remove(i)
			e.store(i, c.next)
			return []domain.Node{prev}
		}
	}
	return nil
}

// revert undoes c and returns any node it removed.
func (e *Engine) revert(c change) []domain.Node {
	switch c.op {
	case opInsert:
		if i := e.indexOf(c.node.ID); i >= 0 {
			e.shiftForDelete(i)
			return []domain.Node{e.remove(i)}
		}
	case opDelete:
		index := clamp(c.index, len(e.order))
		e.store(index, c.node)
		e.shiftForInsert(index)
	case opReplace:
		if i := e.indexOf(c.next.ID); i >= 0 {
			next := e.remove(i)
			e.store(i, c.node)
			return []domain.Node{next}
		}
	}
	return nil
}

// retarget makes history that inserted the placeholder id refer to the node
// that resolved it, so undo removes the result and redo restores it.
func (e *Engine) retarget(id domain.NodeID, node domain.Node) {
	for _, stack := range [][]change{e.undo, e.redo} {
		for i := range stack {
			if stack[i].op == opInsert && stack[i].node.ID == id {
				stack[i].node = node
			}
		}
	}
}

// forget drops history that refers to the placeholder id.
func (e *Engine) forget(id domain.NodeID) {
	refers := func(c change) bool { return c.node.ID == id || c.next.ID == id }
	e.undo = slices.DeleteFunc(e.undo, refers)
	e.redo = slices.DeleteFunc(e.redo, refers)
}

func (e *Engine) record(c change) {
	e.undo = append(e.undo, c)
	e.redo = nil
}

func (e *Engine) store(index int, node domain.Node) {
	if node.Placeholder != nil {
		node.Placeholder.ID = node.ID
	}
	n := node
	e.nodes[n.ID] = &n
	e.order = append(e.order, "")
	copy(e.order[index+1:], e.order[index:])
	e.order[index] = n.ID
}

func (e *Engine) remove(index int) domain.Node {
	id := e.order[index]
	n := *e.nodes[id]
	delete(e.nodes, id)
	e.order = append(e.order[:index], e.order[index+1:]...)
	return n
}

func (e *Engine) indexOf(id domain.NodeID) int {
	if _, ok := e.nodes[id]; !ok {
		return -1
	}
	for i, candidate := range e.order {
		if candidate == id {
			return i
		}
	}
	return -1
}

func (e *Engine) shiftForInsert(index int) {
	if index <= e.selection.Index {
		e.selection.Index++
	}
}

func (e *Engine) shiftForDelete(index int) {
	if index < e.selection.Index {
		e.selection.Index--
	}
}

func (e *Engine) notify(sel domain.Selection) {
	e.mu.Lock()
	listeners := slices.Clone(e.listeners)
	e.mu.Unlock()
	for _, listener := range listeners {
		listener(sel)
	}
}

// destroyed fires the destroy hook of every removed placeholder.
func destroyed(removed ...domain.Node) {
	for _, n := range removed {
		if n.Kind != domain.NodePlaceholder || n.Placeholder == nil || n.Placeholder.OnDestroy == nil {
			continue
		}
		n.Placeholder.OnDestroy.PlaceholderDestroyed(n.Placeholder)
	}
}

func clamp(index, length int) int {
	if index < 0 {
		return 0
	}
	if index > length {
		return length
	}
	return index
}

func newID() domain.NodeID {
	return domain.NodeID(uuid.New().String())
}
