package services

import "github.com/psdshow/vanilla/internal/core/domain"

// SelectionTracker remembers the last caret reported by the document.
//
// While a placeholder insertion is in progress the tracker is guarded: the
// change notifications the insertion itself produces are ignored, and the
// inserter sets the resulting caret explicitly.
type SelectionTracker struct {
	last    domain.Selection
	guarded bool
}

// NewSelectionTracker creates a tracker starting at sel.
func NewSelectionTracker(sel domain.Selection) *SelectionTracker {
	return &SelectionTracker{last: sel}
}

// Observe records a selection reported by a document change.
func (t *SelectionTracker) Observe(sel domain.Selection) {
	if t.guarded {
		return
	}
	t.last = sel
}

// Current returns the last known selection.
func (t *SelectionTracker) Current() domain.Selection {
	return t.last
}

// Set overrides the last known selection.
func (t *SelectionTracker) Set(sel domain.Selection) {
	t.last = sel
}

// Guarded reports whether an insertion is in progress.
func (t *SelectionTracker) Guarded() bool {
	return t.guarded
}

// Guard runs fn with observations suppressed.
func (t *SelectionTracker) Guard(fn func() error) error {
	t.guarded = true
	defer func() { t.guarded = false }()
	return fn()
}
