// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/psdshow/vanilla/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewDocuments lists stored documents.
	ViewDocuments ViewType = iota
	// ViewEditor edits a single document.
	ViewEditor
	// ViewSettings shows the current settings.
	ViewSettings
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewDocuments:
		return "documents"
	case ViewEditor:
		return "editor"
	case ViewSettings:
		return "settings"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// DocumentsLoaded carries the document list back to the model.
type DocumentsLoaded struct {
	Documents []domain.Document
	Err       error
}

// DocumentCreated is sent after a new document is stored.
type DocumentCreated struct {
	Document *domain.Document
	Err      error
}

// DocumentDeleted is sent after a document is removed.
type DocumentDeleted struct {
	ID  string
	Err error
}

// DocumentSelected asks the app to open a document in the editor.
type DocumentSelected struct {
	ID string
}

// DocumentOpened carries a loaded document with its body.
type DocumentOpened struct {
	Document *domain.Document
	Err      error
}

// DocumentSaved is sent after the editor writes the document back.
type DocumentSaved struct {
	Document *domain.Document
	Err      error
}

// SettingsLoaded carries application settings back to the model.
type SettingsLoaded struct {
	Settings *domain.AppSettings
	Err      error
}

// Dispatched carries a function posted to the UI goroutine.
// The app runs Fn inside Update so it never races with rendering.
type Dispatched struct {
	Fn func()
}

// EmbedFailed reports an embed request that could not be started.
type EmbedFailed struct {
	Err error
}

// ErrorOccurred is sent when an error happens.
type ErrorOccurred struct {
	Err error
}

// SettingSaved is sent after a single setting is changed.
type SettingSaved struct {
	Key string
	Err error
}
