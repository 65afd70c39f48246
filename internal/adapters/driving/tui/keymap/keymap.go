// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Help shows the help view.
	Help key.Binding

	// Back returns to the previous view.
	Back key.Binding

	// Up moves the cursor up.
	Up key.Binding

	// Down moves the cursor down.
	Down key.Binding

	// Select opens the highlighted item.
	Select key.Binding

	// New creates a document.
	New key.Binding

	// Delete removes the highlighted document or node.
	Delete key.Binding

	// Text prompts for a line of text to insert.
	Text key.Binding

	// Embed prompts for a URL to embed.
	Embed key.Binding

	// Upload prompts for a file path to upload.
	Upload key.Binding

	// Undo reverts the last edit.
	Undo key.Binding

	// Redo re-applies the last undone edit.
	Redo key.Binding

	// Save writes the document to the store.
	Save key.Binding

	// Settings opens the settings view.
	Settings key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x", "delete"),
			key.WithHelp("x", "delete"),
		),
		Text: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "text"),
		),
		Embed: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "embed url"),
		),
		Upload: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "upload"),
		),
		Undo: key.NewBinding(
			key.WithKeys("u", "ctrl+z"),
			key.WithHelp("u", "undo"),
		),
		Redo: key.NewBinding(
			key.WithKeys("r", "ctrl+y"),
			key.WithHelp("r", "redo"),
		),
		Save: key.NewBinding(
			key.WithKeys("s", "ctrl+s"),
			key.WithHelp("s", "save"),
		),
		Settings: key.NewBinding(
			key.WithKeys(","),
			key.WithHelp(",", "settings"),
		),
	}
}

// ShortHelp returns a short list of keybindings for the status bar.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Help}
}

// DocumentsHelp returns keybindings for the document list.
func (k *KeyMap) DocumentsHelp() []key.Binding {
	return []key.Binding{k.Select, k.New, k.Delete, k.Settings, k.Quit}
}

// EditorHelp returns keybindings for the editor.
func (k *KeyMap) EditorHelp() []key.Binding {
	return []key.Binding{k.Embed, k.Upload, k.Text, k.Delete, k.Undo, k.Save, k.Back}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.New},
		{k.Text, k.Embed, k.Upload, k.Delete},
		{k.Undo, k.Redo, k.Save, k.Back},
		{k.Settings, k.Help, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
