// Package editor provides the document editor view for the TUI.
//
// The editor owns a document engine and an embed service for the open
// document. Both live on the Bubbletea goroutine: the embed service posts
// its continuations through a dispatcher that feeds them back into Update.
package editor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/psdshow/vanilla/internal/adapters/driving/tui/components/input"
	"github.com/psdshow/vanilla/internal/adapters/driving/tui/keymap"
	"github.com/psdshow/vanilla/internal/adapters/driving/tui/messages"
	"github.com/psdshow/vanilla/internal/adapters/driving/tui/styles"
	"github.com/psdshow/vanilla/internal/core/domain"
	"github.com/psdshow/vanilla/internal/core/ports/driven"
	"github.com/psdshow/vanilla/internal/core/ports/driving"
	"github.com/psdshow/vanilla/internal/logger"
)

// Config wires the editor to the core.
type Config struct {
	// Documents saves the edited document.
	Documents driving.DocumentService

	// Embeds builds the embed service for an opened document.
	Embeds driving.EmbedFactory

	// NewEngine builds a document engine seeded with stored nodes.
	NewEngine func(nodes []domain.Node) driven.HistoryEngine

	// Dispatcher runs embed continuations on the UI goroutine.
	Dispatcher driven.Dispatcher

	// ReadFile loads a file chosen for upload.
	ReadFile func(path string) (*domain.File, error)
}

type promptMode int

const (
	promptNone promptMode = iota
	promptText
	promptURL
	promptPath
)

// View is the document editor view.
type View struct {
	cfg    Config
	styles *styles.Styles
	keymap *keymap.KeyMap
	prompt *input.Prompt
	mode   promptMode

	doc    *domain.Document
	engine driven.HistoryEngine
	embeds driving.EmbedService
	ctx    context.Context
	cancel context.CancelFunc

	dirty          bool
	confirmDiscard bool
	saving         bool
	notice         string
	err            error

	width  int
	height int
}

// NewView creates an editor view with nothing open.
func NewView(s *styles.Styles, km *keymap.KeyMap, cfg Config) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		cfg:    cfg,
		styles: s,
		keymap: km,
		prompt: input.NewPrompt(s),
	}
}

// Open loads doc into a fresh engine and embed service.
// Must be called from Update.
func (v *View) Open(doc *domain.Document) error {
	if v.cfg.NewEngine == nil || v.cfg.Embeds == nil || v.cfg.Dispatcher == nil {
		return fmt.Errorf("editor: %w", domain.ErrNotImplemented)
	}
	if doc == nil {
		return fmt.Errorf("editor: %w: no document", domain.ErrInvalidInput)
	}
	v.Close()

	d := *doc
	d.Nodes = d.Durable()
	v.doc = &d
	v.engine = v.cfg.NewEngine(d.Nodes)
	v.embeds = v.cfg.Embeds(v.engine, v.cfg.Dispatcher, d.ID)
	v.ctx, v.cancel = context.WithCancel(context.Background())
	v.dirty = false
	v.confirmDiscard = false
	v.notice = ""
	v.err = nil

	logger.Debug("editor: opened %s with %d nodes", d.ID, len(d.Nodes))
	return nil
}

// Close cancels in-flight embeds and releases the open document.
// Continuations that still arrive act on the detached engine.
func (v *View) Close() {
	if v.cancel != nil {
		v.cancel()
	}
	v.prompt.Close()
	v.mode = promptNone
	v.doc = nil
	v.engine = nil
	v.embeds = nil
	v.ctx = nil
	v.cancel = nil
}

// Init implements the view contract.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the editor view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.DocumentSaved:
		v.saving = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		if v.doc != nil && msg.Document != nil && msg.Document.ID == v.doc.ID {
			v.doc.UpdatedAt = msg.Document.UpdatedAt
		}
		v.dirty = false
		v.err = nil
		v.notice = "Saved"
		if n := v.PendingCount(); n > 0 {
			v.notice = fmt.Sprintf("Saved without %d loading embed(s)", n)
		}
		return v, nil

	case tea.KeyMsg:
		if v.engine == nil {
			return v, nil
		}
		if v.mode != promptNone {
			return v.handlePromptKey(msg)
		}
		return v.handleKeyMsg(msg)
	}
	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()
	back := keymap.Matches(k, v.keymap.Back)
	if !back {
		v.confirmDiscard = false
	}

	switch {
	case keymap.Matches(k, v.keymap.Up):
		v.engine.SetSelection(v.engine.Selection().Index - 1)
	case keymap.Matches(k, v.keymap.Down):
		v.engine.SetSelection(v.engine.Selection().Index + 1)
	case keymap.Matches(k, v.keymap.Text):
		return v, v.openPrompt(promptText, "Text", "")
	case keymap.Matches(k, v.keymap.Embed):
		return v, v.openPrompt(promptURL, "URL", "https://")
	case keymap.Matches(k, v.keymap.Upload):
		return v, v.openPrompt(promptPath, "File", "drop or type a path")
	case keymap.Matches(k, v.keymap.Delete):
		v.deleteAtCaret()
	case keymap.Matches(k, v.keymap.Undo):
		if v.engine.Undo() {
			v.touch()
		}
	case keymap.Matches(k, v.keymap.Redo):
		if v.engine.Redo() {
			v.touch()
		}
	case keymap.Matches(k, v.keymap.Save):
		return v, v.save()
	case back:
		if v.dirty && !v.confirmDiscard {
			v.confirmDiscard = true
			v.notice = "Unsaved changes. Press esc again to discard or s to save."
			return v, nil
		}
		v.Close()
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewDocuments} }
	}
	return v, nil
}

func (v *View) openPrompt(mode promptMode, label, placeholder string) tea.Cmd {
	v.mode = mode
	v.notice = ""
	v.err = nil
	return v.prompt.Open(label, placeholder)
}

func (v *View) handlePromptKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		mode, value := v.mode, strings.TrimSpace(v.prompt.Value())
		v.mode = promptNone
		v.prompt.Close()
		if value == "" {
			return v, nil
		}
		v.submit(mode, value)
		return v, nil
	case tea.KeyEsc:
		v.mode = promptNone
		v.prompt.Close()
		return v, nil
	}
	var cmd tea.Cmd
	v.prompt, cmd = v.prompt.Update(msg)
	return v, cmd
}

func (v *View) submit(mode promptMode, value string) {
	var err error
	switch mode {
	case promptText:
		_, err = v.engine.Insert(v.engine.Selection().Index, domain.TextNode(value))
	case promptURL:
		err = v.embeds.ScrapeMedia(v.ctx, value)
	case promptPath:
		err = v.upload(unquotePath(value))
	}
	if err != nil {
		v.err = err
		return
	}
	v.touch()
}

func (v *View) upload(path string) error {
	if v.cfg.ReadFile == nil {
		return fmt.Errorf("upload: %w", domain.ErrNotImplemented)
	}
	file, err := v.cfg.ReadFile(path)
	if err != nil {
		return err
	}
	return v.embeds.UploadFile(v.ctx, file)
}

// deleteAtCaret removes the node just before the caret.
func (v *View) deleteAtCaret() {
	index := v.engine.Selection().Index - 1
	if index < 0 {
		return
	}
	nodes := v.engine.Nodes()
	if index >= len(nodes) {
		return
	}
	if err := v.engine.Delete(nodes[index].ID); err != nil {
		v.err = err
		return
	}
	v.touch()
}

func (v *View) touch() {
	v.dirty = true
	v.confirmDiscard = false
	v.notice = ""
}

func (v *View) save() tea.Cmd {
	if v.cfg.Documents == nil || v.doc == nil {
		v.err = errors.New("document service not available")
		return nil
	}
	d := *v.doc
	d.Nodes = v.engine.Nodes()
	svc := v.cfg.Documents
	v.saving = true
	v.confirmDiscard = false
	return func() tea.Msg {
		err := svc.Save(context.Background(), &d)
		return messages.DocumentSaved{Document: &d, Err: err}
	}
}

// View renders the editor.
func (v *View) View() string {
	var b strings.Builder

	if v.doc == nil {
		b.WriteString(v.styles.Muted.Render("No document open."))
		return b.String()
	}

	title := v.doc.Title
	if title == "" {
		title = v.doc.ID
	}
	if v.dirty {
		title += " *"
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n\n")

	nodes := v.engine.Nodes()
	caret := v.engine.Selection().Index
	if len(nodes) == 0 {
		b.WriteString(v.styles.Muted.Render("Empty document. Press i for text, e to embed a URL or o to upload a file."))
		b.WriteString("\n")
	}
	if caret == 0 && len(nodes) > 0 {
		b.WriteString(v.styles.Caret.Render("▸"))
		b.WriteString("\n")
	}
	for i := range nodes {
		marker := "  "
		if i == caret-1 {
			marker = v.styles.Caret.Render("▸ ")
		}
		b.WriteString(marker)
		b.WriteString(v.renderNode(&nodes[i]))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n")
	case v.saving:
		b.WriteString(v.styles.Muted.Render("Saving..."))
		b.WriteString("\n")
	case v.notice != "":
		b.WriteString(v.styles.Warning.Render(v.notice))
		b.WriteString("\n")
	}

	if v.mode != promptNone {
		b.WriteString(v.prompt.View())
	} else {
		b.WriteString(v.styles.Help.Render(
			"[↑/↓] caret  [i] text  [e] embed url  [o] upload  [x] delete  [u/r] undo/redo  [s] save  [esc] back"))
	}
	return b.String()
}

func (v *View) renderNode(n *domain.Node) string {
	style := v.styles.ForKind(n.Kind)
	if n.Kind == domain.NodePlaceholder {
		return style.Render("⟳ " + n.String())
	}
	return style.Render(n.String())
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.prompt.SetWidth(width)
}

// Document returns the open document, or nil.
func (v *View) Document() *domain.Document {
	return v.doc
}

// Nodes returns a snapshot of the open document body.
func (v *View) Nodes() []domain.Node {
	if v.engine == nil {
		return nil
	}
	return v.engine.Nodes()
}

// PendingCount returns the number of embeds still loading.
func (v *View) PendingCount() int {
	if v.embeds == nil {
		return 0
	}
	return len(v.embeds.Pending())
}

// Prompting reports whether a prompt is accepting input.
func (v *View) Prompting() bool {
	return v.mode != promptNone
}

// Dirty reports whether the document has unsaved edits.
func (v *View) Dirty() bool {
	return v.dirty
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// unquotePath strips the quotes terminals add when a file is dropped in.
func unquotePath(p string) string {
	if len(p) >= 2 && (p[0] == '\'' || p[0] == '"') && p[len(p)-1] == p[0] {
		return p[1 : len(p)-1]
	}
	return strings.ReplaceAll(p, `\ `, " ")
}
