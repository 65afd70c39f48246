// Package documents provides the documents list view component for the TUI.
package documents

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/psdshow/vanilla/internal/adapters/driving/tui/components/input"
	"github.com/psdshow/vanilla/internal/adapters/driving/tui/keymap"
	"github.com/psdshow/vanilla/internal/adapters/driving/tui/messages"
	"github.com/psdshow/vanilla/internal/adapters/driving/tui/styles"
	"github.com/psdshow/vanilla/internal/core/domain"
	"github.com/psdshow/vanilla/internal/core/ports/driving"
)

// View is the documents list view.
type View struct {
	styles          *styles.Styles
	keymap          *keymap.KeyMap
	documentService driving.DocumentService
	prompt          *input.Prompt

	documents     []domain.Document
	selected      int
	width         int
	height        int
	err           error
	loading       bool
	confirmDelete bool
	scrollOffset  int
}

// NewView creates a new documents view.
func NewView(s *styles.Styles, km *keymap.KeyMap, documentService driving.DocumentService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles:          s,
		keymap:          km,
		documentService: documentService,
		prompt:          input.NewPrompt(s),
		documents:       []domain.Document{},
	}
}

// Init loads the document list.
func (v *View) Init() tea.Cmd {
	return v.Reload()
}

// Reload returns a command that reloads the document list.
func (v *View) Reload() tea.Cmd {
	v.loading = true
	return v.loadDocuments()
}

func (v *View) loadDocuments() tea.Cmd {
	svc := v.documentService
	return func() tea.Msg {
		if svc == nil {
			return messages.DocumentsLoaded{Err: fmt.Errorf("document service not available")}
		}
		docs, err := svc.List(context.Background())
		return messages.DocumentsLoaded{Documents: docs, Err: err}
	}
}

func (v *View) createDocument(title string) tea.Cmd {
	svc := v.documentService
	return func() tea.Msg {
		if svc == nil {
			return messages.DocumentCreated{Err: fmt.Errorf("document service not available")}
		}
		doc, err := svc.Create(context.Background(), title)
		return messages.DocumentCreated{Document: doc, Err: err}
	}
}

func (v *View) deleteDocument(id string) tea.Cmd {
	svc := v.documentService
	return func() tea.Msg {
		if svc == nil {
			return messages.DocumentDeleted{ID: id, Err: fmt.Errorf("document service not available")}
		}
		return messages.DocumentDeleted{ID: id, Err: svc.Delete(context.Background(), id)}
	}
}

// Update handles messages for the documents view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if v.prompt.Focused() {
			return v.handlePromptKey(msg)
		}
		return v.handleKeyMsg(msg)

	case messages.DocumentsLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.documents = msg.Documents
		v.err = nil
		if v.selected >= len(v.documents) {
			v.selected = max(0, len(v.documents)-1)
		}
		v.adjustScroll()
		return v, nil

	case messages.DocumentCreated:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		id := msg.Document.ID
		return v, tea.Batch(v.Reload(), func() tea.Msg {
			return messages.DocumentSelected{ID: id}
		})

	case messages.DocumentDeleted:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		return v, v.Reload()

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

func (v *View) handlePromptKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		title := strings.TrimSpace(v.prompt.Value())
		v.prompt.Close()
		return v, v.createDocument(title)
	case tea.KeyEsc:
		v.prompt.Close()
		return v, nil
	}
	var cmd tea.Cmd
	v.prompt, cmd = v.prompt.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()

	if v.confirmDelete {
		v.confirmDelete = false
		if k == "y" {
			if doc := v.SelectedDocument(); doc != nil {
				return v, v.deleteDocument(doc.ID)
			}
		}
		return v, nil
	}

	switch {
	case keymap.Matches(k, v.keymap.Up):
		if v.selected > 0 {
			v.selected--
			v.adjustScroll()
		}
	case keymap.Matches(k, v.keymap.Down):
		if v.selected < len(v.documents)-1 {
			v.selected++
			v.adjustScroll()
		}
	case keymap.Matches(k, v.keymap.Select):
		if doc := v.SelectedDocument(); doc != nil {
			id := doc.ID
			return v, func() tea.Msg { return messages.DocumentSelected{ID: id} }
		}
	case keymap.Matches(k, v.keymap.New):
		return v, v.prompt.Open("Title", "Untitled")
	case keymap.Matches(k, v.keymap.Delete):
		if v.SelectedDocument() != nil {
			v.confirmDelete = true
		}
	case k == "R":
		return v, v.Reload()
	}

	return v, nil
}

func (v *View) adjustScroll() {
	visibleItems := v.visibleItemCount()
	if v.selected < v.scrollOffset {
		v.scrollOffset = v.selected
	} else if v.selected >= v.scrollOffset+visibleItems {
		v.scrollOffset = v.selected - visibleItems + 1
	}
}

func (v *View) visibleItemCount() int {
	// title, separator, prompt, help and status bar
	available := v.height - 8
	if available < 1 {
		available = 1
	}
	return available
}

// View renders the documents view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render(fmt.Sprintf("Documents (%d)", len(v.documents))))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading documents..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
	case len(v.documents) == 0:
		b.WriteString(v.styles.Muted.Render("No documents yet. Press n to create one."))
	default:
		visibleItems := v.visibleItemCount()
		for i := v.scrollOffset; i < len(v.documents) && i < v.scrollOffset+visibleItems; i++ {
			b.WriteString(v.renderDocument(i, &v.documents[i]))
			b.WriteString("\n")
		}
		if len(v.documents) > visibleItems {
			b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%d-%d of %d]",
				v.scrollOffset+1,
				min(v.scrollOffset+visibleItems, len(v.documents)),
				len(v.documents))))
		}
	}
	b.WriteString("\n\n")

	switch {
	case v.prompt.Focused():
		b.WriteString(v.prompt.View())
	case v.confirmDelete:
		b.WriteString(v.styles.Warning.Render("Delete this document? [y/N]"))
	default:
		b.WriteString(v.styles.Help.Render("[↑/↓] navigate  [enter] open  [n] new  [x] delete  [R] reload  [,] settings"))
	}

	return b.String()
}

func (v *View) renderDocument(index int, doc *domain.Document) string {
	indicator := "  "
	if index == v.selected {
		indicator = "> "
	}

	title := doc.Title
	if title == "" {
		title = doc.ID
	}
	maxTitleLen := v.width/2 - 4
	if maxTitleLen < 10 {
		maxTitleLen = 10
	}
	if len(title) > maxTitleLen {
		title = title[:maxTitleLen-3] + "..."
	}

	updated := ""
	if !doc.UpdatedAt.IsZero() {
		updated = doc.UpdatedAt.Local().Format("2006-01-02 15:04")
	}

	if index == v.selected {
		return v.styles.Selected.Render(fmt.Sprintf("%s%-*s  %s", indicator, maxTitleLen, title, updated))
	}
	return v.styles.Normal.Render(fmt.Sprintf("%s%-*s  ", indicator, maxTitleLen, title)) +
		v.styles.Muted.Render(updated)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.prompt.SetWidth(width)
}

// Documents returns the current list of documents.
func (v *View) Documents() []domain.Document {
	return v.documents
}

// SelectedIndex returns the currently selected document index.
func (v *View) SelectedIndex() int {
	return v.selected
}

// SelectedDocument returns the currently selected document.
func (v *View) SelectedDocument() *domain.Document {
	if v.selected < len(v.documents) {
		return &v.documents[v.selected]
	}
	return nil
}

// Prompting reports whether the title prompt is open.
func (v *View) Prompting() bool {
	return v.prompt.Focused()
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
