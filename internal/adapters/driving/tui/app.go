package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/psdshow/vanilla/internal/adapters/driving/tui/components/status"
	"github.com/psdshow/vanilla/internal/adapters/driving/tui/keymap"
	"github.com/psdshow/vanilla/internal/adapters/driving/tui/messages"
	"github.com/psdshow/vanilla/internal/adapters/driving/tui/styles"
	"github.com/psdshow/vanilla/internal/adapters/driving/tui/views/documents"
	"github.com/psdshow/vanilla/internal/adapters/driving/tui/views/editor"
	"github.com/psdshow/vanilla/internal/adapters/driving/tui/views/settings"
	"github.com/psdshow/vanilla/internal/logger"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles     *styles.Styles
	keymap     *keymap.KeyMap
	dispatcher *Dispatcher

	documentsView *documents.View
	editorView    *editor.View
	settingsView  *settings.View
	statusBar     *status.Bar

	// currentView tracks which view is active; previousView is restored
	// when help closes.
	currentView  messages.ViewType
	previousView messages.ViewType

	// err holds the last error that occurred.
	err error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	dispatcher := NewDispatcher()

	bar := status.NewBar(s, km)
	bar.SetBindings(km.DocumentsHelp())

	return &App{
		ports:         ports,
		ctx:           context.Background(),
		styles:        s,
		keymap:        km,
		dispatcher:    dispatcher,
		documentsView: documents.NewView(s, km, ports.Documents),
		editorView: editor.NewView(s, km, editor.Config{
			Documents:  ports.Documents,
			Embeds:     ports.Embeds,
			NewEngine:  ports.NewEngine,
			Dispatcher: dispatcher,
			ReadFile:   ports.ReadFile,
		}),
		settingsView: settings.NewView(s, km, ports.Settings),
		statusBar:    bar,
		currentView:  messages.ViewDocuments,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Dispatcher returns the dispatcher embed continuations are posted through.
func (a *App) Dispatcher() *Dispatcher {
	return a.dispatcher
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("vanilla"),
		a.documentsView.Init(),
	)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case messages.Dispatched:
		if msg.Fn != nil {
			msg.Fn()
		}
		a.refreshStatus()
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.ViewChanged:
		return a, a.switchView(msg.View)

	case messages.DocumentSelected:
		return a, a.openDocument(msg.ID)

	case messages.DocumentOpened:
		if msg.Err != nil {
			a.setError(msg.Err)
			return a, nil
		}
		if err := a.editorView.Open(msg.Document); err != nil {
			a.setError(err)
			return a, nil
		}
		a.err = nil
		a.statusBar.Clear()
		return a, a.switchView(messages.ViewEditor)

	case messages.DocumentSaved:
		a.editorView, cmd = a.editorView.Update(msg)
		if msg.Err != nil {
			a.setError(msg.Err)
		} else {
			a.statusBar.SetState(status.StateSaved)
		}
		return a, tea.Batch(cmd, a.documentsView.Reload())

	case messages.DocumentsLoaded, messages.DocumentCreated, messages.DocumentDeleted:
		a.documentsView, cmd = a.documentsView.Update(msg)
		return a, cmd

	case messages.SettingsLoaded, messages.SettingSaved:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.setError(msg.Err)
		return a, nil
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := msg.String()
	if k == "ctrl+c" {
		return a, a.quit()
	}

	var cmd tea.Cmd
	if !a.prompting() {
		switch {
		case a.currentView == messages.ViewHelp:
			if keymap.Matches(k, a.keymap.Quit) {
				return a, a.quit()
			}
			if keymap.Matches(k, a.keymap.Back) || keymap.Matches(k, a.keymap.Help) {
				return a, a.switchView(a.previousView)
			}
			return a, nil
		case keymap.Matches(k, a.keymap.Help):
			a.previousView = a.currentView
			return a, a.switchView(messages.ViewHelp)
		case keymap.Matches(k, a.keymap.Quit):
			return a, a.quit()
		case a.currentView == messages.ViewDocuments && keymap.Matches(k, a.keymap.Settings):
			return a, a.switchView(messages.ViewSettings)
		}
	}

	switch a.currentView {
	case messages.ViewDocuments:
		a.documentsView, cmd = a.documentsView.Update(msg)
	case messages.ViewEditor:
		a.editorView, cmd = a.editorView.Update(msg)
		a.refreshStatus()
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	}
	return a, cmd
}

func (a *App) prompting() bool {
	switch a.currentView {
	case messages.ViewDocuments:
		return a.documentsView.Prompting()
	case messages.ViewEditor:
		return a.editorView.Prompting()
	case messages.ViewSettings:
		return a.settingsView.Editing() != ""
	}
	return false
}

func (a *App) switchView(view messages.ViewType) tea.Cmd {
	a.currentView = view
	switch view {
	case messages.ViewDocuments:
		a.statusBar.Clear()
		a.statusBar.SetBindings(a.keymap.DocumentsHelp())
		return a.documentsView.Reload()
	case messages.ViewEditor:
		a.statusBar.SetBindings(a.keymap.EditorHelp())
		a.refreshStatus()
	case messages.ViewSettings:
		a.statusBar.SetBindings(nil)
		return a.settingsView.Init()
	case messages.ViewHelp:
		a.statusBar.SetBindings(nil)
	}
	return nil
}

func (a *App) openDocument(id string) tea.Cmd {
	docs := a.ports.Documents
	ctx := a.ctx
	return func() tea.Msg {
		doc, err := docs.Get(ctx, id)
		return messages.DocumentOpened{Document: doc, Err: err}
	}
}

func (a *App) quit() tea.Cmd {
	a.editorView.Close()
	return tea.Quit
}

func (a *App) refreshStatus() {
	if a.currentView != messages.ViewEditor {
		return
	}
	a.statusBar.SetPending(a.editorView.PendingCount())
}

func (a *App) setError(err error) {
	a.err = err
	logger.Debug("tui: %v", err)
	a.statusBar.SetState(status.StateError)
	a.statusBar.SetMessage(err.Error())
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewEditor:
		body = a.editorView.View()
	case messages.ViewSettings:
		body = a.settingsView.View()
	case messages.ViewHelp:
		body = a.viewHelp()
	default:
		body = a.documentsView.View()
	}

	lines := strings.Count(body, "\n") + 1
	if gap := a.height - lines - 1; gap > 0 {
		body += strings.Repeat("\n", gap)
	}
	return body + "\n" + a.statusBar.View()
}

func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	for _, group := range a.keymap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(fmt.Sprintf("  %-8s %s\n", h.Key, h.Desc))
		}
		b.WriteString("\n")
	}
	b.WriteString(a.styles.Muted.Render("Embeds load in the background. Saving keeps finished embeds and drops loading ones."))
	b.WriteString("\n\n")
	b.WriteString(a.styles.Help.Render("[esc] back"))
	return b.String()
}

// Run starts the TUI application and blocks until it exits.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	a.dispatcher.Attach(p)
	defer a.dispatcher.Stop()
	defer a.editorView.Close()

	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Editor returns the editor view.
func (a *App) Editor() *editor.View {
	return a.editorView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.documentsView.SetDimensions(width, height)
	a.editorView.SetDimensions(width, height)
	a.settingsView.SetDimensions(width, height)
	a.statusBar.SetWidth(width)
}
