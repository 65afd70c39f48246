package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psdshow/vanilla/internal/adapters/driven/storage/memory"
	"github.com/psdshow/vanilla/internal/adapters/driving/tui/messages"
	"github.com/psdshow/vanilla/internal/core/domain"
	"github.com/psdshow/vanilla/internal/core/services"
)

type appFixture struct {
	app  *App
	docs *services.DocumentService
	sent chan tea.Msg
}

func newAppFixture(t *testing.T) *appFixture {
	t.Helper()
	docs := services.NewDocumentService(memory.NewDocumentStore(), memory.NewEmbedLogStore())
	app, err := NewApp(newTestPorts(docs))
	require.NoError(t, err)
	app.SetDimensions(100, 30)

	f := &appFixture{app: app, docs: docs, sent: make(chan tea.Msg, 16)}
	app.Dispatcher().attach(func(msg tea.Msg) { f.sent <- msg })
	t.Cleanup(app.editorView.Close)
	return f
}

// deliver runs cmd and feeds its message back into the app.
func (f *appFixture) deliver(t *testing.T, cmd tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	f.app.Update(cmd())
}

// nextDispatched feeds the next posted continuation into the app.
func (f *appFixture) nextDispatched(t *testing.T) {
	t.Helper()
	select {
	case msg := <-f.sent:
		f.app.Update(msg)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a dispatched continuation")
	}
}

func (f *appFixture) openDocument(t *testing.T, title string) *domain.Document {
	t.Helper()
	doc, err := f.docs.Create(context.Background(), title)
	require.NoError(t, err)
	_, cmd := f.app.Update(messages.DocumentSelected{ID: doc.ID})
	f.deliver(t, cmd)
	require.Equal(t, messages.ViewEditor, f.app.CurrentView())
	return doc
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewApp_Success(t *testing.T) {
	f := newAppFixture(t)

	assert.Equal(t, messages.ViewDocuments, f.app.CurrentView())
	assert.NotNil(t, f.app.Dispatcher())
}

func TestNewApp_InvalidPorts(t *testing.T) {
	app, err := NewApp(&Ports{})

	assert.ErrorIs(t, err, ErrMissingDocumentService)
	assert.Nil(t, app)
}

func TestApp_WithContext(t *testing.T) {
	f := newAppFixture(t)

	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("key"), "value")

	assert.Equal(t, f.app, f.app.WithContext(ctx))
}

func TestApp_Init(t *testing.T) {
	f := newAppFixture(t)

	assert.NotNil(t, f.app.Init())
}

func TestApp_View_NotReady(t *testing.T) {
	docs := services.NewDocumentService(memory.NewDocumentStore(), nil)
	app, err := NewApp(newTestPorts(docs))
	require.NoError(t, err)

	assert.Equal(t, "Initialising...", app.View())
	assert.False(t, app.Ready())
}

func TestApp_Update_WindowSize(t *testing.T) {
	f := newAppFixture(t)

	f.app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.True(t, f.app.Ready())
	assert.Equal(t, 120, f.app.width)
	assert.Contains(t, f.app.View(), "Documents")
}

func TestApp_OpenDocument(t *testing.T) {
	f := newAppFixture(t)

	f.openDocument(t, "Draft")

	require.NotNil(t, f.app.Editor().Document())
	assert.Contains(t, f.app.View(), "Draft")
}

func TestApp_OpenDocument_NotFound(t *testing.T) {
	f := newAppFixture(t)

	_, cmd := f.app.Update(messages.DocumentSelected{ID: "missing"})
	f.deliver(t, cmd)

	assert.Equal(t, messages.ViewDocuments, f.app.CurrentView())
	assert.ErrorIs(t, f.app.Err(), domain.ErrNotFound)
}

func TestApp_EmbedLifecycle(t *testing.T) {
	f := newAppFixture(t)
	doc := f.openDocument(t, "Links")

	f.app.Update(keyMsg("e"))
	f.app.Editor().Update(keyMsg("https://example.com"))
	f.app.Update(keyMsg("enter"))

	require.Equal(t, 1, f.app.Editor().PendingCount())
	assert.Contains(t, f.app.View(), "1 embed(s) loading")

	f.nextDispatched(t)

	assert.Equal(t, 0, f.app.Editor().PendingCount())
	nodes := f.app.Editor().Nodes()
	require.Len(t, nodes, 1)
	assert.Equal(t, domain.NodeSite, nodes[0].Kind)

	_, cmd := f.app.Update(keyMsg("s"))
	f.deliver(t, cmd)

	stored, err := f.docs.Get(context.Background(), doc.ID)
	require.NoError(t, err)
	require.Len(t, stored.Nodes, 1)
	assert.Equal(t, domain.NodeSite, stored.Nodes[0].Kind)
	assert.Contains(t, f.app.View(), "Saved")
}

func TestApp_Dispatched_NilFn(t *testing.T) {
	f := newAppFixture(t)

	_, cmd := f.app.Update(messages.Dispatched{})

	assert.Nil(t, cmd)
}

func TestApp_HelpToggle(t *testing.T) {
	f := newAppFixture(t)

	f.app.Update(keyMsg("?"))
	assert.Equal(t, messages.ViewHelp, f.app.CurrentView())
	assert.Contains(t, f.app.View(), "embed url")

	f.app.Update(keyMsg("esc"))
	assert.Equal(t, messages.ViewDocuments, f.app.CurrentView())
}

func TestApp_Quit(t *testing.T) {
	f := newAppFixture(t)

	_, cmd := f.app.Update(keyMsg("q"))

	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestApp_CtrlCQuitsFromPrompt(t *testing.T) {
	f := newAppFixture(t)
	f.app.Update(keyMsg("n"))

	_, cmd := f.app.Update(keyMsg("ctrl+c"))

	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestApp_PromptSwallowsGlobalKeys(t *testing.T) {
	f := newAppFixture(t)
	f.app.Update(keyMsg("n"))

	_, cmd := f.app.Update(keyMsg("q"))

	if cmd != nil {
		assert.NotEqual(t, tea.QuitMsg{}, cmd())
	}
	assert.Equal(t, messages.ViewDocuments, f.app.CurrentView())
}

func TestApp_SettingsView(t *testing.T) {
	f := newAppFixture(t)

	_, cmd := f.app.Update(keyMsg(","))
	f.deliver(t, cmd)

	assert.Equal(t, messages.ViewSettings, f.app.CurrentView())
	assert.Contains(t, f.app.View(), "Settings")
}

func TestApp_ErrorOccurred(t *testing.T) {
	f := newAppFixture(t)

	f.app.Update(messages.ErrorOccurred{Err: errors.New("boom")})

	assert.EqualError(t, f.app.Err(), "boom")
	assert.Contains(t, f.app.View(), "Error: boom")
}

func TestApp_BackToDocuments(t *testing.T) {
	f := newAppFixture(t)
	f.openDocument(t, "Draft")

	_, cmd := f.app.Update(keyMsg("esc"))
	f.deliver(t, cmd)

	assert.Equal(t, messages.ViewDocuments, f.app.CurrentView())
	assert.Nil(t, f.app.Editor().Document())
}
