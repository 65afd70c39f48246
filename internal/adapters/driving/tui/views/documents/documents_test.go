package documents

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psdshow/vanilla/internal/adapters/driving/tui/messages"
	"github.com/psdshow/vanilla/internal/core/domain"
)

// MockDocumentService implements driving.DocumentService for testing.
type MockDocumentService struct {
	ListFunc   func(ctx context.Context) ([]domain.Document, error)
	CreateFunc func(ctx context.Context, title string) (*domain.Document, error)
	DeleteFunc func(ctx context.Context, id string) error
}

func (m *MockDocumentService) Create(ctx context.Context, title string) (*domain.Document, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, title)
	}
	return &domain.Document{ID: "new", Title: title}, nil
}

func (m *MockDocumentService) Get(_ context.Context, id string) (*domain.Document, error) {
	return &domain.Document{ID: id}, nil
}

func (m *MockDocumentService) Save(context.Context, *domain.Document) error { return nil }

func (m *MockDocumentService) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockDocumentService) List(ctx context.Context) ([]domain.Document, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []domain.Document{}, nil
}

func (m *MockDocumentService) Render(*domain.Document) []string { return nil }

func (m *MockDocumentService) History(context.Context, string, int) ([]domain.EmbedLogEntry, error) {
	return nil, nil
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loadedView(t *testing.T, docs ...domain.Document) *View {
	t.Helper()
	view := NewView(nil, nil, &MockDocumentService{})
	view.SetDimensions(80, 24)
	view.Update(messages.DocumentsLoaded{Documents: docs})
	return view
}

func TestNewView(t *testing.T) {
	view := NewView(nil, nil, nil)

	require.NotNil(t, view)
	assert.NotNil(t, view.styles)
	assert.NotNil(t, view.keymap)
	assert.Empty(t, view.Documents())
}

func TestView_Init_LoadsDocuments(t *testing.T) {
	mock := &MockDocumentService{
		ListFunc: func(context.Context) ([]domain.Document, error) {
			return []domain.Document{{ID: "doc-1", Title: "One"}}, nil
		},
	}
	view := NewView(nil, nil, mock)

	cmd := view.Init()
	require.NotNil(t, cmd)

	loaded, ok := cmd().(messages.DocumentsLoaded)
	require.True(t, ok)
	require.NoError(t, loaded.Err)
	assert.Len(t, loaded.Documents, 1)
	assert.Contains(t, view.View(), "Loading documents")
}

func TestView_Init_NoService(t *testing.T) {
	view := NewView(nil, nil, nil)

	loaded, ok := view.Init()().(messages.DocumentsLoaded)

	require.True(t, ok)
	assert.Error(t, loaded.Err)
}

func TestView_Update_DocumentsLoaded(t *testing.T) {
	view := loadedView(t,
		domain.Document{ID: "doc-1", Title: "One", UpdatedAt: time.Now()},
		domain.Document{ID: "doc-2", Title: "Two"},
	)

	assert.Len(t, view.Documents(), 2)
	out := view.View()
	assert.Contains(t, out, "Documents (2)")
	assert.Contains(t, out, "One")
	assert.Contains(t, out, "Two")
}

func TestView_Update_DocumentsLoaded_Error(t *testing.T) {
	view := NewView(nil, nil, nil)

	view.Update(messages.DocumentsLoaded{Err: errors.New("disk gone")})

	assert.Error(t, view.Err())
	assert.Contains(t, view.View(), "disk gone")
}

func TestView_Update_DocumentsLoaded_ClampsSelection(t *testing.T) {
	view := loadedView(t, domain.Document{ID: "a"}, domain.Document{ID: "b"})
	view.Update(keyMsg("down"))
	require.Equal(t, 1, view.SelectedIndex())

	view.Update(messages.DocumentsLoaded{Documents: []domain.Document{{ID: "a"}}})

	assert.Equal(t, 0, view.SelectedIndex())
}

func TestView_EmptyState(t *testing.T) {
	view := loadedView(t)

	assert.Contains(t, view.View(), "No documents yet")
	assert.Nil(t, view.SelectedDocument())
}

func TestView_Navigation(t *testing.T) {
	view := loadedView(t, domain.Document{ID: "a"}, domain.Document{ID: "b"}, domain.Document{ID: "c"})

	view.Update(keyMsg("j"))
	view.Update(keyMsg("down"))
	assert.Equal(t, 2, view.SelectedIndex())

	view.Update(keyMsg("down"))
	assert.Equal(t, 2, view.SelectedIndex())

	view.Update(keyMsg("k"))
	assert.Equal(t, 1, view.SelectedIndex())
	assert.Equal(t, "b", view.SelectedDocument().ID)
}

func TestView_Select_EmitsDocumentSelected(t *testing.T) {
	view := loadedView(t, domain.Document{ID: "a"}, domain.Document{ID: "b"})
	view.Update(keyMsg("down"))

	_, cmd := view.Update(keyMsg("enter"))
	require.NotNil(t, cmd)

	assert.Equal(t, messages.DocumentSelected{ID: "b"}, cmd())
}

func TestView_New_PromptsForTitle(t *testing.T) {
	var gotTitle string
	mock := &MockDocumentService{
		CreateFunc: func(_ context.Context, title string) (*domain.Document, error) {
			gotTitle = title
			return &domain.Document{ID: "doc-9", Title: title}, nil
		},
	}
	view := NewView(nil, nil, mock)
	view.SetDimensions(80, 24)

	view.Update(keyMsg("n"))
	require.True(t, view.Prompting())
	view.Update(keyMsg("Notes"))

	_, cmd := view.Update(keyMsg("enter"))
	require.NotNil(t, cmd)
	assert.False(t, view.Prompting())

	created, ok := cmd().(messages.DocumentCreated)
	require.True(t, ok)
	assert.Equal(t, "Notes", gotTitle)
	assert.Equal(t, "doc-9", created.Document.ID)
}

func TestView_New_EscCancels(t *testing.T) {
	view := NewView(nil, nil, &MockDocumentService{})

	view.Update(keyMsg("n"))
	_, cmd := view.Update(keyMsg("esc"))

	assert.Nil(t, cmd)
	assert.False(t, view.Prompting())
}

func TestView_DocumentCreated_OpensDocument(t *testing.T) {
	view := NewView(nil, nil, &MockDocumentService{})

	_, cmd := view.Update(messages.DocumentCreated{Document: &domain.Document{ID: "doc-9"}})

	require.NotNil(t, cmd)
	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	var selected bool
	for _, c := range batch {
		if msg, ok := c().(messages.DocumentSelected); ok {
			assert.Equal(t, "doc-9", msg.ID)
			selected = true
		}
	}
	assert.True(t, selected)
}

func TestView_DocumentCreated_Error(t *testing.T) {
	view := NewView(nil, nil, nil)

	_, cmd := view.Update(messages.DocumentCreated{Err: errors.New("nope")})

	assert.Nil(t, cmd)
	assert.Error(t, view.Err())
}

func TestView_Delete_RequiresConfirmation(t *testing.T) {
	var deleted string
	mock := &MockDocumentService{
		DeleteFunc: func(_ context.Context, id string) error {
			deleted = id
			return nil
		},
	}
	view := NewView(nil, nil, mock)
	view.Update(messages.DocumentsLoaded{Documents: []domain.Document{{ID: "a"}}})

	view.Update(keyMsg("x"))
	assert.Contains(t, view.View(), "Delete this document?")

	_, cmd := view.Update(keyMsg("y"))
	require.NotNil(t, cmd)

	msg, ok := cmd().(messages.DocumentDeleted)
	require.True(t, ok)
	assert.NoError(t, msg.Err)
	assert.Equal(t, "a", deleted)
}

func TestView_Delete_AnyOtherKeyCancels(t *testing.T) {
	view := NewView(nil, nil, &MockDocumentService{})
	view.Update(messages.DocumentsLoaded{Documents: []domain.Document{{ID: "a"}}})

	view.Update(keyMsg("x"))
	_, cmd := view.Update(keyMsg("n"))

	assert.Nil(t, cmd)
	assert.NotContains(t, view.View(), "Delete this document?")
}

func TestView_DocumentDeleted_Reloads(t *testing.T) {
	view := NewView(nil, nil, &MockDocumentService{})

	_, cmd := view.Update(messages.DocumentDeleted{ID: "a"})

	require.NotNil(t, cmd)
	_, ok := cmd().(messages.DocumentsLoaded)
	assert.True(t, ok)
}

func TestView_Scroll(t *testing.T) {
	docs := make([]domain.Document, 30)
	for i := range docs {
		docs[i] = domain.Document{ID: string(rune('a' + i))}
	}
	view := NewView(nil, nil, nil)
	view.SetDimensions(80, 12)
	view.Update(messages.DocumentsLoaded{Documents: docs})

	for i := 0; i < 10; i++ {
		view.Update(keyMsg("down"))
	}

	assert.Equal(t, 10, view.SelectedIndex())
	assert.Greater(t, view.scrollOffset, 0)
	assert.Contains(t, view.View(), "of 30]")
}
