package status

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psdshow/vanilla/internal/adapters/driving/tui/keymap"
	"github.com/psdshow/vanilla/internal/adapters/driving/tui/styles"
)

func TestNewBar(t *testing.T) {
	bar := NewBar(styles.DefaultStyles(), keymap.DefaultKeyMap())

	require.NotNil(t, bar)
	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, 0, bar.Pending())
}

func TestNewBar_NilStyles(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.NotNil(t, bar.styles)
	assert.NotNil(t, bar.keymap)
}

func TestStatusBar_Update_IsPassive(t *testing.T) {
	bar := NewBar(nil, nil)

	updated, cmd := bar.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, bar, updated)
	assert.Nil(t, cmd)
}

func TestStatusBar_SetPending(t *testing.T) {
	bar := NewBar(nil, nil)

	bar.SetPending(2)
	assert.Equal(t, StateLoading, bar.State())
	assert.Contains(t, bar.View(), "2 embed(s) loading")

	bar.SetPending(0)
	assert.Equal(t, StateReady, bar.State())
}

func TestStatusBar_SetPending_KeepsError(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateError)

	bar.SetPending(0)

	assert.Equal(t, StateError, bar.State())
}

func TestStatusBar_View_States(t *testing.T) {
	tests := []struct {
		state   State
		message string
		want    string
	}{
		{StateReady, "", "Ready"},
		{StateReady, "Opened", "Opened"},
		{StateSaved, "", "Saved"},
		{StateError, "boom", "Error: boom"},
		{StateError, "", "Error"},
		{StateHelp, "", "Help"},
	}

	for _, tt := range tests {
		t.Run(string(tt.state)+tt.message, func(t *testing.T) {
			bar := NewBar(nil, nil)
			bar.SetWidth(120)
			bar.SetState(tt.state)
			bar.SetMessage(tt.message)

			assert.Contains(t, bar.View(), tt.want)
		})
	}
}

func TestStatusBar_SetBindings(t *testing.T) {
	km := keymap.DefaultKeyMap()
	bar := NewBar(nil, km)
	bar.SetWidth(200)

	bar.SetBindings(km.EditorHelp())

	assert.Contains(t, bar.View(), "embed url")
}

func TestStatusBar_DefaultHints(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(120)

	assert.Contains(t, bar.View(), "quit")
}

func TestStatusBar_Clear(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateError)
	bar.SetMessage("x")
	bar.SetPending(3)

	bar.Clear()

	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, 0, bar.Pending())
}
