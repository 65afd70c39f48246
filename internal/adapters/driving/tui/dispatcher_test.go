package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psdshow/vanilla/internal/adapters/driving/tui/messages"
	"github.com/psdshow/vanilla/internal/core/domain"
)

func TestDispatcher_PostWithoutProgram(t *testing.T) {
	d := NewDispatcher()

	err := d.Post(func() {})

	assert.ErrorIs(t, err, domain.ErrLoopStopped)
}

func TestDispatcher_PostSendsDispatched(t *testing.T) {
	d := NewDispatcher()
	var sent []tea.Msg
	d.attach(func(msg tea.Msg) { sent = append(sent, msg) })

	ran := false
	require.NoError(t, d.Post(func() { ran = true }))

	require.Len(t, sent, 1)
	msg, ok := sent[0].(messages.Dispatched)
	require.True(t, ok)
	msg.Fn()
	assert.True(t, ran)
}

func TestDispatcher_Stop(t *testing.T) {
	d := NewDispatcher()
	calls := 0
	d.attach(func(tea.Msg) { calls++ })

	d.Stop()

	assert.ErrorIs(t, d.Post(func() {}), domain.ErrLoopStopped)
	assert.Equal(t, 0, calls)
}
