// Package input provides text input components for the TUI.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/psdshow/vanilla/internal/adapters/driving/tui/styles"
)

// Prompt wraps a bubbles textinput with a label.
// The editor reuses one Prompt for URLs, file paths and text.
type Prompt struct {
	textinput textinput.Model
	styles    *styles.Styles
	label     string
	width     int
}

// NewPrompt creates a blurred prompt.
func NewPrompt(s *styles.Styles) *Prompt {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.CharLimit = 2048
	ti.Width = 50

	return &Prompt{
		textinput: ti,
		styles:    s,
		width:     50,
	}
}

// Init initialises the prompt.
func (p *Prompt) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (p *Prompt) Update(msg tea.Msg) (*Prompt, tea.Cmd) {
	var cmd tea.Cmd
	p.textinput, cmd = p.textinput.Update(msg)
	return p, cmd
}

// View renders the prompt.
func (p *Prompt) View() string {
	label := p.styles.Title.Render(p.label + ": ")
	field := p.styles.InputField.Render(p.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, label, field)
}

// Open clears the prompt, sets its label and placeholder, and focuses it.
func (p *Prompt) Open(label, placeholder string) tea.Cmd {
	p.label = label
	p.textinput.Reset()
	p.textinput.Placeholder = placeholder
	return p.textinput.Focus()
}

// Close blurs and clears the prompt.
func (p *Prompt) Close() {
	p.textinput.Blur()
	p.textinput.Reset()
	p.label = ""
}

// Label returns the current label.
func (p *Prompt) Label() string {
	return p.label
}

// Value returns the current input value.
func (p *Prompt) Value() string {
	return p.textinput.Value()
}

// SetValue sets the input value.
func (p *Prompt) SetValue(value string) {
	p.textinput.SetValue(value)
}

// Focused returns whether the prompt is accepting input.
func (p *Prompt) Focused() bool {
	return p.textinput.Focused()
}

// SetWidth sets the width of the prompt.
func (p *Prompt) SetWidth(width int) {
	p.width = width
	inputWidth := width - len(p.label) - 8
	if inputWidth < 20 {
		inputWidth = 20
	}
	p.textinput.Width = inputWidth
}

// Width returns the current width.
func (p *Prompt) Width() int {
	return p.width
}
