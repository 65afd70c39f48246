// Package styles provides the colour palette and lipgloss styles for the TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/psdshow/vanilla/internal/core/domain"
)

// Theme is the colour palette the styles are built from.
type Theme struct {
	Primary    lipgloss.Color // accents, titles, caret
	Secondary  lipgloss.Color // resolved embeds
	Background lipgloss.Color
	Foreground lipgloss.Color
	Muted      lipgloss.Color // hints, status bar
	Success    lipgloss.Color
	Warning    lipgloss.Color // loading embeds, notices
	Error      lipgloss.Color
	Border     lipgloss.Color
}

// DefaultTheme returns the vanilla palette.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#E2725B"),
		Secondary:  lipgloss.Color("#4FA3A5"),
		Background: lipgloss.Color("#1B1D23"),
		Foreground: lipgloss.Color("#E6E1D6"),
		Muted:      lipgloss.Color("#7A7F8C"),
		Success:    lipgloss.Color("#8FBF7F"),
		Warning:    lipgloss.Color("#E8C170"),
		Error:      lipgloss.Color("#E06C75"),
		Border:     lipgloss.Color("#3A3F4B"),
	}
}

// Styles holds the rendered styles for one theme.
type Styles struct {
	theme *Theme

	// Text.
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Help     lipgloss.Style

	// Feedback.
	Error   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style

	// Chrome.
	InputField lipgloss.Style
	StatusBar  lipgloss.Style
	Border     lipgloss.Style

	// Document body. Placeholder marks an embed that is still loading.
	Placeholder lipgloss.Style
	Embed       lipgloss.Style
	Caret       lipgloss.Style
}

// NewStyles builds styles from theme, falling back to DefaultTheme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}
	fg := func(c lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c)
	}
	rounded := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)

	return &Styles{
		theme: theme,

		Title:    fg(theme.Primary).Bold(true),
		Subtitle: fg(theme.Secondary).Bold(true),
		Normal:   fg(theme.Foreground),
		Muted:    fg(theme.Muted),
		Selected: fg(theme.Foreground).Background(theme.Primary).Bold(true),
		Help:     fg(theme.Muted),

		Error:   fg(theme.Error),
		Success: fg(theme.Success),
		Warning: fg(theme.Warning),

		InputField: rounded.Padding(0, 1),
		StatusBar:  fg(theme.Muted).Background(theme.Background).Padding(0, 1),
		Border:     rounded,

		Placeholder: fg(theme.Warning).Italic(true),
		Embed:       fg(theme.Secondary),
		Caret:       fg(theme.Primary).Bold(true),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}

// ForKind returns the style a document node of kind is rendered with.
func (s *Styles) ForKind(kind domain.NodeKind) lipgloss.Style {
	switch kind {
	case domain.NodeText:
		return s.Normal
	case domain.NodePlaceholder:
		return s.Placeholder
	case domain.NodeError:
		return s.Error
	case domain.NodeSite, domain.NodeImage, domain.NodeVideo:
		return s.Embed
	default:
		return s.Muted
	}
}
