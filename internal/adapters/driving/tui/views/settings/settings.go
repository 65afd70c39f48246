// Package settings provides the settings view for the TUI.
package settings

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/psdshow/vanilla/internal/adapters/driving/tui/components/input"
	"github.com/psdshow/vanilla/internal/adapters/driving/tui/keymap"
	"github.com/psdshow/vanilla/internal/adapters/driving/tui/messages"
	"github.com/psdshow/vanilla/internal/adapters/driving/tui/styles"
	"github.com/psdshow/vanilla/internal/core/domain"
	"github.com/psdshow/vanilla/internal/core/ports/driving"
)

// View lists every setting key with its current value and edits one at a time.
type View struct {
	styles          *styles.Styles
	keymap          *keymap.KeyMap
	settingsService driving.SettingsService
	prompt          *input.Prompt

	settings *domain.AppSettings
	keys     []string
	selected int
	editing  string
	notice   string
	err      error

	width  int
	height int
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, km *keymap.KeyMap, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	var keys []string
	if settingsService != nil {
		keys = settingsService.Keys()
	}
	return &View{
		styles:          s,
		keymap:          km,
		settingsService: settingsService,
		prompt:          input.NewPrompt(s),
		keys:            keys,
	}
}

// Init loads current settings.
func (v *View) Init() tea.Cmd {
	return v.loadSettings()
}

func (v *View) loadSettings() tea.Cmd {
	svc := v.settingsService
	return func() tea.Msg {
		if svc == nil {
			return messages.SettingsLoaded{Err: fmt.Errorf("settings service not available")}
		}
		settings, err := svc.Get()
		return messages.SettingsLoaded{Settings: settings, Err: err}
	}
}

func (v *View) saveSetting(key, value string) tea.Cmd {
	svc := v.settingsService
	return func() tea.Msg {
		if svc == nil {
			return messages.SettingSaved{Key: key, Err: fmt.Errorf("settings service not available")}
		}
		return messages.SettingSaved{Key: key, Err: svc.Set(key, value)}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SettingsLoaded:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.settings = msg.Settings
		v.err = nil
		return v, nil

	case messages.SettingSaved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.notice = fmt.Sprintf("Saved %s. Restart to apply.", msg.Key)
		return v, v.loadSettings()

	case tea.KeyMsg:
		if v.prompt.Focused() {
			return v.handlePromptKey(msg)
		}
		return v.handleKeyMsg(msg)
	}
	return v, nil
}

func (v *View) handlePromptKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		key, value := v.editing, v.prompt.Value()
		v.editing = ""
		v.prompt.Close()
		return v, v.saveSetting(key, value)
	case tea.KeyEsc:
		v.editing = ""
		v.prompt.Close()
		return v, nil
	}
	var cmd tea.Cmd
	v.prompt, cmd = v.prompt.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()
	switch {
	case keymap.Matches(k, v.keymap.Up):
		if v.selected > 0 {
			v.selected--
		}
	case keymap.Matches(k, v.keymap.Down):
		if v.selected < len(v.keys)-1 {
			v.selected++
		}
	case keymap.Matches(k, v.keymap.Select):
		if v.selected >= len(v.keys) {
			return v, nil
		}
		v.notice = ""
		v.editing = v.keys[v.selected]
		cmd := v.prompt.Open(v.editing, "")
		if !isSecret(v.editing) {
			v.prompt.SetValue(valueFor(v.settings, v.editing))
		}
		return v, cmd
	case keymap.Matches(k, v.keymap.Back):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewDocuments} }
	}
	return v, nil
}

// View renders the settings view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	if v.settings == nil && v.err == nil {
		b.WriteString(v.styles.Muted.Render("Loading settings..."))
		return b.String()
	}

	width := 0
	for _, key := range v.keys {
		width = max(width, len(key))
	}
	for i, key := range v.keys {
		value := valueFor(v.settings, key)
		if isSecret(key) {
			value = mask(value)
		}
		if value == "" {
			value = "(not set)"
		}
		line := fmt.Sprintf("%-*s  %s", width, key, value)
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render("> " + line))
		} else {
			b.WriteString(v.styles.Normal.Render("  " + line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n")
	case v.notice != "":
		b.WriteString(v.styles.Success.Render(v.notice))
		b.WriteString("\n")
	}

	if v.prompt.Focused() {
		b.WriteString(v.prompt.View())
	} else {
		b.WriteString(v.styles.Help.Render("[↑/↓] navigate  [enter] edit  [esc] back"))
	}
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.prompt.SetWidth(width)
}

// Settings returns the loaded settings.
func (v *View) Settings() *domain.AppSettings {
	return v.settings
}

// Editing returns the key being edited, or "".
func (v *View) Editing() string {
	return v.editing
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

func isSecret(key string) bool {
	return strings.HasSuffix(key, ".token") || strings.HasSuffix(key, ".connection_string")
}

func mask(value string) string {
	if value == "" {
		return ""
	}
	if len(value) <= 8 {
		return "****"
	}
	return value[:4] + "****" + value[len(value)-4:]
}

func valueFor(s *domain.AppSettings, key string) string {
	if s == nil {
		return ""
	}
	switch key {
	case "api.base_url":
		return s.API.BaseURL
	case "api.token":
		return s.API.Token
	case "api.requests_per_minute":
		return strconv.Itoa(s.API.RequestsPerMinute)
	case "scrape.mode":
		return s.Scrape.Mode.String()
	case "upload.backend":
		return s.Upload.Backend.String()
	case "upload.max_bytes":
		return strconv.FormatInt(s.Upload.MaxBytes, 10)
	case "upload.allowed_types":
		return strings.Join(s.Upload.AllowedTypes, ",")
	case "upload.azblob.connection_string":
		return s.Upload.AzureConnectionString
	case "upload.azblob.container":
		return s.Upload.AzureContainer
	case "embeds.reject_duplicates":
		return strconv.FormatBool(s.Embeds.RejectDuplicates)
	case "embeds.video_enabled":
		return strconv.FormatBool(s.Embeds.VideoEnabled)
	}
	return ""
}
