package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psdshow/vanilla/internal/core/domain"
)

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "Short key", input: "abc123", expected: "****"},
		{name: "Exactly 8 chars", input: "12345678", expected: "****"},
		{name: "Long key", input: "tok-1234567890abcdef", expected: "tok-...cdef"},
		{name: "Empty key", input: "", expected: "****"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, maskAPIKey(tt.input))
		})
	}
}

func TestSettingsCmd_HasSubcommands(t *testing.T) {
	names := make([]string, 0)
	for _, cmd := range settingsCmd.Commands() {
		names = append(names, cmd.Name())
	}
	assert.ElementsMatch(t, []string{"show", "set", "keys", "token"}, names)
}

func TestSettingsShow(t *testing.T) {
	env := setupTestServices(t)
	require.NoError(t, env.settings.Set("api.base_url", "https://forum.example.com"))
	require.NoError(t, env.settings.Set("api.token", "tok-1234567890abcdef"))

	out, err := runCommand(t, "settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "Base URL: https://forum.example.com")
	assert.Contains(t, out, "Token: tok-...cdef")
	assert.NotContains(t, out, "1234567890")
	assert.Contains(t, out, "Mode: "+domain.ScrapeModeLocal.Description())
	assert.Contains(t, out, "Allowed types: image/*")
	assert.Contains(t, out, "Configuration is valid.")
}

func TestSettingsSet(t *testing.T) {
	env := setupTestServices(t)

	out, err := runCommand(t, "settings", "set", "embeds.video_enabled", "true")

	require.NoError(t, err)
	assert.Contains(t, out, "Set embeds.video_enabled")
	settings, err := env.settings.Get()
	require.NoError(t, err)
	assert.True(t, settings.Embeds.VideoEnabled)
}

func TestSettingsSet_InvalidValue(t *testing.T) {
	setupTestServices(t)

	_, err := runCommand(t, "settings", "set", "scrape.mode", "telepathy")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsSet_RequiresTwoArgs(t *testing.T) {
	setupTestServices(t)

	_, err := runCommand(t, "settings", "set", "scrape.mode")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 2 arg(s)")
}

func TestSettingsKeys(t *testing.T) {
	setupTestServices(t)

	out, err := runCommand(t, "settings", "keys")

	require.NoError(t, err)
	assert.Contains(t, out, "upload.allowed_types")
	assert.Contains(t, out, "embeds.reject_duplicates")
}

func TestSettings_NotConfigured(t *testing.T) {
	SetServices(Services{})
	t.Cleanup(func() { SetServices(Services{}) })

	_, err := runCommand(t, "settings", "show")

	assert.ErrorIs(t, err, errNotConfigured)
}
