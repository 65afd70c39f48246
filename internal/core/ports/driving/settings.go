package driving

import "github.com/psdshow/vanilla/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings, filling in defaults.
	Get() (*domain.AppSettings, error)

	// Save validates and persists application settings.
	Save(settings *domain.AppSettings) error

	// Set updates a single setting by its config key.
	Set(key, value string) error

	// Keys returns the config keys understood by Set.
	Keys() []string

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
