package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/psdshow/vanilla/internal/core/domain"
	"github.com/psdshow/vanilla/internal/core/ports/driven"
	"github.com/psdshow/vanilla/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyAPIBaseURL       = "api.base_url"
	keyAPIToken         = "api.token"
	keyAPIRate          = "api.requests_per_minute"
	keyScrapeMode       = "scrape.mode"
	keyUploadBackend    = "upload.backend"
	keyUploadMaxBytes   = "upload.max_bytes"
	keyUploadTypes      = "upload.allowed_types"
	keyAzureConnString  = "upload.azblob.connection_string"
	keyAzureContainer   = "upload.azblob.container"
	keyRejectDuplicates = "embeds.reject_duplicates"
	keyVideoEnabled     = "embeds.video_enabled"
)

var settingKeys = []string{
	keyAPIBaseURL,
	keyAPIToken,
	keyAPIRate,
	keyScrapeMode,
	keyUploadBackend,
	keyUploadMaxBytes,
	keyUploadTypes,
	keyAzureConnString,
	keyAzureContainer,
	keyRejectDuplicates,
	keyVideoEnabled,
}

type configValue struct {
	key   string
	value any
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		API: domain.APISettings{
			BaseURL:           strings.TrimRight(s.configStore.GetString(keyAPIBaseURL), "/"),
			Token:             s.configStore.GetString(keyAPIToken),
			RequestsPerMinute: s.getInt(keyAPIRate, defaults.API.RequestsPerMinute),
		},
		Scrape: domain.ScrapeSettings{
			Mode: s.getScrapeMode(defaults.Scrape.Mode),
		},
		Upload: domain.UploadSettings{
			Backend:               s.getUploadBackend(defaults.Upload.Backend),
			MaxBytes:              int64(s.getInt(keyUploadMaxBytes, int(defaults.Upload.MaxBytes))),
			AllowedTypes:          s.getStrings(keyUploadTypes, defaults.Upload.AllowedTypes),
			AzureConnectionString: s.configStore.GetString(keyAzureConnString),
			AzureContainer:        s.getString(keyAzureContainer, defaults.Upload.AzureContainer),
		},
		Embeds: domain.EmbedSettings{
			RejectDuplicates: s.getBool(keyRejectDuplicates, defaults.Embeds.RejectDuplicates),
			VideoEnabled:     s.getBool(keyVideoEnabled, defaults.Embeds.VideoEnabled),
		},
	}

	return settings, nil
}

// Save validates and persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	values := []configValue{
		{keyAPIBaseURL, settings.API.BaseURL},
		{keyAPIRate, settings.API.RequestsPerMinute},
		{keyScrapeMode, settings.Scrape.Mode.String()},
		{keyUploadBackend, settings.Upload.Backend.String()},
		{keyUploadMaxBytes, settings.Upload.MaxBytes},
		{keyUploadTypes, settings.Upload.AllowedTypes},
		{keyAzureContainer, settings.Upload.AzureContainer},
		{keyRejectDuplicates, settings.Embeds.RejectDuplicates},
		{keyVideoEnabled, settings.Embeds.VideoEnabled},
	}
	// Secrets are only written when present so a blank form does not erase them.
	if settings.API.Token != "" {
		values = append(values, configValue{keyAPIToken, settings.API.Token})
	}
	if settings.Upload.AzureConnectionString != "" {
		values = append(values, configValue{keyAzureConnString, settings.Upload.AzureConnectionString})
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// Set parses value for key, validates the result and persists it.
func (s *SettingsService) Set(key, value string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	value = strings.TrimSpace(value)
	switch key {
	case keyAPIBaseURL:
		settings.API.BaseURL = strings.TrimRight(value, "/")
	case keyAPIToken:
		settings.API.Token = value
	case keyAPIRate:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, key)
		}
		settings.API.RequestsPerMinute = n
	case keyScrapeMode:
		settings.Scrape.Mode = domain.ScrapeMode(value)
	case keyUploadBackend:
		settings.Upload.Backend = domain.UploadBackend(value)
	case keyUploadMaxBytes:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, key)
		}
		settings.Upload.MaxBytes = n
	case keyUploadTypes:
		settings.Upload.AllowedTypes = splitList(value)
	case keyAzureConnString:
		settings.Upload.AzureConnectionString = value
	case keyAzureContainer:
		settings.Upload.AzureContainer = value
	case keyRejectDuplicates, keyVideoEnabled:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
		if key == keyRejectDuplicates {
			settings.Embeds.RejectDuplicates = b
		} else {
			settings.Embeds.VideoEnabled = b
		}
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	if err := s.Save(settings); err != nil {
		return err
	}
	if value == "" && (key == keyAPIToken || key == keyAzureConnString) {
		return s.configStore.Set(key, "")
	}
	return nil
}

// Keys returns the config keys understood by Set.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(settingKeys))
	copy(keys, settingKeys)
	return keys
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getStrings(key string, defaultVal []string) []string {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetStringSlice(key)
}

func (s *SettingsService) getScrapeMode(defaultVal domain.ScrapeMode) domain.ScrapeMode {
	mode := domain.ScrapeMode(s.configStore.GetString(keyScrapeMode))
	if !mode.IsValid() {
		return defaultVal
	}
	return mode
}

func (s *SettingsService) getUploadBackend(defaultVal domain.UploadBackend) domain.UploadBackend {
	backend := domain.UploadBackend(s.configStore.GetString(keyUploadBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

// splitList parses a comma-separated list, dropping empty items.
func splitList(value string) []string {
	items := make([]string, 0)
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
