package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psdshow/vanilla/internal/adapters/driven/storage/memory"
	"github.com/psdshow/vanilla/internal/core/domain"
)

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	settings, err := service.Get()
	require.NoError(t, err)

	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults, *settings)
	assert.Equal(t, defaults, service.GetDefaults())
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{
		"api.base_url":                    "https://forum.example.com/",
		"api.token":                       "secret",
		"api.requests_per_minute":         int64(30),
		"scrape.mode":                     "api",
		"upload.backend":                  "azblob",
		"upload.max_bytes":                int64(2048),
		"upload.allowed_types":            []any{"image/png"},
		"embeds.reject_duplicates":        true,
		"embeds.video_enabled":            true,
		"upload.azblob.container":         "media",
		"upload.azblob.connection_string": "UseDevelopmentStorage=true",
	})
	service := NewSettingsService(store)

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, "https://forum.example.com", settings.API.BaseURL)
	assert.Equal(t, "secret", settings.API.Token)
	assert.Equal(t, 30, settings.API.RequestsPerMinute)
	assert.Equal(t, domain.ScrapeModeAPI, settings.Scrape.Mode)
	assert.Equal(t, domain.UploadBackendAzureBlob, settings.Upload.Backend)
	assert.Equal(t, int64(2048), settings.Upload.MaxBytes)
	assert.Equal(t, []string{"image/png"}, settings.Upload.AllowedTypes)
	assert.Equal(t, "media", settings.Upload.AzureContainer)
	assert.True(t, settings.Embeds.RejectDuplicates)
	assert.True(t, settings.Embeds.VideoEnabled)
}

func TestSettingsService_Get_InvalidEnumsFallBack(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{
		"scrape.mode":    "telepathy",
		"upload.backend": "floppy",
	})
	settings, err := NewSettingsService(store).Get()
	require.NoError(t, err)
	assert.Equal(t, domain.ScrapeModeLocal, settings.Scrape.Mode)
	assert.Equal(t, domain.UploadBackendAPI, settings.Upload.Backend)
}

func TestSettingsService_Save_Validates(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	settings := domain.DefaultAppSettings()
	settings.Scrape.Mode = domain.ScrapeModeAPI
	err := service.Save(&settings)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, store.Keys())
}

func TestSettingsService_Save_KeepsSecretsWhenBlank(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{"api.token": "secret"})
	service := NewSettingsService(store)

	settings := domain.DefaultAppSettings()
	require.NoError(t, service.Save(&settings))
	assert.Equal(t, "secret", store.GetString("api.token"))
	assert.Equal(t, "local", store.GetString("scrape.mode"))
}

func TestSettingsService_Set(t *testing.T) {
	tests := []struct {
		key   string
		value string
		check func(t *testing.T, s *domain.AppSettings)
	}{
		{"api.base_url", "https://forum.example.com/", func(t *testing.T, s *domain.AppSettings) {
			assert.Equal(t, "https://forum.example.com", s.API.BaseURL)
		}},
		{"api.requests_per_minute", "120", func(t *testing.T, s *domain.AppSettings) {
			assert.Equal(t, 120, s.API.RequestsPerMinute)
		}},
		{"upload.max_bytes", "1024", func(t *testing.T, s *domain.AppSettings) {
			assert.Equal(t, int64(1024), s.Upload.MaxBytes)
		}},
		{"upload.allowed_types", "image/png, image/gif,,", func(t *testing.T, s *domain.AppSettings) {
			assert.Equal(t, []string{"image/png", "image/gif"}, s.Upload.AllowedTypes)
		}},
		{"embeds.reject_duplicates", "true", func(t *testing.T, s *domain.AppSettings) {
			assert.True(t, s.Embeds.RejectDuplicates)
		}},
		{"embeds.video_enabled", "1", func(t *testing.T, s *domain.AppSettings) {
			assert.True(t, s.Embeds.VideoEnabled)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			service := NewSettingsService(memory.NewConfigStore())
			require.NoError(t, service.Set(tt.key, tt.value))

			settings, err := service.Get()
			require.NoError(t, err)
			tt.check(t, settings)
		})
	}
}

func TestSettingsService_Set_Invalid(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	assert.ErrorIs(t, service.Set("unknown.key", "x"), domain.ErrInvalidInput)
	assert.ErrorIs(t, service.Set("upload.max_bytes", "lots"), domain.ErrInvalidInput)
	assert.ErrorIs(t, service.Set("upload.max_bytes", "0"), domain.ErrInvalidInput)
	assert.ErrorIs(t, service.Set("embeds.video_enabled", "maybe"), domain.ErrInvalidInput)
	assert.ErrorIs(t, service.Set("scrape.mode", "api"), domain.ErrInvalidInput, "api mode needs a base url")
	assert.ErrorIs(t, service.Set("api.base_url", "ftp://forum"), domain.ErrInvalidInput)
}

func TestSettingsService_Set_ClearsToken(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{"api.token": "secret"})
	service := NewSettingsService(store)

	require.NoError(t, service.Set("api.token", ""))
	assert.Empty(t, store.GetString("api.token"))
}

func TestSettingsService_Keys(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())
	keys := service.Keys()
	assert.Contains(t, keys, "api.base_url")
	assert.Contains(t, keys, "embeds.video_enabled")
	assert.Len(t, keys, 11)
}
