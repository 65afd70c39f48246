package domain

import (
	"fmt"
	"net/url"
	"strings"
)

const unknownDescription = "Unknown"

// ScrapeMode selects how URLs are resolved into embed metadata.
type ScrapeMode string

// Available scrape modes.
const (
	// ScrapeModeAPI posts URLs to the forum's media scrape endpoint.
	ScrapeModeAPI ScrapeMode = "api"

	// ScrapeModeLocal fetches and parses pages directly.
	ScrapeModeLocal ScrapeMode = "local"
)

// IsValid returns true if the scrape mode is recognised.
func (m ScrapeMode) IsValid() bool {
	return m == ScrapeModeAPI || m == ScrapeModeLocal
}

// String returns the string representation.
func (m ScrapeMode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m ScrapeMode) Description() string {
	switch m {
	case ScrapeModeAPI:
		return "Forum API (/api/v2/media/scrape)"
	case ScrapeModeLocal:
		return "Local (fetch and parse OpenGraph tags)"
	default:
		return unknownDescription
	}
}

// UploadBackend selects where dropped and pasted files are stored.
type UploadBackend string

// Available upload backends.
const (
	// UploadBackendAPI posts files to the forum's media endpoint.
	UploadBackendAPI UploadBackend = "api"

	// UploadBackendAzureBlob stores files in an Azure Blob container.
	UploadBackendAzureBlob UploadBackend = "azblob"
)

// IsValid returns true if the upload backend is recognised.
func (b UploadBackend) IsValid() bool {
	return b == UploadBackendAPI || b == UploadBackendAzureBlob
}

// String returns the string representation.
func (b UploadBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b UploadBackend) Description() string {
	switch b {
	case UploadBackendAPI:
		return "Forum API (/api/v2/media)"
	case UploadBackendAzureBlob:
		return "Azure Blob Storage"
	default:
		return unknownDescription
	}
}

// AppSettings is the complete application configuration.
type AppSettings struct {
	API    APISettings
	Scrape ScrapeSettings
	Upload UploadSettings
	Embeds EmbedSettings
}

// APISettings configures access to the forum API.
type APISettings struct {
	// BaseURL is the forum root, e.g. https://forum.example.com.
	BaseURL string

	// Token is the bearer token sent with API requests.
	Token string

	// RequestsPerMinute throttles API calls client-side. Zero disables throttling.
	RequestsPerMinute int
}

// ScrapeSettings configures URL resolution.
type ScrapeSettings struct {
	Mode ScrapeMode
}

// UploadSettings configures file uploads.
type UploadSettings struct {
	Backend UploadBackend

	// MaxBytes caps the size of a single upload.
	MaxBytes int64

	// AllowedTypes lists accepted MIME types. A trailing "/*" matches a family.
	AllowedTypes []string

	// AzureConnectionString is used by the azblob backend.
	AzureConnectionString string

	// AzureContainer is the container uploads are written to.
	AzureContainer string
}

// EmbedSettings configures the embed lifecycle.
type EmbedSettings struct {
	// RejectDuplicates refuses a URL submission while the same URL is pending.
	// When false a duplicate replaces the tracked placeholder and the first
	// one is never resolved.
	RejectDuplicates bool

	// VideoEnabled builds video embeds for "video" scrape results instead of
	// treating them as unsupported.
	VideoEnabled bool
}

// DefaultAppSettings returns the settings used when nothing is configured.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Scrape: ScrapeSettings{Mode: ScrapeModeLocal},
		Upload: UploadSettings{
			Backend:        UploadBackendAPI,
			MaxBytes:       10 << 20,
			AllowedTypes:   []string{"image/*"},
			AzureContainer: "uploads",
		},
	}
}

// Validate checks that the settings are internally consistent.
func (s *AppSettings) Validate() error {
	if !s.Scrape.Mode.IsValid() {
		return fmt.Errorf("%w: scrape mode %q", ErrInvalidInput, s.Scrape.Mode)
	}
	if !s.Upload.Backend.IsValid() {
		return fmt.Errorf("%w: upload backend %q", ErrInvalidInput, s.Upload.Backend)
	}
	if s.API.RequestsPerMinute < 0 {
		return fmt.Errorf("%w: requests per minute must not be negative", ErrInvalidInput)
	}
	if s.Upload.MaxBytes <= 0 {
		return fmt.Errorf("%w: upload max bytes must be positive", ErrInvalidInput)
	}
	if s.API.BaseURL != "" {
		u, err := url.Parse(s.API.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: api base url %q", ErrInvalidInput, s.API.BaseURL)
		}
	}
	if s.Scrape.Mode == ScrapeModeAPI && s.API.BaseURL == "" {
		return fmt.Errorf("%w: scrape mode %q requires api.base_url", ErrInvalidInput, s.Scrape.Mode)
	}
	if s.Upload.Backend == UploadBackendAzureBlob &&
		(s.Upload.AzureConnectionString == "" || s.Upload.AzureContainer == "") {
		return fmt.Errorf("%w: upload backend %q requires a connection string and container",
			ErrInvalidInput, s.Upload.Backend)
	}
	return nil
}

// AllowsType reports whether mimeType is accepted for upload.
// An empty allow list accepts everything.
func (u *UploadSettings) AllowsType(mimeType string) bool {
	if len(u.AllowedTypes) == 0 {
		return true
	}
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	for _, allowed := range u.AllowedTypes {
		allowed = strings.ToLower(strings.TrimSpace(allowed))
		if allowed == mimeType || allowed == "*/*" {
			return true
		}
		if family, ok := strings.CutSuffix(allowed, "/*"); ok && strings.HasPrefix(mimeType, family+"/") {
			return true
		}
	}
	return false
}
