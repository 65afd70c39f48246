package driven

// ConfigStore holds flat configuration values addressed by dot keys that
// mirror TOML tables, e.g. "upload.max_bytes" for [upload] max_bytes.
// Typed getters return the zero value for missing or mistyped keys; use Get
// to tell the two apart.
type ConfigStore interface {
	Get(key string) (any, bool)
	GetString(key string) string
	GetInt(key string) int
	GetBool(key string) bool
	GetStringSlice(key string) []string

	// Keys returns every stored key, sorted.
	Keys() []string

	// Set stores value under key and persists it before returning.
	Set(key string, value any) error
}
