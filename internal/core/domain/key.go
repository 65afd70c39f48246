package domain

import "fmt"

// LookupKey identifies one in-flight embed operation.
//
// A key is either a URL, compared by value, or a file reference, compared by
// pointer identity. Two uploads of files with identical contents are distinct
// operations; two submissions of the same URL share a key. The zero value is
// the absent key.
type LookupKey struct {
	url  string
	file *File
}

// URLKey returns the lookup key for a scraped URL.
func URLKey(url string) LookupKey {
	return LookupKey{url: url}
}

// FileKey returns the lookup key for an uploaded file.
// A nil file yields the absent key.
func FileKey(f *File) LookupKey {
	return LookupKey{file: f}
}

// IsZero reports whether k is the absent key.
func (k LookupKey) IsZero() bool {
	return k.url == "" && k.file == nil
}

// URL returns the URL of a URL key.
func (k LookupKey) URL() (string, bool) {
	return k.url, k.url != ""
}

// File returns the file of a file key.
func (k LookupKey) File() (*File, bool) {
	return k.file, k.file != nil
}

// String returns a human-readable form for logs and listings.
func (k LookupKey) String() string {
	switch {
	case k.file != nil:
		return fmt.Sprintf("file:%s", k.file.Name)
	case k.url != "":
		return "url:" + k.url
	default:
		return "<none>"
	}
}
