package upload

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/psdshow/vanilla/internal/core/domain"
)

// ReadFile loads the file at path into an upload handle.
func ReadFile(path string) (*domain.File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", domain.ErrInvalidInput, path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	name := filepath.Base(path)
	return &domain.File{
		Name:     name,
		MIMEType: DetectType(name, content),
		Size:     int64(len(content)),
		Path:     path,
		Content:  content,
	}, nil
}

// Paste builds an upload handle from pasted data. Reading stops one byte
// past maxBytes so oversized pastes are still rejected by size.
func Paste(r io.Reader, name string, maxBytes int64) (*domain.File, error) {
	var reader io.Reader = r
	if maxBytes > 0 {
		reader = io.LimitReader(r, maxBytes+1)
	}
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read pasted data: %w", err)
	}
	if len(content) == 0 {
		return nil, fmt.Errorf("%w: pasted data is empty", domain.ErrInvalidInput)
	}

	name = strings.TrimSpace(name)
	mimeType := DetectType(name, content)
	if name == "" {
		name = "pasted" + extensionFor(mimeType)
	}
	return &domain.File{
		Name:     name,
		MIMEType: mimeType,
		Size:     int64(len(content)),
		Content:  content,
	}, nil
}

// DetectType returns the MIME type for a file, preferring the extension and
// falling back to content sniffing.
func DetectType(name string, content []byte) string {
	if ext := filepath.Ext(name); ext != "" {
		if t := mime.TypeByExtension(strings.ToLower(ext)); t != "" {
			if mediaType, _, err := mime.ParseMediaType(t); err == nil {
				return mediaType
			}
			return t
		}
	}
	sniffed := http.DetectContentType(content)
	if mediaType, _, err := mime.ParseMediaType(sniffed); err == nil {
		return mediaType
	}
	return sniffed
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	}
	if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}
