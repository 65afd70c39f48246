package upload

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/psdshow/vanilla/internal/core/domain"
	"github.com/psdshow/vanilla/internal/logger"
)

// DropWatcher turns files appearing in a directory into uploads.
//
// Files should be moved into the directory once complete; a file is read as
// soon as it is created. Hidden files and subdirectories are ignored.
type DropWatcher struct {
	dir    string
	submit func(*domain.File) error
}

// NewDropWatcher watches dir and passes each dropped file to submit.
func NewDropWatcher(dir string, submit func(*domain.File) error) *DropWatcher {
	return &DropWatcher{dir: dir, submit: submit}
}

// Dir returns the watched directory.
func (w *DropWatcher) Dir() string {
	return w.dir
}

// Watch blocks until ctx is cancelled or the watcher fails.
// ready, if non-nil, is closed once the directory is being watched.
func (w *DropWatcher) Watch(ctx context.Context, ready chan<- struct{}) error {
	info, err := os.Stat(w.dir)
	if err != nil {
		return fmt.Errorf("drop directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidInput, w.dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	logger.Info("Watching %s for dropped files", w.dir)
	if ready != nil {
		close(ready)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			file := w.handleEvent(event)
			if file == nil {
				continue
			}
			if err := w.submit(file); err != nil {
				logger.Warn("Dropped file %s not uploaded: %v", file.Name, err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Drop watcher error: %v", err)
		}
	}
}

// handleEvent returns the file to upload for event, or nil to skip it.
func (w *DropWatcher) handleEvent(event fsnotify.Event) *domain.File {
	if !event.Has(fsnotify.Create) {
		return nil
	}
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return nil
	}

	info, err := os.Stat(event.Name)
	if err != nil || info.IsDir() {
		return nil
	}

	file, err := ReadFile(event.Name)
	if err != nil {
		logger.Warn("Reading dropped file: %v", err)
		return nil
	}
	return file
}
