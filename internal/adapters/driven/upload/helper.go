// Package upload validates local files and hands them to a media uploader,
// reporting progress through driven.UploadHooks.
//
// Files reach the helper from three entry points: an explicit path, pasted
// data, or a watched drop directory.
package upload

import (
	"context"
	"fmt"

	"github.com/psdshow/vanilla/internal/core/domain"
	"github.com/psdshow/vanilla/internal/core/ports/driven"
	"github.com/psdshow/vanilla/internal/logger"
)

// Ensure Helper implements the interface.
var _ driven.UploadHelper = (*Helper)(nil)

// Helper runs uploads and reports them through hooks.
type Helper struct {
	uploader driven.MediaUploader
	hooks    driven.UploadHooks
	limits   domain.UploadSettings
}

// NewHelper creates an upload helper. limits supplies the size cap and the
// MIME allow list; a zero MaxBytes disables the size check.
func NewHelper(uploader driven.MediaUploader, hooks driven.UploadHooks, limits domain.UploadSettings) *Helper {
	return &Helper{
		uploader: uploader,
		hooks:    hooks,
		limits:   limits,
	}
}

// Upload validates file and uploads it. A rejected file reports OnFailure
// without OnStart. Otherwise OnStart is followed by exactly one of
// OnSuccess or OnFailure.
func (h *Helper) Upload(ctx context.Context, file *domain.File) {
	if err := h.Validate(file); err != nil {
		logger.Debug("Rejected upload: %v", err)
		h.failure(file, err)
		return
	}

	if h.hooks.OnStart != nil {
		h.hooks.OnStart(file)
	}

	result, err := h.uploader.Upload(ctx, file)
	if err != nil {
		h.failure(file, err)
		return
	}
	if h.hooks.OnSuccess != nil {
		h.hooks.OnSuccess(file, result)
	}
}

// Validate checks file against the configured limits.
func (h *Helper) Validate(file *domain.File) error {
	if file == nil {
		return fmt.Errorf("%w: file is required", domain.ErrInvalidInput)
	}
	if h.limits.MaxBytes > 0 && file.Size > h.limits.MaxBytes {
		return fmt.Errorf("%w: %s is %d bytes, limit is %d",
			domain.ErrFileTooLarge, file.Name, file.Size, h.limits.MaxBytes)
	}
	if !h.limits.AllowsType(file.MIMEType) {
		return fmt.Errorf("%w: %s (%s)", domain.ErrDisallowedType, file.Name, file.MIMEType)
	}
	return nil
}

func (h *Helper) failure(file *domain.File, err error) {
	if h.hooks.OnFailure != nil {
		h.hooks.OnFailure(file, err)
	}
}
