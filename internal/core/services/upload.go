package services

import (
	"github.com/psdshow/vanilla/internal/core/domain"
	"github.com/psdshow/vanilla/internal/logger"
)

// uploadSucceeded builds the outcome for a completed upload.
func uploadSucceeded(file *domain.File, result *domain.UploadResult) domain.Outcome {
	if result == nil || result.URL == "" {
		return uploadFailed(file, nil)
	}
	name := result.Name
	if name == "" && file != nil {
		name = file.Name
	}
	return domain.Success(domain.ImageEmbed{URL: result.URL, Name: name})
}

// uploadFailed builds the outcome for a rejected upload.
func uploadFailed(file *domain.File, err error) domain.Outcome {
	message := "upload failed"
	switch {
	case err != nil:
		message = err.Error()
	case file != nil:
		message = "upload failed: " + file.Name
	}
	return domain.Failure(&domain.EmbedError{
		Kind:    domain.UploadFailure,
		Message: message,
		Err:     err,
	})
}

// uploadStarted creates the placeholder for file.
func (s *EmbedService) uploadStarted(file *domain.File) {
	if file == nil {
		logger.Warn("Upload started without a file")
		return
	}
	if _, err := s.lifecycle.CreatePlaceholder(domain.FileKey(file)); err != nil {
		logger.Warn("Placeholder for upload %s: %v", file.Name, err)
	}
}

// uploadFinished settles the placeholder for file. A nil file resolves
// under the absent key, which always yields a standalone node.
func (s *EmbedService) uploadFinished(file *domain.File, outcome domain.Outcome) {
	s.lifecycle.Resolve(domain.FileKey(file), outcome)
}
