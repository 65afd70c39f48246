package mcp

import (
	"github.com/psdshow/vanilla/internal/core/domain"
	"github.com/psdshow/vanilla/internal/core/ports/driving"
)

// Ports aggregates the services required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Documents lists, creates and renders documents.
	Documents driving.DocumentService

	// Editor opens edit sessions for embed tools.
	Editor driving.EditorService

	// ReadFile loads a local file for the upload tool.
	// Without it the upload tool is not registered.
	ReadFile func(path string) (*domain.File, error)
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Documents == nil {
		return ErrMissingDocumentService
	}
	if p.Editor == nil {
		return ErrMissingEditorService
	}
	return nil
}
