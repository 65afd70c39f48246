// Package tui provides an interactive terminal editor for vanilla documents.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/psdshow/vanilla/internal/core/domain"
	"github.com/psdshow/vanilla/internal/core/ports/driven"
	"github.com/psdshow/vanilla/internal/core/ports/driving"
)

// Ports aggregates the services required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Documents lists, creates and saves documents.
	Documents driving.DocumentService

	// Settings manages application settings.
	Settings driving.SettingsService

	// Embeds builds the embed service for an opened document.
	Embeds driving.EmbedFactory

	// NewEngine builds the document engine for an opened document.
	NewEngine func(nodes []domain.Node) driven.HistoryEngine

	// ReadFile loads a file chosen for upload.
	ReadFile func(path string) (*domain.File, error)
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Documents == nil {
		return ErrMissingDocumentService
	}
	if p.Embeds == nil {
		return ErrMissingEmbedFactory
	}
	if p.NewEngine == nil {
		return ErrMissingEngine
	}
	return nil
}
