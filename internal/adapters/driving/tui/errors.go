package tui

import "errors"

// ErrMissingDocumentService is returned when the document service is not provided.
var ErrMissingDocumentService = errors.New("tui: document service is required")

// ErrMissingEmbedFactory is returned when the embed factory is not provided.
var ErrMissingEmbedFactory = errors.New("tui: embed factory is required")

// ErrMissingEngine is returned when no document engine constructor is provided.
var ErrMissingEngine = errors.New("tui: document engine is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
