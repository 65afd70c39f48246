// Package mcp provides an MCP (Model Context Protocol) server adapter for vanilla.
// It lets AI assistants create documents and embed links and files into them.
package mcp

import "errors"

// ErrMissingDocumentService is returned when the document service is not provided.
var ErrMissingDocumentService = errors.New("mcp: document service is required")

// ErrMissingEditorService is returned when the editor service is not provided.
var ErrMissingEditorService = errors.New("mcp: editor service is required")
