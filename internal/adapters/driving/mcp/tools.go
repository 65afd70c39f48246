package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/psdshow/vanilla/internal/core/domain"
	"github.com/psdshow/vanilla/internal/core/ports/driving"
	"github.com/psdshow/vanilla/internal/logger"
)

// CreateDocumentInput is the input schema for the create_document tool.
type CreateDocumentInput struct {
	Title string `json:"title,omitempty" jsonschema:"title of the new document"`
}

// DocumentOutput identifies a document.
type DocumentOutput struct {
	DocumentID string `json:"document_id"`
	Title      string `json:"title"`
}

// AppendTextInput is the input schema for the append_text tool.
type AppendTextInput struct {
	DocumentID string   `json:"document_id" jsonschema:"the document to edit"`
	Lines      []string `json:"lines" jsonschema:"lines of text to insert at the end of the document"`
}

// EmbedURLsInput is the input schema for the embed_urls tool.
type EmbedURLsInput struct {
	DocumentID     string   `json:"document_id" jsonschema:"the document to edit"`
	URLs           []string `json:"urls" jsonschema:"http(s) URLs to embed as link previews, images or videos"`
	TimeoutSeconds int      `json:"timeout_seconds,omitempty" jsonschema:"how long to wait for embeds to resolve (default 30)"`
}

// UploadFilesInput is the input schema for the upload_files tool.
type UploadFilesInput struct {
	DocumentID     string   `json:"document_id" jsonschema:"the document to edit"`
	Paths          []string `json:"paths" jsonschema:"local file paths to upload and embed"`
	TimeoutSeconds int      `json:"timeout_seconds,omitempty" jsonschema:"how long to wait for uploads to finish (default 30)"`
}

// EditOutput reports the document after an edit.
type EditOutput struct {
	DocumentID string          `json:"document_id"`
	Lines      []string        `json:"lines"`
	Rejected   []RejectedInput `json:"rejected,omitempty"`
	Dropped    int             `json:"dropped,omitempty"`
}

// RejectedInput is an input that could not be started.
type RejectedInput struct {
	Input string `json:"input"`
	Error string `json:"error"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "create_document",
		Description: "Create an empty document",
	}, s.handleCreateDocument)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "append_text",
		Description: "Insert lines of text at the end of a document",
	}, s.handleAppendText)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "embed_urls",
		Description: "Embed URLs into a document. Each URL is resolved into a link preview, " +
			"image or video; failures become inline error embeds.",
	}, s.handleEmbedURLs)

	if s.ports.ReadFile != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "upload_files",
			Description: "Upload local files and embed them into a document as images",
		}, s.handleUploadFiles)
	}
}

func (s *Server) handleCreateDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CreateDocumentInput,
) (*mcp.CallToolResult, DocumentOutput, error) {
	doc, err := s.ports.Documents.Create(ctx, input.Title)
	if err != nil {
		return nil, DocumentOutput{}, err
	}
	return nil, DocumentOutput{DocumentID: doc.ID, Title: doc.Title}, nil
}

func (s *Server) handleAppendText(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AppendTextInput,
) (*mcp.CallToolResult, EditOutput, error) {
	out, err := s.edit(ctx, input.DocumentID, 0, func(session driving.EditSession) []RejectedInput {
		var rejected []RejectedInput
		for _, line := range input.Lines {
			if err := session.InsertText(ctx, line); err != nil {
				rejected = append(rejected, RejectedInput{Input: line, Error: err.Error()})
			}
		}
		return rejected
	})
	return nil, out, err
}

func (s *Server) handleEmbedURLs(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input EmbedURLsInput,
) (*mcp.CallToolResult, EditOutput, error) {
	if len(input.URLs) == 0 {
		return nil, EditOutput{}, fmt.Errorf("%w: urls is required", domain.ErrInvalidInput)
	}
	out, err := s.edit(ctx, input.DocumentID, input.TimeoutSeconds, func(session driving.EditSession) []RejectedInput {
		var rejected []RejectedInput
		for _, url := range input.URLs {
			if err := session.ScrapeMedia(ctx, url); err != nil {
				rejected = append(rejected, RejectedInput{Input: url, Error: err.Error()})
			}
		}
		return rejected
	})
	return nil, out, err
}

func (s *Server) handleUploadFiles(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input UploadFilesInput,
) (*mcp.CallToolResult, EditOutput, error) {
	if len(input.Paths) == 0 {
		return nil, EditOutput{}, fmt.Errorf("%w: paths is required", domain.ErrInvalidInput)
	}
	out, err := s.edit(ctx, input.DocumentID, input.TimeoutSeconds, func(session driving.EditSession) []RejectedInput {
		var rejected []RejectedInput
		for _, path := range input.Paths {
			file, err := s.ports.ReadFile(path)
			if err == nil {
				err = session.UploadFile(ctx, file)
			}
			if err != nil {
				rejected = append(rejected, RejectedInput{Input: path, Error: err.Error()})
			}
		}
		return rejected
	})
	return nil, out, err
}

// edit opens documentID, applies fn, waits for embeds and saves.
// Embeds still loading when the timeout expires are dropped from the save.
func (s *Server) edit(
	ctx context.Context,
	documentID string,
	timeoutSeconds int,
	fn func(driving.EditSession) []RejectedInput,
) (EditOutput, error) {
	if documentID == "" {
		return EditOutput{}, fmt.Errorf("%w: document_id is required", domain.ErrInvalidInput)
	}
	session, err := s.ports.Editor.Open(ctx, documentID)
	if err != nil {
		return EditOutput{}, err
	}
	defer session.Close()

	out := EditOutput{DocumentID: documentID, Rejected: fn(session)}

	timeout := DefaultEmbedTimeout
	if timeoutSeconds > 0 {
		timeout = time.Duration(timeoutSeconds) * time.Second
	}
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := session.Wait(waitCtx); err != nil {
		if !errors.Is(err, context.DeadlineExceeded) {
			return EditOutput{}, err
		}
		pending, _ := session.Pending(ctx) //nolint:errcheck // best-effort count
		out.Dropped = len(pending)
		logger.Warn("mcp: %d embed(s) in %s still loading after %s", out.Dropped, documentID, timeout)
	}

	doc, err := session.Save(ctx)
	if err != nil {
		return EditOutput{}, fmt.Errorf("saving document: %w", err)
	}
	out.Lines = s.ports.Documents.Render(doc)
	return out, nil
}
