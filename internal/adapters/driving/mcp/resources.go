package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/psdshow/vanilla/internal/core/domain"
)

const (
	uriScheme = "vanilla://"

	historySuffix = "/history"
	historyLimit  = 50
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "documents",
		Name:        "documents",
		Description: "List of all documents",
		MIMEType:    "application/json",
	}, s.handleDocumentsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "documents/{documentId}",
		Name:        "document-content",
		Description: "Body of a document, one line per node",
		MIMEType:    "text/plain",
	}, s.handleDocumentContentResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "documents/{documentId}/history",
		Name:        "document-embed-history",
		Description: "Recent embed results for a document",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)
}

func (s *Server) handleDocumentsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	docs, err := s.ports.Documents.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	type docInfo struct {
		ID        string    `json:"id"`
		Title     string    `json:"title"`
		UpdatedAt time.Time `json:"updated_at"`
	}
	infos := make([]docInfo, len(docs))
	for i := range docs {
		infos[i] = docInfo{ID: docs[i].ID, Title: docs[i].Title, UpdatedAt: docs[i].UpdatedAt}
	}

	return jsonResource(req.Params.URI, infos)
}

func (s *Server) handleDocumentContentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	docID := extractDocumentID(req.Params.URI)
	if docID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	doc, err := s.ports.Documents.Get(ctx, docID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     strings.Join(s.ports.Documents.Render(doc), "\n"),
		}},
	}, nil
}

func (s *Server) handleHistoryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	docID := extractHistoryDocumentID(req.Params.URI)
	if docID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	entries, err := s.ports.Documents.History(ctx, docID, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("listing embed history: %w", err)
	}

	type entryInfo struct {
		Key       string    `json:"key"`
		Kind      string    `json:"kind"`
		Status    string    `json:"status"`
		Message   string    `json:"message,omitempty"`
		CreatedAt time.Time `json:"created_at"`
	}
	infos := make([]entryInfo, len(entries))
	for i, e := range entries {
		infos[i] = entryInfo{
			Key:       e.Key,
			Kind:      e.Kind.String(),
			Status:    string(e.Status),
			Message:   e.Message,
			CreatedAt: e.CreatedAt,
		}
	}

	return jsonResource(req.Params.URI, infos)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractDocumentID extracts the document ID from a URI like vanilla://documents/{documentId}.
func extractDocumentID(uri string) string {
	id, ok := strings.CutPrefix(uri, uriScheme+"documents/")
	if !ok || strings.Contains(id, "/") {
		return ""
	}
	return id
}

// extractHistoryDocumentID extracts the document ID from vanilla://documents/{documentId}/history.
func extractHistoryDocumentID(uri string) string {
	rest, ok := strings.CutPrefix(uri, uriScheme+"documents/")
	if !ok {
		return ""
	}
	id, ok := strings.CutSuffix(rest, historySuffix)
	if !ok || id == "" || strings.Contains(id, "/") {
		return ""
	}
	return id
}
