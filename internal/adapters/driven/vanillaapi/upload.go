package vanillaapi

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"github.com/psdshow/vanilla/internal/core/domain"
)

// uploadPath is the media upload endpoint.
const uploadPath = "/api/v2/media"

// Upload sends file as a multipart form to the forum media endpoint.
func (c *Client) Upload(ctx context.Context, file *domain.File) (*domain.UploadResult, error) {
	if file == nil {
		return nil, fmt.Errorf("%w: file is required", domain.ErrInvalidInput)
	}

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, file.Name))
	contentType := file.MIMEType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := form.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("build upload form: %w", err)
	}
	if _, err := part.Write(file.Content); err != nil {
		return nil, fmt.Errorf("build upload form: %w", err)
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("build upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+uploadPath, &buf)
	if err != nil {
		return nil, fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	var result domain.UploadResult
	if err := c.do(req, &result); err != nil {
		return nil, err
	}
	if result.URL == "" {
		return nil, fmt.Errorf("upload %s: response has no url", file.Name)
	}
	return &result, nil
}
