package vanillaapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/psdshow/vanilla/internal/core/domain"
)

// scrapePath is the media scrape endpoint.
const scrapePath = "/api/v2/media/scrape"

type scrapeRequest struct {
	URL string `json:"url"`
}

// Scrape asks the forum to resolve url into embed metadata.
func (c *Client) Scrape(ctx context.Context, url string) (*domain.ScrapeResult, error) {
	body, err := json.Marshal(scrapeRequest{URL: url})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+scrapePath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build scrape request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var result domain.ScrapeResult
	if err := c.do(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
