package vanillaapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/psdshow/vanilla/internal/core/domain"
	"github.com/psdshow/vanilla/internal/core/ports/driven"
)

// Ensure Client implements the media ports.
var (
	_ driven.MediaScraper  = (*Client)(nil)
	_ driven.MediaUploader = (*Client)(nil)
)

// DefaultTimeout bounds a single API request.
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 64 << 10

// Config configures a Client.
type Config struct {
	// BaseURL is the forum root, e.g. https://forum.example.com.
	BaseURL string

	// Token is sent as a bearer token when set.
	Token string

	// RequestsPerMinute throttles requests. Zero disables throttling.
	RequestsPerMinute int

	// Timeout bounds each request. Defaults to DefaultTimeout.
	Timeout time.Duration

	// HTTPClient overrides the transport. The token is not applied to it.
	HTTPClient *http.Client
}

// Client talks to the forum media API.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *RateLimiter
}

// NewClient creates an API client.
func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("%w: api base url is required", domain.ErrInvalidInput)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		if cfg.Token != "" {
			ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
			httpClient = oauth2.NewClient(context.Background(), ts)
		} else {
			httpClient = &http.Client{}
		}
		httpClient.Timeout = timeout
	}

	return &Client{
		baseURL: base,
		http:    httpClient,
		limiter: NewRateLimiter(cfg.RequestsPerMinute),
	}, nil
}

// BaseURL returns the forum root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do sends req and decodes a JSON success body into out.
// Non-2xx responses become *domain.RemoteError.
func (c *Client) do(req *http.Request, out any) error {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		c.limiter.Backoff(resp.Header.Get("Retry-After"))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", req.URL.Path, err)
	}
	return nil
}

// errorBody is the error payload returned by the API.
type errorBody struct {
	Message string `json:"message"`
}

func parseError(resp *http.Response) error {
	remote := &domain.RemoteError{
		StatusCode: resp.StatusCode,
		URL:        resp.Request.URL.String(),
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return remote
	}
	var body errorBody
	if json.Unmarshal(data, &body) == nil {
		remote.Message = body.Message
	}
	return remote
}
