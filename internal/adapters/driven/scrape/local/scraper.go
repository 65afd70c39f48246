// Package local resolves URLs into embed metadata without a forum server.
//
// It fetches the page itself and reads OpenGraph tags, falling back to the
// document title and meta description. Direct links to images are returned
// as image results.
package local

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/psdshow/vanilla/internal/core/domain"
	"github.com/psdshow/vanilla/internal/core/ports/driven"
	"github.com/psdshow/vanilla/internal/logger"
)

// Ensure Scraper implements the interface.
var _ driven.MediaScraper = (*Scraper)(nil)

const (
	// DefaultTimeout bounds a single page fetch.
	DefaultTimeout = 15 * time.Second

	// DefaultMaxBodyBytes caps how much of a page is parsed.
	DefaultMaxBodyBytes = 2 << 20

	// DefaultUserAgent identifies the scraper to remote sites.
	DefaultUserAgent = "vanilla-embed/1.0"

	// typeFile is reported for content that has no embed representation.
	typeFile = "file"
)

// Option configures a Scraper.
type Option func(*Scraper)

// WithHTTPClient sets the client used to fetch pages.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Scraper) {
		s.client = client
	}
}

// WithMaxBodyBytes caps the page size read for parsing.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Scraper) {
		if n > 0 {
			s.maxBody = n
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(s *Scraper) {
		s.userAgent = ua
	}
}

// Scraper fetches pages and extracts preview metadata.
type Scraper struct {
	client    *http.Client
	maxBody   int64
	userAgent string
}

// New creates a local scraper.
func New(opts ...Option) *Scraper {
	s := &Scraper{
		client:    &http.Client{Timeout: DefaultTimeout},
		maxBody:   DefaultMaxBodyBytes,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scrape fetches rawURL and describes it.
// Unreachable pages are reported as *domain.RemoteError with a
// "Failed to load URL" message, matching the forum endpoint.
func (s *Scraper) Scrape(ctx context.Context, rawURL string) (*domain.ScrapeResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,image/*;q=0.9,*/*;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Debug("Fetching %s failed: %v", rawURL, err)
		return nil, failedToLoad(rawURL, 0)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, failedToLoad(rawURL, resp.StatusCode)
	}

	mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil {
		mediaType = "text/html"
	}
	finalURL := resp.Request.URL

	switch {
	case strings.HasPrefix(mediaType, "image/"):
		return &domain.ScrapeResult{
			Type:     domain.ScrapeTypeImage,
			URL:      finalURL.String(),
			Name:     path.Base(finalURL.Path),
			PhotoURL: finalURL.String(),
		}, nil
	case strings.HasPrefix(mediaType, "video/"):
		return &domain.ScrapeResult{
			Type: domain.ScrapeTypeVideo,
			URL:  finalURL.String(),
			Name: path.Base(finalURL.Path),
		}, nil
	case mediaType == "text/html" || mediaType == "application/xhtml+xml":
		doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, s.maxBody))
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", rawURL, err)
		}
		return describePage(doc, finalURL), nil
	default:
		return &domain.ScrapeResult{Type: typeFile, URL: finalURL.String()}, nil
	}
}

// describePage builds a result from OpenGraph tags with HTML fallbacks.
func describePage(doc *goquery.Document, pageURL *url.URL) *domain.ScrapeResult {
	meta := func(names ...string) string {
		for _, name := range names {
			sel := doc.Find(fmt.Sprintf(`meta[property=%q], meta[name=%q]`, name, name)).First()
			if content := strings.TrimSpace(sel.AttrOr("content", "")); content != "" {
				return content
			}
		}
		return ""
	}

	result := &domain.ScrapeResult{
		Type:     domain.ScrapeTypeSite,
		URL:      resolve(pageURL, meta("og:url")),
		Name:     meta("og:title", "twitter:title"),
		PhotoURL: resolve(pageURL, meta("og:image", "og:image:url", "twitter:image")),
		Body:     meta("og:description", "description", "twitter:description"),
	}
	if result.URL == "" {
		result.URL = pageURL.String()
	}
	if result.Name == "" {
		result.Name = strings.TrimSpace(doc.Find("title").First().Text())
	}

	if strings.HasPrefix(meta("og:type"), "video") {
		result.Type = domain.ScrapeTypeVideo
		result.Width = atoi(meta("og:video:width"))
		result.Height = atoi(meta("og:video:height"))
	}
	return result
}

// resolve makes ref absolute against base. Empty refs stay empty.
func resolve(base *url.URL, ref string) string {
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return base.ResolveReference(u).String()
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func failedToLoad(rawURL string, status int) *domain.RemoteError {
	return &domain.RemoteError{
		StatusCode: status,
		Message:    "Failed to load URL: " + rawURL,
		URL:        rawURL,
	}
}
