package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/psdshow/vanilla/internal/core/domain"
	"github.com/psdshow/vanilla/internal/core/ports/driven"
)

// failedToLoadPattern matches server messages for URLs the scraper could
// not fetch. Those are replaced with a generic message.
var failedToLoadPattern = regexp.MustCompile(`^Failed to load URL`)

// MediaResolver turns scrape responses into embed outcomes.
type MediaResolver struct {
	scraper      driven.MediaScraper
	videoEnabled bool
}

// NewMediaResolver creates a resolver over scraper.
// Video results become video embeds only when videoEnabled is set.
func NewMediaResolver(scraper driven.MediaScraper, videoEnabled bool) *MediaResolver {
	return &MediaResolver{
		scraper:      scraper,
		videoEnabled: videoEnabled,
	}
}

// Resolve scrapes url and returns the outcome to settle its placeholder with.
// It never returns a bare error: failures are classified into the outcome.
func (m *MediaResolver) Resolve(ctx context.Context, url string) domain.Outcome {
	result, err := m.scraper.Scrape(ctx, url)
	if err != nil {
		return domain.Failure(scrapeFailure(err))
	}
	if result == nil {
		return domain.Failure(&domain.EmbedError{
			Kind:    domain.ScrapeTransportError,
			Message: fmt.Sprintf("empty scrape response for %s", url),
		})
	}
	return m.embedFor(result)
}

// embedFor dispatches on the scrape result type.
func (m *MediaResolver) embedFor(result *domain.ScrapeResult) domain.Outcome {
	switch result.Type {
	case domain.ScrapeTypeSite:
		return domain.Success(domain.SiteEmbed{
			URL:      result.URL,
			Name:     result.Name,
			PhotoURL: result.PhotoURL,
			Body:     result.Body,
		})
	case domain.ScrapeTypeImage:
		return domain.Success(domain.ImageEmbed{
			URL:  result.PhotoURL,
			Name: result.Name,
		})
	case domain.ScrapeTypeVideo:
		if m.videoEnabled {
			return domain.Success(domain.VideoEmbed{
				URL:      result.URL,
				Name:     result.Name,
				PhotoURL: result.PhotoURL,
				Width:    result.Width,
				Height:   result.Height,
			})
		}
	}
	return domain.Failure(&domain.EmbedError{
		Kind:    domain.UnsupportedEmbedType,
		Message: domain.MsgUnsupportedEmbed,
		Err:     fmt.Errorf("%w: embed type %q", domain.ErrUnsupportedType, result.Type),
	})
}

// scrapeFailure maps a scraper error to its user-facing embed error.
func scrapeFailure(err error) error {
	message := err.Error()
	var remote *domain.RemoteError
	if errors.As(err, &remote) && remote.Message != "" {
		message = remote.Message
	}
	if failedToLoadPattern.MatchString(message) {
		message = domain.MsgFailedToLoadURL
	}
	return &domain.EmbedError{
		Kind:    domain.ScrapeTransportError,
		Message: message,
		Err:     err,
	}
}
