// Package vanillaapi is a client for the forum's media endpoints.
//
// It implements driven.MediaScraper against POST /api/v2/media/scrape and
// driven.MediaUploader against POST /api/v2/media. Requests carry a bearer
// token and are throttled client-side when a rate is configured.
package vanillaapi
