package domain

import "fmt"

// Scrape result types returned by the media scrape endpoint.
const (
	ScrapeTypeSite  = "site"
	ScrapeTypeImage = "image"
	ScrapeTypeVideo = "video"
)

// Embed is a resolved result that replaces a placeholder.
type Embed interface {
	// Kind returns the node kind that carries this embed.
	Kind() NodeKind

	// Summary renders the embed as a single line.
	Summary() string
}

// SiteEmbed is a link preview.
type SiteEmbed struct {
	URL      string
	Name     string
	PhotoURL string
	Body     string
}

// Kind implements Embed.
func (SiteEmbed) Kind() NodeKind { return NodeSite }

// Summary implements Embed.
func (e SiteEmbed) Summary() string {
	name := e.Name
	if name == "" {
		name = e.URL
	}
	return fmt.Sprintf("[site] %s <%s>", name, e.URL)
}

// ImageEmbed is an inline image. URL is the address of the image itself.
type ImageEmbed struct {
	URL  string
	Name string
}

// Kind implements Embed.
func (ImageEmbed) Kind() NodeKind { return NodeImage }

// Summary implements Embed.
func (e ImageEmbed) Summary() string {
	if e.Name == "" {
		return fmt.Sprintf("[image] <%s>", e.URL)
	}
	return fmt.Sprintf("[image] %s <%s>", e.Name, e.URL)
}

// VideoEmbed is a video player with a poster image.
type VideoEmbed struct {
	URL      string
	Name     string
	PhotoURL string
	Width    int
	Height   int
}

// Kind implements Embed.
func (VideoEmbed) Kind() NodeKind { return NodeVideo }

// Summary implements Embed.
func (e VideoEmbed) Summary() string {
	return fmt.Sprintf("[video] %s <%s>", e.Name, e.URL)
}

// ErrorEmbed is an inline error shown in place of a failed embed.
type ErrorEmbed struct {
	Message string
}

// Kind implements Embed.
func (ErrorEmbed) Kind() NodeKind { return NodeError }

// Summary implements Embed.
func (e ErrorEmbed) Summary() string {
	return "[error] " + e.Message
}

// ScrapeResult is the structured metadata returned for a scraped URL.
// Type discriminates which embed is built from it.
type ScrapeResult struct {
	Type     string `json:"type"`
	URL      string `json:"url"`
	Name     string `json:"name,omitempty"`
	PhotoURL string `json:"photoUrl,omitempty"`
	Body     string `json:"body,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
}
