package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/psdshow/vanilla/internal/core/domain"
)

// embedRecord is the JSON column layout shared by all embed kinds.
type embedRecord struct {
	URL      string `json:"url,omitempty"`
	Name     string `json:"name,omitempty"`
	PhotoURL string `json:"photoUrl,omitempty"`
	Body     string `json:"body,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Message  string `json:"message,omitempty"`
}

func encodeEmbed(e domain.Embed) (sql.NullString, error) {
	var rec embedRecord
	switch v := e.(type) {
	case nil:
		return sql.NullString{}, nil
	case domain.SiteEmbed:
		rec = embedRecord{URL: v.URL, Name: v.Name, PhotoURL: v.PhotoURL, Body: v.Body}
	case domain.ImageEmbed:
		rec = embedRecord{URL: v.URL, Name: v.Name}
	case domain.VideoEmbed:
		rec = embedRecord{URL: v.URL, Name: v.Name, PhotoURL: v.PhotoURL, Width: v.Width, Height: v.Height}
	case domain.ErrorEmbed:
		rec = embedRecord{Message: v.Message}
	default:
		return sql.NullString{}, fmt.Errorf("%w: embed %T", domain.ErrUnsupportedType, e)
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func decodeEmbed(kind domain.NodeKind, data string) (domain.Embed, error) {
	var rec embedRecord
	if data != "" {
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			return nil, err
		}
	}

	switch kind {
	case domain.NodeSite:
		return domain.SiteEmbed{URL: rec.URL, Name: rec.Name, PhotoURL: rec.PhotoURL, Body: rec.Body}, nil
	case domain.NodeImage:
		return domain.ImageEmbed{URL: rec.URL, Name: rec.Name}, nil
	case domain.NodeVideo:
		return domain.VideoEmbed{
			URL: rec.URL, Name: rec.Name, PhotoURL: rec.PhotoURL, Width: rec.Width, Height: rec.Height,
		}, nil
	case domain.NodeError:
		return domain.ErrorEmbed{Message: rec.Message}, nil
	default:
		return nil, fmt.Errorf("%w: embed kind %s", domain.ErrUnsupportedType, kind)
	}
}
