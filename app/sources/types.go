package sources

import (
	"fmt"
	"time"
)

// Normalized record types. Every adapter maps its provider's response shape
// onto these, so the aggregator, dedup and API layers never see a
// provider-specific field name.

type Article struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	ImageURL    string    `json:"imageUrl"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"publishedAt"`
}

type ImageAsset struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	Source      string   `json:"source"`
	PreviewURL  string   `json:"previewUrl"`
	DownloadURL string   `json:"downloadUrl"`
	Width       int      `json:"width"`
	Height      int      `json:"height"`
	Tags        []string `json:"tags"`
}

type VideoAsset struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	Source      string   `json:"source"`
	PreviewURL  string   `json:"previewUrl"`
	DownloadURL string   `json:"downloadUrl"`
	Width       int      `json:"width"`
	Height      int      `json:"height"`
	DurationSec int      `json:"duration"`
	Tags        []string `json:"tags"`
}

// Request types. Immutable per call; adapters must not modify them.

type NewsRequest struct {
	Topic          string `json:"topic"`
	Category       string `json:"category"`
	Days           int    `json:"days"`
	PerSourceLimit int    `json:"perSourceLimit"`
}

// DateFrom returns the start of the [now-days, now] search window.
func (r NewsRequest) DateFrom(now time.Time) time.Time {
	days := r.Days
	if days <= 0 {
		days = 7
	}
	return now.AddDate(0, 0, -days)
}

type AssetRequest struct {
	Keywords    []string `json:"keywords"`
	ImageCount  int      `json:"imageCount"`
	VideoCount  int      `json:"videoCount"`
	Orientation string   `json:"orientation"`
}

// Query joins the keywords into a single provider search string.
func (r AssetRequest) Query() string {
	q := ""
	for i, kw := range r.Keywords {
		if i > 0 {
			q += " "
		}
		q += kw
	}
	return q
}

// Aggregate result types, serialized directly by the API layer.

type NewsResult struct {
	Success      bool        `json:"success"`
	TotalResults int         `json:"totalResults"`
	SourcesUsed  int         `json:"sourcesUsed"`
	Articles     []Article   `json:"articles"`
	SearchParams NewsRequest `json:"searchParams"`
}

type AssetResult struct {
	Success      bool         `json:"success"`
	TotalImages  int          `json:"totalImages"`
	TotalVideos  int          `json:"totalVideos"`
	Images       []ImageAsset `json:"images"`
	Videos       []VideoAsset `json:"videos"`
	SearchParams AssetRequest `json:"searchParams"`
}

// ProviderError reports a non-2xx response from a single upstream provider.
// The aggregator isolates these per provider; they never fail a whole call.
type ProviderError struct {
	Provider   string
	StatusCode int
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s returned HTTP %d", e.Provider, e.StatusCode)
}
