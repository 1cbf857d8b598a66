package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var newsDataBase = "https://newsdata.io/api/1/latest"

// NewsDataSource queries the NewsData.io API. It is the only news source
// with native category filtering, so the request's category maps onto the
// provider parameter here instead of being folded into the query string.
type NewsDataSource struct {
	client *http.Client
	apiKey string
}

func NewNewsDataSource(client *http.Client, apiKey string) *NewsDataSource {
	return &NewsDataSource{client: client, apiKey: apiKey}
}

func (s *NewsDataSource) Name() string { return "newsdata" }

type newsDataResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Link        string `json:"link"`
		ImageURL    string `json:"image_url"`
		SourceID    string `json:"source_id"`
		PubDate     string `json:"pubDate"`
	} `json:"results"`
}

func (s *NewsDataSource) Fetch(ctx context.Context, req NewsRequest) ([]Article, error) {
	if s.apiKey == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("apikey", s.apiKey)
	params.Set("q", req.Topic)
	params.Set("language", "en")
	if req.Category != "" {
		params.Set("category", strings.ToLower(req.Category))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, newsDataBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("newsdata request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ProviderError{Provider: s.Name(), StatusCode: resp.StatusCode}
	}

	var parsed newsDataResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("parsing newsdata response: %w", err)
	}

	limit := req.PerSourceLimit
	if limit <= 0 {
		limit = 10
	}

	now := time.Now().UTC()
	cutoff := req.DateFrom(now)

	articles := make([]Article, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		if len(articles) >= limit {
			break
		}
		if r.Title == "" || r.Link == "" {
			continue
		}

		// NewsData has no date-window parameter on this endpoint, so the
		// window is applied client-side.
		publishedAt := time.Time{}
		if t, parseErr := time.Parse("2006-01-02 15:04:05", r.PubDate); parseErr == nil {
			publishedAt = t.UTC()
		}
		if !publishedAt.IsZero() && publishedAt.Before(cutoff) {
			continue
		}

		source := r.SourceID
		if source == "" {
			source = s.Name()
		}

		articles = append(articles, Article{
			ID:          recordID(s.Name(), r.Link),
			Title:       r.Title,
			Description: r.Description,
			URL:         r.Link,
			ImageURL:    r.ImageURL,
			Source:      source,
			PublishedAt: publishedAt,
		})
	}

	return articles, nil
}
