package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

var gnewsBase = "https://gnews.io/api/v4/search"

// GNewsSource queries the GNews API.
type GNewsSource struct {
	client *http.Client
	apiKey string
}

func NewGNewsSource(client *http.Client, apiKey string) *GNewsSource {
	return &GNewsSource{client: client, apiKey: apiKey}
}

func (s *GNewsSource) Name() string { return "gnews" }

type gnewsResponse struct {
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		Image       string `json:"image"`
		PublishedAt string `json:"publishedAt"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

func (s *GNewsSource) Fetch(ctx context.Context, req NewsRequest) ([]Article, error) {
	if s.apiKey == "" {
		return nil, nil
	}

	limit := req.PerSourceLimit
	if limit <= 0 {
		limit = 10
	}

	now := time.Now().UTC()
	params := url.Values{}
	params.Set("q", req.Topic)
	params.Set("lang", "en")
	params.Set("from", req.DateFrom(now).Format(time.RFC3339))
	params.Set("to", now.Format(time.RFC3339))
	params.Set("max", fmt.Sprintf("%d", limit))
	params.Set("sortby", "publishedAt")
	params.Set("token", s.apiKey)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, gnewsBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gnews request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ProviderError{Provider: s.Name(), StatusCode: resp.StatusCode}
	}

	var parsed gnewsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("parsing gnews response: %w", err)
	}

	articles := make([]Article, 0, len(parsed.Articles))
	for _, a := range parsed.Articles {
		if a.Title == "" || a.URL == "" {
			continue
		}

		publishedAt := time.Time{}
		if t, parseErr := time.Parse(time.RFC3339, a.PublishedAt); parseErr == nil {
			publishedAt = t
		}

		source := a.Source.Name
		if source == "" {
			source = s.Name()
		}

		articles = append(articles, Article{
			ID:          recordID(s.Name(), a.URL),
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			ImageURL:    a.Image,
			Source:      source,
			PublishedAt: publishedAt,
		})
	}

	return articles, nil
}
