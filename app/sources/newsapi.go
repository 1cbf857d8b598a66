package sources

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// newsAPIBase is the NewsAPI article search endpoint. Declared as a var so
// tests can substitute an httptest server.
var newsAPIBase = "https://newsapi.org/v2/everything"

// NewsAPISource queries NewsAPI.org.
type NewsAPISource struct {
	client *http.Client
	apiKey string
}

func NewNewsAPISource(client *http.Client, apiKey string) *NewsAPISource {
	return &NewsAPISource{client: client, apiKey: apiKey}
}

func (s *NewsAPISource) Name() string { return "newsapi" }

// newsAPIResponse mirrors the provider's wire format. Provider field names
// stay inside this file.
type newsAPIResponse struct {
	Status   string `json:"status"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		URLToImage  string `json:"urlToImage"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

func (s *NewsAPISource) Fetch(ctx context.Context, req NewsRequest) ([]Article, error) {
	if s.apiKey == "" {
		return nil, nil
	}

	limit := req.PerSourceLimit
	if limit <= 0 {
		limit = 10
	}

	now := time.Now().UTC()
	params := url.Values{}
	query := req.Topic
	if req.Category != "" {
		query += " " + req.Category
	}
	params.Set("q", query)
	params.Set("from", req.DateFrom(now).Format("2006-01-02"))
	params.Set("to", now.Format("2006-01-02"))
	params.Set("sortBy", "publishedAt")
	params.Set("language", "en")
	params.Set("pageSize", fmt.Sprintf("%d", limit))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, newsAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("X-Api-Key", s.apiKey)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("newsapi request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ProviderError{Provider: s.Name(), StatusCode: resp.StatusCode}
	}

	var parsed newsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("parsing newsapi response: %w", err)
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
			ImageURL:    a.URLToImage,
			Source:      source,
			PublishedAt: publishedAt,
		})
	}

	return articles, nil
}

// recordID builds a provider-qualified record identifier that is stable
// across calls for the same underlying asset.
func recordID(provider, key string) string {
	hash := sha256.Sum256([]byte(key))
	return provider + "-" + hex.EncodeToString(hash[:6])
}
