package sources

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

var googleNewsBase = "https://news.google.com/rss/search"

// GoogleNewsSource reads the Google News search feed. It needs no
// credential, so it is the one source that is always enabled.
type GoogleNewsSource struct {
	client    *http.Client
	userAgent string
	parser    *gofeed.Parser
}

func NewGoogleNewsSource(client *http.Client, userAgent string) *GoogleNewsSource {
	return &GoogleNewsSource{
		client:    client,
		userAgent: userAgent,
		parser:    gofeed.NewParser(),
	}
}

func (s *GoogleNewsSource) Name() string { return "googlenews" }

func (s *GoogleNewsSource) Fetch(ctx context.Context, req NewsRequest) ([]Article, error) {
	limit := req.PerSourceLimit
	if limit <= 0 {
		limit = 10
	}

	params := url.Values{}
	params.Set("q", req.Topic)
	params.Set("hl", "en-US")
	params.Set("gl", "US")
	params.Set("ceid", "US:en")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, googleNewsBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("google news request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ProviderError{Provider: s.Name(), StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading google news response: %w", err)
	}

	feed, err := s.parser.ParseString(string(data))
	if err != nil {
		return nil, fmt.Errorf("parsing google news feed: %w", err)
	}

	now := time.Now().UTC()
	cutoff := req.DateFrom(now)

	articles := make([]Article, 0, limit)
	for _, item := range feed.Items {
		if len(articles) >= limit {
			break
		}
		if item.Title == "" || item.Link == "" {
			continue
		}

		publishedAt := time.Time{}
		if item.PublishedParsed != nil {
			publishedAt = item.PublishedParsed.UTC()
		}
		if !publishedAt.IsZero() && publishedAt.Before(cutoff) {
			continue
		}

		articles = append(articles, Article{
			ID:          recordID(s.Name(), item.Link),
			Title:       cleanGoogleNewsTitle(item.Title),
			Description: item.Description,
			URL:         item.Link,
			Source:      googleNewsPublisher(item),
			PublishedAt: publishedAt,
		})
	}

	return articles, nil
}

// cleanGoogleNewsTitle strips the " - Publisher" suffix Google News appends
// to every item title, so dedup compares the bare headline.
func cleanGoogleNewsTitle(title string) string {
	if idx := strings.LastIndex(title, " - "); idx > 0 {
		return title[:idx]
	}
	return title
}

func googleNewsPublisher(item *gofeed.Item) string {
	if ext, ok := item.Extensions["source"]; ok {
		if srcs, ok := ext["source"]; ok && len(srcs) > 0 && srcs[0].Value != "" {
			return srcs[0].Value
		}
	}
	if idx := strings.LastIndex(item.Title, " - "); idx > 0 {
		return strings.TrimSpace(item.Title[idx+3:])
	}
	return "googlenews"
}
