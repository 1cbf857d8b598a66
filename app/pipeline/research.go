package pipeline

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-shiori/go-readability"

	"github.com/ovasilenko/reelcraft/app/sources"
)

// maxResearchChars bounds the source context fed into the script prompt.
const maxResearchChars = 4000

// NewsResearcher grounds the script stage in current reporting: it
// aggregates news for the topic and extracts the top article's full text.
type NewsResearcher struct {
	client  *http.Client
	sources []sources.ArticleSource
}

func NewNewsResearcher(client *http.Client, srcs []sources.ArticleSource) *NewsResearcher {
	return &NewsResearcher{client: client, sources: srcs}
}

func (r *NewsResearcher) Research(ctx context.Context, topic string) (string, error) {
	result := sources.AggregateNews(ctx, sources.NewsRequest{Topic: topic, Days: 7, PerSourceLimit: 5}, r.sources, 5)
	if len(result.Articles) == 0 {
		return "", nil
	}

	var b strings.Builder
	for _, article := range result.Articles {
		fmt.Fprintf(&b, "Headline: %s (%s)\n", article.Title, article.Source)
	}

	// Full text of the top article only; headlines alone are enough for
	// the rest.
	if text, err := r.extract(ctx, result.Articles[0].URL); err == nil && text != "" {
		b.WriteString("\nTop article:\n")
		b.WriteString(text)
	}

	research := b.String()
	if len(research) > maxResearchChars {
		research = research[:maxResearchChars]
	}

	return research, nil
}

func (r *NewsResearcher) extract(ctx context.Context, articleURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, articleURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching article: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("article fetch returned HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return "", fmt.Errorf("reading article: %w", err)
	}

	article, err := readability.FromReader(strings.NewReader(string(data)), nil)
	if err != nil {
		return "", fmt.Errorf("failed to extract content: %w", err)
	}

	return strings.TrimSpace(article.TextContent), nil
}
