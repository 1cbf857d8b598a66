package sources

import (
	"context"
	"errors"
	"testing"
	"time"
)

type mockArticleSource struct {
	name     string
	articles []Article
	err      error
}

func (m *mockArticleSource) Name() string { return m.name }

func (m *mockArticleSource) Fetch(_ context.Context, _ NewsRequest) ([]Article, error) {
	return m.articles, m.err
}

type mockImageSource struct {
	name   string
	images []ImageAsset
	err    error
}

func (m *mockImageSource) Name() string { return m.name }

func (m *mockImageSource) FetchImages(_ context.Context, _ AssetRequest) ([]ImageAsset, error) {
	return m.images, m.err
}

type mockVideoSource struct {
	name   string
	videos []VideoAsset
	err    error
}

func (m *mockVideoSource) Name() string { return m.name }

func (m *mockVideoSource) FetchVideos(_ context.Context, _ AssetRequest) ([]VideoAsset, error) {
	return m.videos, m.err
}

func TestAggregateNewsPartialFailure(t *testing.T) {
	base := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)
	srcs := []ArticleSource{
		&mockArticleSource{name: "good", articles: []Article{
			{ID: "1", Title: "supply chains adapt to new tariffs", PublishedAt: base},
		}},
		&mockArticleSource{name: "bad", err: errors.New("connection refused")},
	}

	result := AggregateNews(context.Background(), NewsRequest{Topic: "trade"}, srcs, 20)

	if !result.Success {
		t.Errorf("Expected partial failure to still report success")
	}
	if result.TotalResults != 1 {
		t.Errorf("Expected 1 article, got %d", result.TotalResults)
	}
	if result.SourcesUsed != 1 {
		t.Errorf("Expected 1 source used, got %d", result.SourcesUsed)
	}
}

func TestAggregateNewsTotalWipeout(t *testing.T) {
	srcs := []ArticleSource{
		&mockArticleSource{name: "one", err: errors.New("timeout")},
		&mockArticleSource{name: "two", err: errors.New("401 unauthorized")},
	}

	result := AggregateNews(context.Background(), NewsRequest{Topic: "energy"}, srcs, 20)

	if !result.Success {
		t.Errorf("Expected success even when every source fails")
	}
	if result.Articles == nil {
		t.Fatalf("Expected empty slice, got nil")
	}
	if len(result.Articles) != 0 {
		t.Errorf("Expected no articles, got %d", len(result.Articles))
	}
	if result.SourcesUsed != 0 {
		t.Errorf("Expected 0 sources used, got %d", result.SourcesUsed)
	}
}

func TestAggregateNewsEmptySourceNotCounted(t *testing.T) {
	srcs := []ArticleSource{
		&mockArticleSource{name: "empty"},
		&mockArticleSource{name: "full", articles: []Article{
			{ID: "1", Title: "rain forecast for the weekend", PublishedAt: time.Now()},
		}},
	}

	result := AggregateNews(context.Background(), NewsRequest{Topic: "weather"}, srcs, 20)

	if result.SourcesUsed != 1 {
		t.Errorf("A source returning zero records should not count as used, got %d", result.SourcesUsed)
	}
}

func TestAggregateNewsMergesInInvocationOrder(t *testing.T) {
	base := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)

	// Identical timestamps: the stable sort keeps the merge order, which
	// must follow the order the sources were invoked in.
	srcs := []ArticleSource{
		&mockArticleSource{name: "first", articles: []Article{
			{ID: "a", Title: "distinct headline about chess", PublishedAt: base},
		}},
		&mockArticleSource{name: "second", articles: []Article{
			{ID: "b", Title: "unrelated report on gardening", PublishedAt: base},
		}},
	}

	result := AggregateNews(context.Background(), NewsRequest{Topic: "hobbies"}, srcs, 20)

	if len(result.Articles) != 2 {
		t.Fatalf("Expected 2 articles, got %d", len(result.Articles))
	}
	if result.Articles[0].ID != "a" || result.Articles[1].ID != "b" {
		t.Errorf("Expected invocation order preserved, got %s then %s",
			result.Articles[0].ID, result.Articles[1].ID)
	}
}

func TestAggregateNewsDeduplicatesAcrossSources(t *testing.T) {
	base := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)
	srcs := []ArticleSource{
		&mockArticleSource{name: "first", articles: []Article{
			{ID: "a", Title: "Fed signals rate cut in September", PublishedAt: base},
		}},
		&mockArticleSource{name: "second", articles: []Article{
			{ID: "b", Title: "fed signals rate cut in september", PublishedAt: base.Add(time.Minute)},
		}},
	}

	result := AggregateNews(context.Background(), NewsRequest{Topic: "fed"}, srcs, 20)

	if result.TotalResults != 1 {
		t.Fatalf("Expected cross-source duplicate collapsed to 1, got %d", result.TotalResults)
	}
	if result.Articles[0].ID != "a" {
		t.Errorf("Expected first-seen record to win, got %s", result.Articles[0].ID)
	}
	if result.SourcesUsed != 2 {
		t.Errorf("Both sources contributed records, expected SourcesUsed=2, got %d", result.SourcesUsed)
	}
}

func TestAggregateAssetsPartialFailure(t *testing.T) {
	imgSrcs := []ImageSource{
		&mockImageSource{name: "good", images: []ImageAsset{
			{ID: "i1", DownloadURL: "https://cdn/1.jpg"},
		}},
		&mockImageSource{name: "bad", err: errors.New("429 too many requests")},
	}
	vidSrcs := []VideoSource{
		&mockVideoSource{name: "vids", videos: []VideoAsset{
			{ID: "v1", DownloadURL: "https://cdn/1.mp4"},
		}},
	}

	result := AggregateAssets(context.Background(), AssetRequest{Keywords: []string{"city"}}, imgSrcs, vidSrcs)

	if !result.Success {
		t.Errorf("Expected success despite a failing image source")
	}
	if result.TotalImages != 1 || result.TotalVideos != 1 {
		t.Errorf("Expected 1 image and 1 video, got %d and %d", result.TotalImages, result.TotalVideos)
	}
}

func TestAggregateAssetsCapsPerType(t *testing.T) {
	imgSrcs := []ImageSource{
		&mockImageSource{name: "imgs", images: []ImageAsset{
			{ID: "i1", DownloadURL: "https://cdn/1.jpg"},
			{ID: "i2", DownloadURL: "https://cdn/2.jpg"},
			{ID: "i3", DownloadURL: "https://cdn/3.jpg"},
		}},
	}

	req := AssetRequest{Keywords: []string{"city"}, ImageCount: 2}
	result := AggregateAssets(context.Background(), req, imgSrcs, nil)

	if result.TotalImages != 2 {
		t.Errorf("Expected image cap of 2, got %d", result.TotalImages)
	}
	if result.Videos == nil {
		t.Errorf("Expected empty video slice, got nil")
	}
}
