package sources

import "context"

// ArticleSource fetches normalized articles from a single news provider.
// An adapter constructed without a credential reports itself disabled by
// returning no records and no error. A non-2xx upstream response surfaces
// as *ProviderError; the aggregator decides what to do with it.
type ArticleSource interface {
	Name() string
	Fetch(ctx context.Context, req NewsRequest) ([]Article, error)
}

// ImageSource fetches normalized stock images from a single provider.
type ImageSource interface {
	Name() string
	FetchImages(ctx context.Context, req AssetRequest) ([]ImageAsset, error)
}

// VideoSource fetches normalized stock videos from a single provider.
type VideoSource interface {
	Name() string
	FetchVideos(ctx context.Context, req AssetRequest) ([]VideoAsset, error)
}
