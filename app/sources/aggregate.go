package sources

import (
	"context"
	"log/slog"
	"sort"
	"sync"
)

// DefaultSimilarityThreshold is the Jaccard score at or above which two
// article titles are considered duplicates.
const DefaultSimilarityThreshold = 0.8

// AggregateNews fans the request out to all sources concurrently and joins
// the outcomes with settle-all semantics: each source independently resolves
// to either records or a failure, and a failing source never cancels or
// fails its siblings. A total wipeout still yields Success=true with zero
// articles; only the caller's input can make an aggregation fail.
func AggregateNews(ctx context.Context, req NewsRequest, srcs []ArticleSource, maxArticles int) NewsResult {
	type outcome struct {
		index    int
		articles []Article
		err      error
		name     string
	}

	ch := make(chan outcome, len(srcs))
	var wg sync.WaitGroup

	for i, src := range srcs {
		wg.Add(1)
		go func(i int, src ArticleSource) {
			defer wg.Done()
			articles, err := src.Fetch(ctx, req)
			ch <- outcome{index: i, articles: articles, err: err, name: src.Name()}
		}(i, src)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	outcomes := make([]outcome, 0, len(srcs))
	for o := range ch {
		outcomes = append(outcomes, o)
	}

	// Re-establish invocation order; the concurrent join drops it.
	sort.Slice(outcomes, func(i, j int) bool {
		return outcomes[i].index < outcomes[j].index
	})

	var merged []Article
	sourcesUsed := 0
	for _, o := range outcomes {
		if o.err != nil {
			slog.Warn("News source failed, excluding from aggregate", "source", o.name, "error", o.err)
			continue
		}
		if len(o.articles) > 0 {
			sourcesUsed++
			merged = append(merged, o.articles...)
		}
	}

	articles := DedupeArticles(merged, DefaultSimilarityThreshold, maxArticles)
	if articles == nil {
		articles = []Article{}
	}

	return NewsResult{
		Success:      true,
		TotalResults: len(articles),
		SourcesUsed:  sourcesUsed,
		Articles:     articles,
		SearchParams: req,
	}
}

// AggregateAssets runs all image and video sources concurrently with the
// same settle-all join used for news.
func AggregateAssets(ctx context.Context, req AssetRequest, imgSrcs []ImageSource, vidSrcs []VideoSource) AssetResult {
	type imgOutcome struct {
		index  int
		images []ImageAsset
		err    error
		name   string
	}
	type vidOutcome struct {
		index  int
		videos []VideoAsset
		err    error
		name   string
	}

	imgCh := make(chan imgOutcome, len(imgSrcs))
	vidCh := make(chan vidOutcome, len(vidSrcs))
	var wg sync.WaitGroup

	for i, src := range imgSrcs {
		wg.Add(1)
		go func(i int, src ImageSource) {
			defer wg.Done()
			images, err := src.FetchImages(ctx, req)
			imgCh <- imgOutcome{index: i, images: images, err: err, name: src.Name()}
		}(i, src)
	}
	for i, src := range vidSrcs {
		wg.Add(1)
		go func(i int, src VideoSource) {
			defer wg.Done()
			videos, err := src.FetchVideos(ctx, req)
			vidCh <- vidOutcome{index: i, videos: videos, err: err, name: src.Name()}
		}(i, src)
	}

	go func() {
		wg.Wait()
		close(imgCh)
		close(vidCh)
	}()

	imgOutcomes := make([]imgOutcome, 0, len(imgSrcs))
	for o := range imgCh {
		imgOutcomes = append(imgOutcomes, o)
	}
	vidOutcomes := make([]vidOutcome, 0, len(vidSrcs))
	for o := range vidCh {
		vidOutcomes = append(vidOutcomes, o)
	}

	sort.Slice(imgOutcomes, func(i, j int) bool { return imgOutcomes[i].index < imgOutcomes[j].index })
	sort.Slice(vidOutcomes, func(i, j int) bool { return vidOutcomes[i].index < vidOutcomes[j].index })

	var mergedImages []ImageAsset
	for _, o := range imgOutcomes {
		if o.err != nil {
			slog.Warn("Image source failed, excluding from aggregate", "source", o.name, "error", o.err)
			continue
		}
		mergedImages = append(mergedImages, o.images...)
	}

	var mergedVideos []VideoAsset
	for _, o := range vidOutcomes {
		if o.err != nil {
			slog.Warn("Video source failed, excluding from aggregate", "source", o.name, "error", o.err)
			continue
		}
		mergedVideos = append(mergedVideos, o.videos...)
	}

	images := DedupeImages(mergedImages, req.ImageCount)
	if images == nil {
		images = []ImageAsset{}
	}
	videos := DedupeVideos(mergedVideos, req.VideoCount)
	if videos == nil {
		videos = []VideoAsset{}
	}

	return AssetResult{
		Success:      true,
		TotalImages:  len(images),
		TotalVideos:  len(videos),
		Images:       images,
		Videos:       videos,
		SearchParams: req,
	}
}
