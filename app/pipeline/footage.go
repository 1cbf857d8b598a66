package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/ovasilenko/reelcraft/app/sources"
)

// maxClipBytes caps a single downloaded clip so one oversized rendition
// cannot blow up the archive.
const maxClipBytes = 25 << 20

// PexelsFootage fetches stock video payloads for the b-roll keywords using
// the caller's stored Pexels key.
type PexelsFootage struct {
	client *http.Client
	source *sources.PexelsSource
}

func NewPexelsFootage(client *http.Client, apiKey string) *PexelsFootage {
	return &PexelsFootage{
		client: client,
		source: sources.NewPexelsSource(client, apiKey),
	}
}

// Fetch searches one clip per keyword until limit payloads are collected.
// A failed search or download skips that keyword; the stage tolerates an
// empty result.
func (f *PexelsFootage) Fetch(ctx context.Context, keywords []string, limit int) ([][]byte, error) {
	if limit <= 0 {
		limit = 3
	}

	var payloads [][]byte
	for _, keyword := range keywords {
		if len(payloads) >= limit {
			break
		}

		videos, err := f.source.FetchVideos(ctx, sources.AssetRequest{
			Keywords:   []string{keyword},
			VideoCount: 1,
		})
		if err != nil {
			slog.Warn("Footage search failed, skipping keyword", "keyword", keyword, "error", err)
			continue
		}
		if len(videos) == 0 {
			continue
		}

		data, err := f.download(ctx, videos[0].DownloadURL)
		if err != nil {
			slog.Warn("Footage download failed, skipping keyword", "keyword", keyword, "error", err)
			continue
		}

		payloads = append(payloads, data)
	}

	return payloads, nil
}

func (f *PexelsFootage) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download returned HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxClipBytes))
	if err != nil {
		return nil, fmt.Errorf("reading download: %w", err)
	}

	return data, nil
}
