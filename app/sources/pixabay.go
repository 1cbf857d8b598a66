package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

var (
	pixabayPhotoBase = "https://pixabay.com/api/"
	pixabayVideoBase = "https://pixabay.com/api/videos/"
)

// PixabaySource serves stock photos and videos from Pixabay.
type PixabaySource struct {
	client *http.Client
	apiKey string
}

func NewPixabaySource(client *http.Client, apiKey string) *PixabaySource {
	return &PixabaySource{client: client, apiKey: apiKey}
}

func (s *PixabaySource) Name() string { return "pixabay" }

type pixabayPhotoResponse struct {
	Hits []struct {
		ID            int    `json:"id"`
		Tags          string `json:"tags"`
		PreviewURL    string `json:"previewURL"`
		LargeImageURL string `json:"largeImageURL"`
		ImageWidth    int    `json:"imageWidth"`
		ImageHeight   int    `json:"imageHeight"`
	} `json:"hits"`
}

type pixabayVideoResponse struct {
	Hits []struct {
		ID       int    `json:"id"`
		Tags     string `json:"tags"`
		Duration int    `json:"duration"`
		Videos   struct {
			Medium struct {
				URL       string `json:"url"`
				Width     int    `json:"width"`
				Height    int    `json:"height"`
				Thumbnail string `json:"thumbnail"`
			} `json:"medium"`
		} `json:"videos"`
	} `json:"hits"`
}

// pixabayOrientation maps the request orientation onto Pixabay's
// horizontal/vertical vocabulary.
func pixabayOrientation(orientation string) string {
	switch orientation {
	case "landscape":
		return "horizontal"
	case "portrait":
		return "vertical"
	default:
		return ""
	}
}

func (s *PixabaySource) FetchImages(ctx context.Context, req AssetRequest) ([]ImageAsset, error) {
	if s.apiKey == "" {
		return nil, nil
	}

	count := req.ImageCount
	if count <= 0 {
		count = 5
	}

	params := url.Values{}
	params.Set("key", s.apiKey)
	params.Set("q", req.Query())
	params.Set("image_type", "photo")
	params.Set("safesearch", "true")
	params.Set("per_page", strconv.Itoa(count))
	if o := pixabayOrientation(req.Orientation); o != "" {
		params.Set("orientation", o)
	}

	var parsed pixabayPhotoResponse
	if err := s.get(ctx, pixabayPhotoBase+"?"+params.Encode(), &parsed); err != nil {
		return nil, err
	}

	images := make([]ImageAsset, 0, len(parsed.Hits))
	for _, h := range parsed.Hits {
		if h.LargeImageURL == "" {
			continue
		}
		images = append(images, ImageAsset{
			ID:          fmt.Sprintf("pixabay-img-%d", h.ID),
			Description: h.Tags,
			Source:      s.Name(),
			PreviewURL:  h.PreviewURL,
			DownloadURL: h.LargeImageURL,
			Width:       h.ImageWidth,
			Height:      h.ImageHeight,
			Tags:        splitTags(h.Tags),
		})
	}

	return images, nil
}

func (s *PixabaySource) FetchVideos(ctx context.Context, req AssetRequest) ([]VideoAsset, error) {
	if s.apiKey == "" {
		return nil, nil
	}

	count := req.VideoCount
	if count <= 0 {
		count = 5
	}

	params := url.Values{}
	params.Set("key", s.apiKey)
	params.Set("q", req.Query())
	params.Set("safesearch", "true")
	params.Set("per_page", strconv.Itoa(count))

	var parsed pixabayVideoResponse
	if err := s.get(ctx, pixabayVideoBase+"?"+params.Encode(), &parsed); err != nil {
		return nil, err
	}

	videos := make([]VideoAsset, 0, len(parsed.Hits))
	for _, h := range parsed.Hits {
		if h.Videos.Medium.URL == "" {
			continue
		}
		videos = append(videos, VideoAsset{
			ID:          fmt.Sprintf("pixabay-vid-%d", h.ID),
			Description: h.Tags,
			Source:      s.Name(),
			PreviewURL:  h.Videos.Medium.Thumbnail,
			DownloadURL: h.Videos.Medium.URL,
			Width:       h.Videos.Medium.Width,
			Height:      h.Videos.Medium.Height,
			DurationSec: h.Duration,
			Tags:        splitTags(h.Tags),
		})
	}

	return videos, nil
}

func (s *PixabaySource) get(ctx context.Context, reqURL string, out any) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("pixabay request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &ProviderError{Provider: s.Name(), StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing pixabay response: %w", err)
	}

	return nil
}

func splitTags(tags string) []string {
	if tags == "" {
		return []string{}
	}
	parts := strings.Split(tags, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
