package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

var (
	pexelsPhotoBase = "https://api.pexels.com/v1/search"
	pexelsVideoBase = "https://api.pexels.com/videos/search"
)

// PexelsSource serves both stock photos and stock videos from Pexels.
type PexelsSource struct {
	client *http.Client
	apiKey string
}

func NewPexelsSource(client *http.Client, apiKey string) *PexelsSource {
	return &PexelsSource{client: client, apiKey: apiKey}
}

func (s *PexelsSource) Name() string { return "pexels" }

type pexelsPhotoResponse struct {
	Photos []struct {
		ID     int    `json:"id"`
		Width  int    `json:"width"`
		Height int    `json:"height"`
		Alt    string `json:"alt"`
		Src    struct {
			Original string `json:"original"`
			Medium   string `json:"medium"`
		} `json:"src"`
	} `json:"photos"`
}

type pexelsVideoResponse struct {
	Videos []struct {
		ID       int    `json:"id"`
		Width    int    `json:"width"`
		Height   int    `json:"height"`
		Duration int    `json:"duration"`
		Image    string `json:"image"`
		URL      string `json:"url"`
		Files    []struct {
			Link    string `json:"link"`
			Width   int    `json:"width"`
			Height  int    `json:"height"`
			Quality string `json:"quality"`
		} `json:"video_files"`
	} `json:"videos"`
}

func (s *PexelsSource) FetchImages(ctx context.Context, req AssetRequest) ([]ImageAsset, error) {
	if s.apiKey == "" {
		return nil, nil
	}

	count := req.ImageCount
	if count <= 0 {
		count = 5
	}

	params := url.Values{}
	params.Set("query", req.Query())
	params.Set("per_page", strconv.Itoa(count))
	if req.Orientation != "" {
		params.Set("orientation", req.Orientation)
	}

	var parsed pexelsPhotoResponse
	if err := s.get(ctx, pexelsPhotoBase+"?"+params.Encode(), &parsed); err != nil {
		return nil, err
	}

	images := make([]ImageAsset, 0, len(parsed.Photos))
	for _, p := range parsed.Photos {
		if p.Src.Original == "" {
			continue
		}
		images = append(images, ImageAsset{
			ID:          fmt.Sprintf("pexels-img-%d", p.ID),
			Description: p.Alt,
			Source:      s.Name(),
			PreviewURL:  p.Src.Medium,
			DownloadURL: p.Src.Original,
			Width:       p.Width,
			Height:      p.Height,
			Tags:        []string{},
		})
	}

	return images, nil
}

func (s *PexelsSource) FetchVideos(ctx context.Context, req AssetRequest) ([]VideoAsset, error) {
	if s.apiKey == "" {
		return nil, nil
	}

	count := req.VideoCount
	if count <= 0 {
		count = 5
	}

	params := url.Values{}
	params.Set("query", req.Query())
	params.Set("per_page", strconv.Itoa(count))
	if req.Orientation != "" {
		params.Set("orientation", req.Orientation)
	}

	var parsed pexelsVideoResponse
	if err := s.get(ctx, pexelsVideoBase+"?"+params.Encode(), &parsed); err != nil {
		return nil, err
	}

	videos := make([]VideoAsset, 0, len(parsed.Videos))
	for _, v := range parsed.Videos {
		download := bestPexelsFile(v.Files)
		if download == "" {
			continue
		}
		videos = append(videos, VideoAsset{
			ID:          fmt.Sprintf("pexels-vid-%d", v.ID),
			Description: v.URL,
			Source:      s.Name(),
			PreviewURL:  v.Image,
			DownloadURL: download,
			Width:       v.Width,
			Height:      v.Height,
			DurationSec: v.Duration,
			Tags:        []string{},
		})
	}

	return videos, nil
}

func (s *PexelsSource) get(ctx context.Context, reqURL string, out any) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Authorization", s.apiKey)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("pexels request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &ProviderError{Provider: s.Name(), StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing pexels response: %w", err)
	}

	return nil
}

// bestPexelsFile prefers the HD rendition, falling back to the first file.
func bestPexelsFile(files []struct {
	Link    string `json:"link"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Quality string `json:"quality"`
}) string {
	for _, f := range files {
		if f.Quality == "hd" && f.Link != "" {
			return f.Link
		}
	}
	for _, f := range files {
		if f.Link != "" {
			return f.Link
		}
	}
	return ""
}
