package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// StoragePublisher uploads artifacts to a Supabase-style storage API and
// constructs the public retrieval URL for each object.
type StoragePublisher struct {
	client     *http.Client
	projectURL string
	serviceKey string
	bucket     string
}

func NewStoragePublisher(client *http.Client, projectURL, serviceKey, bucket string) *StoragePublisher {
	return &StoragePublisher{
		client:     client,
		projectURL: projectURL,
		serviceKey: serviceKey,
		bucket:     bucket,
	}
}

func (p *StoragePublisher) Upload(ctx context.Context, name, contentType string, data []byte) (string, error) {
	if p.projectURL == "" || p.serviceKey == "" {
		return "", fmt.Errorf("storage is not configured")
	}

	uploadURL := fmt.Sprintf("%s/storage/v1/object/%s/%s",
		p.projectURL, url.PathEscape(p.bucket), url.PathEscape(name))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("creating upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+p.serviceKey)
	req.Header.Set("apikey", p.serviceKey)
	req.Header.Set("Cache-Control", "public, max-age=31536000")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("upload failed with status %d: %s", resp.StatusCode, string(body))
	}

	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", p.projectURL, p.bucket, name), nil
}
