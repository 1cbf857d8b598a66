package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

var huggingFaceBase = "https://api-inference.huggingface.co/models/stabilityai/stable-diffusion-xl-base-1.0"

// HuggingFaceImages generates image payloads through the Hugging Face
// inference API using the caller's stored key.
type HuggingFaceImages struct {
	client *http.Client
	apiKey string
}

func NewHuggingFaceImages(client *http.Client, apiKey string) *HuggingFaceImages {
	return &HuggingFaceImages{client: client, apiKey: apiKey}
}

// Generate produces one image per concept until limit payloads are
// collected. A failed concept is skipped; the stage tolerates an empty
// result.
func (g *HuggingFaceImages) Generate(ctx context.Context, concepts []string, limit int) ([][]byte, error) {
	if g.apiKey == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 3
	}

	var payloads [][]byte
	for _, concept := range concepts {
		if len(payloads) >= limit {
			break
		}

		data, err := g.generateOne(ctx, concept)
		if err != nil {
			slog.Warn("Image generation failed, skipping concept", "concept", concept, "error", err)
			continue
		}

		payloads = append(payloads, data)
	}

	return payloads, nil
}

func (g *HuggingFaceImages) generateOne(ctx context.Context, prompt string) ([]byte, error) {
	body, err := json.Marshal(map[string]string{"inputs": prompt})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, huggingFaceBase, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("inference request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("inference returned HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading image payload: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image payload")
	}

	return data, nil
}
