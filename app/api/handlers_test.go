package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ovasilenko/reelcraft/app/database"
	"github.com/ovasilenko/reelcraft/app/pipeline"
	"github.com/ovasilenko/reelcraft/app/probe"
	"github.com/ovasilenko/reelcraft/app/sources"
)

type stubArticleSource struct {
	articles []sources.Article
	err      error
}

func (s *stubArticleSource) Name() string { return "stub" }

func (s *stubArticleSource) Fetch(_ context.Context, _ sources.NewsRequest) ([]sources.Article, error) {
	return s.articles, s.err
}

type stubImageSource struct {
	images []sources.ImageAsset
}

func (s *stubImageSource) Name() string { return "stub-img" }

func (s *stubImageSource) FetchImages(_ context.Context, _ sources.AssetRequest) ([]sources.ImageAsset, error) {
	return s.images, nil
}

type stubUserRepo struct {
	users map[string]*database.User
	err   error
}

func (r *stubUserRepo) GetUserByAccessKey(accessKey string) (*database.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.users[accessKey], nil
}

type stubCredentialRepo struct {
	creds    map[string]map[string]string
	upserted [][3]string
	err      error
}

func (r *stubCredentialRepo) GetCredentials(userID string) (map[string]string, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.creds[userID], nil
}

func (r *stubCredentialRepo) UpsertCredential(userID, service, apiKey string) error {
	if r.err != nil {
		return r.err
	}
	r.upserted = append(r.upserted, [3]string{userID, service, apiKey})
	return nil
}

func newTestHandler(t *testing.T) (*Handler, *stubCredentialRepo) {
	t.Helper()

	users := &stubUserRepo{users: map[string]*database.User{
		"valid-key": {ID: "user-1", AccessKey: "valid-key", CreatedAt: time.Now()},
	}}
	creds := &stubCredentialRepo{creds: map[string]map[string]string{
		"user-1": {"gemini": "g-key", "openai": "o-key"},
	}}

	newsSources := []sources.ArticleSource{&stubArticleSource{articles: []sources.Article{
		{ID: "1", Title: "sample headline", URL: "https://example.com/1", PublishedAt: time.Now()},
	}}}
	imageSources := []sources.ImageSource{&stubImageSource{images: []sources.ImageAsset{
		{ID: "i1", DownloadURL: "https://cdn/1.jpg"},
	}}}

	generate := func(_ context.Context, req pipeline.Request, _ map[string]string, userID string) (*pipeline.Outcome, error) {
		return &pipeline.Outcome{
			GenerationID:   "gen-123",
			Titles:         []string{"Title about " + req.Topic},
			Script:         "script body",
			EditingGuide:   "guide",
			VisualAssets:   []string{"clip_01.mp4"},
			DegradedStages: []string{},
			URLs: pipeline.DownloadURLs{
				Script:    "https://storage/gen-123/script.txt",
				Voiceover: "https://storage/gen-123/voiceover.mp3",
				Visuals:   "https://storage/gen-123/visuals.zip",
			},
		}, nil
	}

	handler := NewHandler(newsSources, imageSources, nil, users, creds,
		probe.NewTester(http.DefaultClient, probe.Registry{}), generate, 20)
	return handler, creds
}

func performRequest(handler *Handler, method, path string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	router := NewServer(handler)

	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var parsed map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &parsed); err != nil {
		t.Fatalf("Response is not JSON: %v\n%s", err, w.Body.String())
	}
	return parsed
}

func TestGetNewsMissingTopic(t *testing.T) {
	handler, _ := newTestHandler(t)

	w := performRequest(handler, http.MethodGet, "/news", nil, nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["error"] != "Missing topic parameter" {
		t.Errorf("Unexpected error %v", body["error"])
	}
}

func TestGetNewsInvalidDays(t *testing.T) {
	handler, _ := newTestHandler(t)

	w := performRequest(handler, http.MethodGet, "/news?topic=ai&days=zero", nil, nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", w.Code)
	}
}

func TestGetNewsAggregates(t *testing.T) {
	handler, _ := newTestHandler(t)

	w := performRequest(handler, http.MethodGet, "/news?topic=ai", nil, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["success"] != true {
		t.Errorf("Expected success, got %v", body)
	}
	if body["totalResults"] != float64(1) {
		t.Errorf("Expected 1 result, got %v", body["totalResults"])
	}
}

func TestGetNewsFailingSourceStillSucceeds(t *testing.T) {
	handler, _ := newTestHandler(t)
	handler.newsSources = []sources.ArticleSource{&stubArticleSource{err: errors.New("down")}}

	w := performRequest(handler, http.MethodGet, "/news?topic=ai", nil, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["success"] != true {
		t.Errorf("Provider failures must not fail the request, got %v", body)
	}
}

func TestSearchAssetsRequiresKeywords(t *testing.T) {
	handler, _ := newTestHandler(t)

	w := performRequest(handler, http.MethodPost, "/assets/search",
		[]byte(`{"keywords": ["  ", ""]}`), nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["error"] != "At least one keyword is required" {
		t.Errorf("Unexpected error %v", body["error"])
	}
}

func TestSearchAssetsAggregates(t *testing.T) {
	handler, _ := newTestHandler(t)

	w := performRequest(handler, http.MethodPost, "/assets/search",
		[]byte(`{"keywords": ["sunset"], "imageCount": 5}`), nil)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["totalImages"] != float64(1) {
		t.Errorf("Expected 1 image, got %v", body["totalImages"])
	}
	if body["totalVideos"] != float64(0) {
		t.Errorf("Expected 0 videos, got %v", body["totalVideos"])
	}
}

func TestGenerateRequiresAuthorization(t *testing.T) {
	handler, _ := newTestHandler(t)

	w := performRequest(handler, http.MethodPost, "/generate",
		[]byte(`{"topic": "ai"}`), nil)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["error"] != "Missing authorization" {
		t.Errorf("Unexpected error %v", body["error"])
	}
}

func TestGenerateRejectsUnknownToken(t *testing.T) {
	handler, _ := newTestHandler(t)

	w := performRequest(handler, http.MethodPost, "/generate",
		[]byte(`{"topic": "ai"}`), map[string]string{"Authorization": "Bearer wrong"})

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["error"] != "Invalid authorization" {
		t.Errorf("Unexpected error %v", body["error"])
	}
}

func TestGenerateRequiresTopic(t *testing.T) {
	handler, _ := newTestHandler(t)

	w := performRequest(handler, http.MethodPost, "/generate",
		[]byte(`{"topic": "  "}`), map[string]string{"Authorization": "Bearer valid-key"})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", w.Code)
	}
}

func TestGenerateRequiresStoredCredentials(t *testing.T) {
	handler, creds := newTestHandler(t)
	creds.creds["user-1"] = map[string]string{"gemini": "g-key"} // openai missing

	w := performRequest(handler, http.MethodPost, "/generate",
		[]byte(`{"topic": "ai"}`), map[string]string{"Authorization": "Bearer valid-key"})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["error"] != "Provider credentials are not configured" {
		t.Errorf("Unexpected error %v", body["error"])
	}
}

func TestGenerateReturnsOutcome(t *testing.T) {
	handler, _ := newTestHandler(t)

	w := performRequest(handler, http.MethodPost, "/generate",
		[]byte(`{"topic": "ai", "format": "educational"}`),
		map[string]string{"Authorization": "Bearer valid-key"})

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["generationId"] != "gen-123" {
		t.Errorf("Unexpected generation id %v", body["generationId"])
	}
	urls, ok := body["downloadUrls"].(map[string]any)
	if !ok {
		t.Fatalf("Expected downloadUrls object, got %v", body["downloadUrls"])
	}
	if urls["script"] != "https://storage/gen-123/script.txt" {
		t.Errorf("Unexpected script URL %v", urls["script"])
	}
}

func TestGeneratePipelineFailure(t *testing.T) {
	handler, _ := newTestHandler(t)
	handler.generate = func(_ context.Context, _ pipeline.Request, _ map[string]string, _ string) (*pipeline.Outcome, error) {
		return nil, errors.New("boom")
	}

	w := performRequest(handler, http.MethodPost, "/generate",
		[]byte(`{"topic": "ai"}`), map[string]string{"Authorization": "Bearer valid-key"})

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["error"] != "Generation failed" {
		t.Errorf("Unexpected error %v", body["error"])
	}
}

func TestTestCredentialRequiresService(t *testing.T) {
	handler, _ := newTestHandler(t)

	w := performRequest(handler, http.MethodPost, "/credentials/test",
		[]byte(`{"apiKey": "k"}`), nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", w.Code)
	}
}

func TestTestCredentialUnknownService(t *testing.T) {
	handler, _ := newTestHandler(t)

	w := performRequest(handler, http.MethodPost, "/credentials/test",
		[]byte(`{"service": "nonsense", "apiKey": "k"}`), nil)

	if w.Code != http.StatusOK {
		t.Fatalf("Probe outcomes always answer 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["success"] != false {
		t.Errorf("Expected probe failure, got %v", body)
	}
}

func TestPutCredentialStoresLowercasedService(t *testing.T) {
	handler, creds := newTestHandler(t)

	w := performRequest(handler, http.MethodPut, "/credentials",
		[]byte(`{"service": "Gemini", "apiKey": "new-key"}`),
		map[string]string{"Authorization": "Bearer valid-key"})

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if len(creds.upserted) != 1 {
		t.Fatalf("Expected 1 upsert, got %d", len(creds.upserted))
	}
	record := creds.upserted[0]
	if record[0] != "user-1" || record[1] != "gemini" || record[2] != "new-key" {
		t.Errorf("Unexpected upsert %v", record)
	}
}

func TestPutCredentialRejectsUnknownService(t *testing.T) {
	handler, _ := newTestHandler(t)

	w := performRequest(handler, http.MethodPut, "/credentials",
		[]byte(`{"service": "dropbox", "apiKey": "k"}`),
		map[string]string{"Authorization": "Bearer valid-key"})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", w.Code)
	}
}

func TestPutCredentialRequiresAuthorization(t *testing.T) {
	handler, _ := newTestHandler(t)

	w := performRequest(handler, http.MethodPut, "/credentials",
		[]byte(`{"service": "gemini", "apiKey": "k"}`), nil)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401, got %d", w.Code)
	}
}
