package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ovasilenko/reelcraft/app/database"
	"github.com/ovasilenko/reelcraft/app/pipeline"
	"github.com/ovasilenko/reelcraft/app/probe"
	"github.com/ovasilenko/reelcraft/app/sources"
)

func NewHandler(newsSources []sources.ArticleSource, imageSources []sources.ImageSource,
	videoSources []sources.VideoSource, users database.UserRepo,
	credentials database.CredentialRepo, tester *probe.Tester,
	generate GenerateFunc, maxArticles int) *Handler {
	return &Handler{
		newsSources:  newsSources,
		imageSources: imageSources,
		videoSources: videoSources,
		users:        users,
		credentials:  credentials,
		tester:       tester,
		generate:     generate,
		maxArticles:  maxArticles,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"timestamp":     time.Now().In(time.Local).Format(time.RFC3339),
		"news_sources":  len(h.newsSources),
		"image_sources": len(h.imageSources),
		"video_sources": len(h.videoSources),
	})
}

// GetNews aggregates articles for a topic across all configured news
// sources. Provider failures degrade the result; only a missing topic is
// the caller's error.
func (h *Handler) GetNews(c *gin.Context) {
	topic := strings.TrimSpace(c.Query("topic"))
	if topic == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Missing topic parameter"})
		return
	}

	days := 7
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid days parameter"})
			return
		}
		days = parsed
	}

	req := sources.NewsRequest{
		Topic:          topic,
		Category:       c.Query("category"),
		Days:           days,
		PerSourceLimit: 10,
	}

	result := sources.AggregateNews(c.Request.Context(), req, h.newsSources, h.maxArticles)
	c.JSON(http.StatusOK, result)
}

// SearchAssets aggregates stock images and videos for a keyword list.
func (h *Handler) SearchAssets(c *gin.Context) {
	var body assetSearchRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	keywords := make([]string, 0, len(body.Keywords))
	for _, kw := range body.Keywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	if len(keywords) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "At least one keyword is required"})
		return
	}

	req := sources.AssetRequest{
		Keywords:    keywords,
		ImageCount:  body.ImageCount,
		VideoCount:  body.VideoCount,
		Orientation: body.Orientation,
	}

	result := sources.AggregateAssets(c.Request.Context(), req, h.imageSources, h.videoSources)
	c.JSON(http.StatusOK, result)
}

// Generate runs the content pipeline for an authenticated caller using
// that caller's stored provider credentials.
func (h *Handler) Generate(c *gin.Context) {
	user := h.authenticate(c)
	if user == nil {
		return
	}

	var body generateRequest
	if err := c.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.Topic) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Topic is required"})
		return
	}

	creds, err := h.credentials.GetCredentials(user.ID)
	if err != nil {
		slog.Error("Database error", "operation", "get_credentials", "user", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if creds["gemini"] == "" || creds["openai"] == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Provider credentials are not configured"})
		return
	}

	outcome, err := h.generate(c.Request.Context(), pipeline.Request{
		Topic:  strings.TrimSpace(body.Topic),
		Format: body.Format,
		Voice:  body.Voice,
	}, creds, user.ID)
	if err != nil {
		slog.Error("Pipeline run failed", "user", user.ID, "topic", body.Topic, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Generation failed"})
		return
	}

	c.JSON(http.StatusOK, generateResponse{
		GenerationID:   outcome.GenerationID,
		Titles:         outcome.Titles,
		Script:         outcome.Script,
		EditingGuide:   outcome.EditingGuide,
		VisualAssets:   outcome.VisualAssets,
		DegradedStages: outcome.DegradedStages,
		DownloadURLs:   outcome.URLs,
	})
}

// TestCredential probes a provider with a caller-supplied key. The probe
// result is always a 200 response; failures are reported in the body.
func (h *Handler) TestCredential(c *gin.Context) {
	var body credentialTestRequest
	if err := c.ShouldBindJSON(&body); err != nil || body.Service == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Service and apiKey are required"})
		return
	}

	result := h.tester.Test(c.Request.Context(), body.Service, body.APIKey)
	c.JSON(http.StatusOK, result)
}

// PutCredential stores a provider key for the authenticated caller.
func (h *Handler) PutCredential(c *gin.Context) {
	user := h.authenticate(c)
	if user == nil {
		return
	}

	var body credentialPutRequest
	if err := c.ShouldBindJSON(&body); err != nil || body.Service == "" || body.APIKey == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Service and apiKey are required"})
		return
	}

	service := strings.ToLower(body.Service)
	if !allowedService(service) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown service: " + body.Service})
		return
	}

	if err := h.credentials.UpsertCredential(user.ID, service, body.APIKey); err != nil {
		slog.Error("Database error", "operation", "upsert_credential", "user", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// authenticate resolves the Authorization bearer token to a stored user.
// Writes the error response and returns nil when the identity is missing
// or unknown.
func (h *Handler) authenticate(c *gin.Context) *database.User {
	header := c.GetHeader("Authorization")
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if header == "" || token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing authorization"})
		return nil
	}

	user, err := h.users.GetUserByAccessKey(token)
	if err != nil {
		slog.Error("Database error", "operation", "get_user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return nil
	}
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization"})
		return nil
	}

	return user
}

func allowedService(service string) bool {
	switch service {
	case "gemini", "openai", "pexels", "pixabay", "huggingface":
		return true
	}
	return false
}
