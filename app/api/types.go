package api

import (
	"context"

	"github.com/ovasilenko/reelcraft/app/database"
	"github.com/ovasilenko/reelcraft/app/pipeline"
	"github.com/ovasilenko/reelcraft/app/probe"
	"github.com/ovasilenko/reelcraft/app/sources"
)

// GenerateFunc runs the content pipeline for an authenticated user. The
// handler owns request validation and credential lookup; the function owns
// everything downstream. Swappable so handler tests run without providers.
type GenerateFunc func(ctx context.Context, req pipeline.Request, creds map[string]string, userID string) (*pipeline.Outcome, error)

type Handler struct {
	newsSources  []sources.ArticleSource
	imageSources []sources.ImageSource
	videoSources []sources.VideoSource

	users       database.UserRepo
	credentials database.CredentialRepo

	tester   *probe.Tester
	generate GenerateFunc

	maxArticles int
}

// Request/response bodies for the JSON endpoints.

type assetSearchRequest struct {
	Keywords    []string `json:"keywords"`
	ImageCount  int      `json:"imageCount"`
	VideoCount  int      `json:"videoCount"`
	Orientation string   `json:"orientation"`
}

type generateRequest struct {
	Topic  string `json:"topic"`
	Format string `json:"format"`
	Voice  string `json:"voice"`
}

type generateResponse struct {
	GenerationID   string                `json:"generationId"`
	Titles         []string              `json:"titles"`
	Script         string                `json:"script"`
	EditingGuide   string                `json:"editingGuide"`
	VisualAssets   []string              `json:"visualAssets"`
	DegradedStages []string              `json:"degradedStages"`
	DownloadURLs   pipeline.DownloadURLs `json:"downloadUrls"`
}

type credentialTestRequest struct {
	Service string `json:"service"`
	APIKey  string `json:"apiKey"`
}

type credentialPutRequest struct {
	Service string `json:"service"`
	APIKey  string `json:"apiKey"`
}
