package database

import (
	"time"
)

type User struct {
	ID        string
	AccessKey string
	CreatedAt time.Time
}

// Credential is a per-user provider API key for the generation pipeline.
// Environment-level source credentials live in cfg, not here.
type Credential struct {
	UserID    string
	Service   string
	APIKey    string
	UpdatedAt time.Time
}

// Generation records one completed pipeline run.
type Generation struct {
	ID             string
	UserID         string
	Topic          string
	Format         string
	Title          string
	ScriptURL      string
	VoiceoverURL   string
	VisualsURL     string
	DegradedStages string // comma-separated stage names, empty when fully live
	CreatedAt      time.Time
}
