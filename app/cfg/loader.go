package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Database configuration
	DBPath string `long:"db-path" env:"DB_PATH" default:"./reelcraft.db" description:"Path to the SQLite database file"`

	// News source credentials
	NewsAPIKey  string `long:"newsapi-key" env:"NEWSAPI_KEY" description:"NewsAPI.org API key (source disabled when empty)"`
	GNewsKey    string `long:"gnews-key" env:"GNEWS_KEY" description:"GNews API key (source disabled when empty)"`
	NewsDataKey string `long:"newsdata-key" env:"NEWSDATA_KEY" description:"NewsData.io API key (source disabled when empty)"`

	// Stock asset source credentials
	PexelsKey  string `long:"pexels-key" env:"PEXELS_KEY" description:"Pexels API key (source disabled when empty)"`
	PixabayKey string `long:"pixabay-key" env:"PIXABAY_KEY" description:"Pixabay API key (source disabled when empty)"`

	// Blob storage configuration
	StorageURL    string `long:"storage-url" env:"STORAGE_URL" description:"Blob storage project URL (e.g. https://xyz.supabase.co)"`
	StorageKey    string `long:"storage-key" env:"STORAGE_KEY" description:"Blob storage service key"`
	StorageBucket string `long:"storage-bucket" env:"STORAGE_BUCKET" default:"generations" description:"Blob storage bucket for generated assets"`

	// Application configuration
	Port           string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	BaseUrl        string `long:"base-url" env:"BASE_URL" description:"Public base URL for the service (e.g., https://api.reelcraft.app)"`
	RequestTimeout int    `long:"request-timeout" env:"REQUEST_TIMEOUT" default:"30" description:"Timeout for outbound provider calls in seconds"`
	MaxArticles    int    `long:"max-articles" env:"MAX_ARTICLES" default:"20" description:"Maximum number of articles returned by news aggregation"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"ReelCraft/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBPath:         raw.DBPath,
		NewsAPIKey:     raw.NewsAPIKey,
		GNewsKey:       raw.GNewsKey,
		NewsDataKey:    raw.NewsDataKey,
		PexelsKey:      raw.PexelsKey,
		PixabayKey:     raw.PixabayKey,
		StorageURL:     raw.StorageURL,
		StorageKey:     raw.StorageKey,
		StorageBucket:  raw.StorageBucket,
		Port:           raw.Port,
		BaseUrl:        raw.BaseUrl,
		RequestTimeout: time.Duration(raw.RequestTimeout) * time.Second,
		MaxArticles:    raw.MaxArticles,
		UserAgent:      raw.UserAgent,
		Timezone:       raw.Timezone,
		Debug:          raw.Debug,
		Version:        GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
