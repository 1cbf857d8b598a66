package cfg

import "time"

type Cfg struct {
	// Database configuration
	DBPath string

	// News source credentials (an empty key disables the source)
	NewsAPIKey  string
	GNewsKey    string
	NewsDataKey string

	// Stock asset source credentials
	PexelsKey  string
	PixabayKey string

	// Blob storage configuration
	StorageURL    string
	StorageKey    string
	StorageBucket string

	// Application configuration
	Port           string
	BaseUrl        string
	RequestTimeout time.Duration
	MaxArticles    int

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
