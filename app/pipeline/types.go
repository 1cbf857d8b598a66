package pipeline

import "context"

// Request is one content-generation job as received from the API layer.
type Request struct {
	Topic  string
	Format string
	Voice  string
}

// ScriptPackage is the structured output of the script stage.
type ScriptPackage struct {
	Titles        []string
	Script        string
	BrollKeywords []string
	ImageConcepts []string
	EditingGuide  string
}

// DownloadURLs holds the public retrieval URL for each published artifact.
type DownloadURLs struct {
	Script    string `json:"script"`
	Voiceover string `json:"voiceover"`
	Visuals   string `json:"visuals"`
}

// Outcome is the terminal success state of a pipeline run.
type Outcome struct {
	GenerationID   string
	Titles         []string
	Script         string
	EditingGuide   string
	VisualAssets   []string
	DegradedStages []string
	URLs           DownloadURLs
}

// Collaborator contracts. Each stage talks to exactly one of these; real
// implementations live in this package, fakes in the tests.

type ScriptGenerator interface {
	// Generate returns the provider's raw delimiter-separated response.
	Generate(ctx context.Context, prompt string) (string, error)
}

type VoiceSynthesizer interface {
	Synthesize(ctx context.Context, script, voice string) ([]byte, error)
}

type FootageFetcher interface {
	// Fetch returns up to limit raw video payloads for the keywords.
	Fetch(ctx context.Context, keywords []string, limit int) ([][]byte, error)
}

type ImageGenerator interface {
	// Generate returns up to limit raw image payloads for the concepts.
	Generate(ctx context.Context, concepts []string, limit int) ([][]byte, error)
}

type Publisher interface {
	// Upload persists one artifact and returns its public retrieval URL.
	Upload(ctx context.Context, name, contentType string, data []byte) (string, error)
}

type Researcher interface {
	// Research returns source context for the topic; empty string when
	// nothing useful was found.
	Research(ctx context.Context, topic string) (string, error)
}
