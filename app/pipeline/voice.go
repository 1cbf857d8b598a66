package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/sashabaranov/go-openai"
)

// OpenAIVoice synthesizes the voiceover with the OpenAI TTS API using the
// caller's stored key.
type OpenAIVoice struct {
	client *openai.Client
}

func NewOpenAIVoice(apiKey string) *OpenAIVoice {
	return &OpenAIVoice{client: openai.NewClient(apiKey)}
}

func (v *OpenAIVoice) Synthesize(ctx context.Context, script, voice string) ([]byte, error) {
	req := openai.CreateSpeechRequest{
		Model:          openai.TTSModel1,
		Input:          script,
		Voice:          selectVoice(voice),
		ResponseFormat: openai.SpeechResponseFormatMp3,
	}

	resp, err := v.client.CreateSpeech(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to synthesize speech: %w", err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio stream: %w", err)
	}

	return audio, nil
}

func selectVoice(voice string) openai.SpeechVoice {
	switch voice {
	case "echo":
		return openai.VoiceEcho
	case "fable":
		return openai.VoiceFable
	case "onyx":
		return openai.VoiceOnyx
	case "nova":
		return openai.VoiceNova
	case "shimmer":
		return openai.VoiceShimmer
	default:
		return openai.VoiceAlloy
	}
}
