package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Section delimiters the script prompt demands from the model. The parser
// rejects any response missing one of them.
const (
	sectionTitles = "===TITLES==="
	sectionScript = "===SCRIPT==="
	sectionBroll  = "===BROLL==="
	sectionImages = "===IMAGES==="
	sectionGuide  = "===GUIDE==="
)

const scriptPromptTemplate = `You are a professional short-form video scriptwriter. Create a complete %s video package about "%s".

%sRespond with EXACTLY the following five sections, in this order, each introduced by its delimiter line. Do not add any other text.

===TITLES===
Three alternative video titles, one per line. Punchy, under 60 characters each.

===SCRIPT===
The full voiceover script. Conversational, 130-160 words, hook in the first sentence, no camera directions, no markdown.

===BROLL===
Five stock-footage search keywords, one per line. Two words maximum each, concrete and visual.

===IMAGES===
Three image generation concepts, one per line. Each a full photorealistic scene description.

===GUIDE===
A short editing guide: pacing, where each b-roll clip and image belongs in the script, and a closing note on music mood.`

// buildScriptPrompt assembles the fixed structured prompt, optionally
// grounding it in researched source material.
func buildScriptPrompt(topic, format, research string) string {
	if format == "" {
		format = "short-form"
	}

	sourceBlock := ""
	if research != "" {
		sourceBlock = fmt.Sprintf("Use the following source material for factual grounding:\n%s\n\n", research)
	}

	return fmt.Sprintf(scriptPromptTemplate, format, topic, sourceBlock)
}

// parseScriptResponse splits the delimiter-separated model output into a
// ScriptPackage. Every section must be present and non-empty.
func parseScriptResponse(raw string) (*ScriptPackage, error) {
	sections := map[string]string{}
	order := []string{sectionTitles, sectionScript, sectionBroll, sectionImages, sectionGuide}

	for i, delim := range order {
		start := strings.Index(raw, delim)
		if start < 0 {
			return nil, fmt.Errorf("missing section %s", delim)
		}
		start += len(delim)

		end := len(raw)
		if i+1 < len(order) {
			if next := strings.Index(raw, order[i+1]); next > start {
				end = next
			}
		}

		sections[delim] = strings.TrimSpace(raw[start:end])
	}

	pkg := &ScriptPackage{
		Titles:        splitLines(sections[sectionTitles]),
		Script:        sections[sectionScript],
		BrollKeywords: splitLines(sections[sectionBroll]),
		ImageConcepts: splitLines(sections[sectionImages]),
		EditingGuide:  sections[sectionGuide],
	}

	if len(pkg.Titles) == 0 || pkg.Script == "" || len(pkg.BrollKeywords) == 0 ||
		len(pkg.ImageConcepts) == 0 || pkg.EditingGuide == "" {
		return nil, fmt.Errorf("response has empty sections")
	}

	return pkg, nil
}

func splitLines(block string) []string {
	var lines []string
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "-"))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// fallbackPackage is the fixed canned script package substituted when the
// text-generation provider fails or returns a malformed response.
// Generation never hard-fails because of upstream flakiness at this stage.
func fallbackPackage(topic string) *ScriptPackage {
	return &ScriptPackage{
		Titles: []string{
			fmt.Sprintf("%s: What You Need to Know", topic),
			fmt.Sprintf("The Truth About %s", topic),
			fmt.Sprintf("%s Explained in 60 Seconds", topic),
		},
		Script: fmt.Sprintf("Today we're talking about %s. It's a topic more people should understand, "+
			"and in the next minute you'll know the essentials. Let's start with what it actually is, "+
			"why it matters right now, and what's likely to happen next. Stick around to the end for "+
			"the one thing most coverage gets wrong. If you found this useful, follow for more.", topic),
		BrollKeywords: []string{topic, "city skyline", "people walking", "typing laptop", "news studio"},
		ImageConcepts: []string{
			fmt.Sprintf("A photorealistic editorial illustration representing %s, dramatic lighting, 4K", topic),
			fmt.Sprintf("A wide-angle photo of a crowd reacting to news about %s, natural light", topic),
			fmt.Sprintf("A close-up conceptual photo symbolizing %s, shallow depth of field", topic),
		},
		EditingGuide: "Fast cuts every 2-3 seconds. Open on the strongest b-roll clip, overlay the hook " +
			"as a caption. Alternate footage and images at each beat of the script. Neutral, mid-tempo " +
			"background music; duck it under the voiceover.",
	}
}

// GeminiScriptWriter generates scripts with the Gemini API using the
// caller's stored key.
type GeminiScriptWriter struct {
	apiKey string
	model  string
}

func NewGeminiScriptWriter(apiKey string) *GeminiScriptWriter {
	return &GeminiScriptWriter{apiKey: apiKey, model: "gemini-2.0-flash"}
}

func (g *GeminiScriptWriter) Generate(ctx context.Context, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(g.model)
	model.SetTemperature(0.7)
	model.SetTopK(40)
	model.SetTopP(0.8)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content returned, possible safety filter: %+v", resp)
	}

	textPart, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("expected text part in response, got: %+v", resp.Candidates[0].Content.Parts[0])
	}

	return string(textPart), nil
}
