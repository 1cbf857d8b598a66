package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/ovasilenko/reelcraft/app/database"
)

// PlaceholderURL is substituted when publishing an artifact fails; the
// pipeline never aborts over a persistence error.
const PlaceholderURL = "upload-failed"

// Orchestrator runs the six-stage generation pipeline. Stages execute
// strictly in order, none retries on its own, and every interior failure
// degrades instead of terminating the run.
type Orchestrator struct {
	Script    ScriptGenerator
	Voice     VoiceSynthesizer
	Footage   FootageFetcher
	Images    ImageGenerator
	Publisher Publisher
	Research  Researcher // optional

	Generations database.GenerationRepo // optional
	UserID      string

	FootageLimit int
	ImageLimit   int
}

func (o *Orchestrator) Run(ctx context.Context, req Request) (*Outcome, error) {
	if req.Topic == "" {
		return nil, fmt.Errorf("topic is required")
	}

	generationID := uuid.NewString()
	var degraded []string
	note := func(stage, reason string) {
		degraded = append(degraded, stage)
		slog.Warn("Pipeline stage degraded", "generation_id", generationID, "stage", stage, "reason", reason)
	}

	// Stage 1: script.
	script := o.runScript(ctx, req)
	if script.Degraded {
		note("script", script.Reason)
	}
	pkg := script.Value

	// Stage 2: voiceover.
	voice := o.runVoice(ctx, pkg.Script, req.Voice)
	if voice.Degraded {
		note("voice", voice.Reason)
	}

	// Stage 3: footage.
	footage := o.runFootage(ctx, pkg.BrollKeywords)
	if footage.Degraded {
		note("footage", footage.Reason)
	}

	// Stage 4: images.
	images := o.runImages(ctx, pkg.ImageConcepts)
	if images.Degraded {
		note("images", images.Reason)
	}

	// Stage 5: package.
	payloads := append(append([][]byte{}, footage.Value...), images.Value...)
	archive, assetNames, err := buildArchive(payloads, len(footage.Value))
	if err != nil {
		// Archiving is in-memory; a failure here means an empty bundle,
		// not a dead pipeline.
		note("package", err.Error())
		archive, assetNames = nil, []string{}
	}

	// Stage 6: publish.
	urls := o.runPublish(ctx, generationID, pkg, voice.Value, archive, note)

	outcome := &Outcome{
		GenerationID:   generationID,
		Titles:         pkg.Titles,
		Script:         pkg.Script,
		EditingGuide:   pkg.EditingGuide,
		VisualAssets:   assetNames,
		DegradedStages: degraded,
		URLs:           urls,
	}

	o.record(req, outcome)

	return outcome, nil
}

func (o *Orchestrator) runScript(ctx context.Context, req Request) StageResult[*ScriptPackage] {
	research := ""
	if o.Research != nil {
		text, err := o.Research.Research(ctx, req.Topic)
		if err != nil {
			slog.Warn("Topic research failed, continuing without sources", "topic", req.Topic, "error", err)
		} else {
			research = text
		}
	}

	raw, err := o.Script.Generate(ctx, buildScriptPrompt(req.Topic, req.Format, research))
	if err != nil {
		return Degraded(fallbackPackage(req.Topic), fmt.Sprintf("provider call failed: %v", err))
	}

	pkg, err := parseScriptResponse(raw)
	if err != nil {
		return Degraded(fallbackPackage(req.Topic), fmt.Sprintf("malformed response: %v", err))
	}

	return Ok(pkg)
}

func (o *Orchestrator) runVoice(ctx context.Context, script, voice string) StageResult[[]byte] {
	audio, err := o.Voice.Synthesize(ctx, script, voice)
	if err != nil {
		return Degraded[[]byte](nil, err.Error())
	}
	return Ok(audio)
}

func (o *Orchestrator) runFootage(ctx context.Context, keywords []string) StageResult[[][]byte] {
	clips, err := o.Footage.Fetch(ctx, keywords, o.FootageLimit)
	if err != nil {
		return Degraded[[][]byte](nil, err.Error())
	}
	return Ok(clips)
}

func (o *Orchestrator) runImages(ctx context.Context, concepts []string) StageResult[[][]byte] {
	imgs, err := o.Images.Generate(ctx, concepts, o.ImageLimit)
	if err != nil {
		return Degraded[[][]byte](nil, err.Error())
	}
	return Ok(imgs)
}

func (o *Orchestrator) runPublish(ctx context.Context, generationID string, pkg *ScriptPackage,
	audio, archive []byte, note func(stage, reason string)) DownloadURLs {

	urls := DownloadURLs{Script: PlaceholderURL, Voiceover: PlaceholderURL, Visuals: PlaceholderURL}
	failed := false

	if url, err := o.Publisher.Upload(ctx, generationID+"/script.txt", "text/plain; charset=utf-8", []byte(pkg.Script)); err == nil {
		urls.Script = url
	} else {
		failed = true
		slog.Warn("Script upload failed, substituting placeholder", "generation_id", generationID, "error", err)
	}

	if len(audio) > 0 {
		if url, err := o.Publisher.Upload(ctx, generationID+"/voiceover.mp3", "audio/mpeg", audio); err == nil {
			urls.Voiceover = url
		} else {
			failed = true
			slog.Warn("Voiceover upload failed, substituting placeholder", "generation_id", generationID, "error", err)
		}
	}

	if len(archive) > 0 {
		if url, err := o.Publisher.Upload(ctx, generationID+"/visuals.zip", "application/zip", archive); err == nil {
			urls.Visuals = url
		} else {
			failed = true
			slog.Warn("Archive upload failed, substituting placeholder", "generation_id", generationID, "error", err)
		}
	}

	if failed {
		note("publish", "one or more uploads failed")
	}

	return urls
}

func (o *Orchestrator) record(req Request, outcome *Outcome) {
	if o.Generations == nil {
		return
	}

	title := ""
	if len(outcome.Titles) > 0 {
		title = outcome.Titles[0]
	}

	err := o.Generations.InsertGeneration(database.Generation{
		ID:             outcome.GenerationID,
		UserID:         o.UserID,
		Topic:          req.Topic,
		Format:         req.Format,
		Title:          title,
		ScriptURL:      outcome.URLs.Script,
		VoiceoverURL:   outcome.URLs.Voiceover,
		VisualsURL:     outcome.URLs.Visuals,
		DegradedStages: strings.Join(outcome.DegradedStages, ","),
	})
	if err != nil {
		slog.Warn("Failed to record generation", "generation_id", outcome.GenerationID, "error", err)
	}
}
