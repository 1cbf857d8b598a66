package database

import (
	"fmt"
)

// GenerationRepository records completed pipeline runs.
type GenerationRepository struct {
	db *DB
}

func NewGenerationRepository(db *DB) *GenerationRepository {
	return &GenerationRepository{db: db}
}

func (r *GenerationRepository) InsertGeneration(gen Generation) error {
	_, err := r.db.Exec(`
		INSERT INTO generations (id, user_id, topic, format, title, script_url, voiceover_url, visuals_url, degraded_stages)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, gen.ID, gen.UserID, gen.Topic, gen.Format, gen.Title,
		gen.ScriptURL, gen.VoiceoverURL, gen.VisualsURL, gen.DegradedStages)
	if err != nil {
		return fmt.Errorf("failed to insert generation: %w", err)
	}

	return nil
}
