package database

import (
	"path/filepath"
	"testing"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewConnection(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, _, err := RunMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return db
}

func insertUser(t *testing.T, db *DB, id, accessKey string) {
	t.Helper()
	if _, err := db.Exec(`INSERT INTO api_users (id, access_key) VALUES (?, ?)`, id, accessKey); err != nil {
		t.Fatalf("Failed to insert user: %v", err)
	}
}

func TestGetUserByAccessKey(t *testing.T) {
	db := newTestDB(t)
	insertUser(t, db, "user-1", "key-abc")

	repo := NewUserRepository(db)

	user, err := repo.GetUserByAccessKey("key-abc")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if user == nil {
		t.Fatalf("Expected user, got nil")
	}
	if user.ID != "user-1" || user.AccessKey != "key-abc" {
		t.Errorf("Unexpected user %+v", user)
	}
	if user.CreatedAt.IsZero() {
		t.Errorf("Expected created_at to be populated")
	}
}

func TestGetUserByAccessKeyUnknown(t *testing.T) {
	db := newTestDB(t)

	repo := NewUserRepository(db)

	user, err := repo.GetUserByAccessKey("no-such-key")
	if err != nil {
		t.Fatalf("Unknown key must not be an error, got %v", err)
	}
	if user != nil {
		t.Errorf("Expected nil user, got %+v", user)
	}
}

func TestCredentialUpsertAndGet(t *testing.T) {
	db := newTestDB(t)
	insertUser(t, db, "user-1", "key-abc")

	repo := NewCredentialRepository(db)

	if err := repo.UpsertCredential("user-1", "gemini", "first-key"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := repo.UpsertCredential("user-1", "openai", "openai-key"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	// Second upsert for the same service replaces the key.
	if err := repo.UpsertCredential("user-1", "gemini", "second-key"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	creds, err := repo.GetCredentials("user-1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(creds) != 2 {
		t.Fatalf("Expected 2 credentials, got %d: %v", len(creds), creds)
	}
	if creds["gemini"] != "second-key" {
		t.Errorf("Expected replaced key, got %q", creds["gemini"])
	}
	if creds["openai"] != "openai-key" {
		t.Errorf("Unexpected openai key %q", creds["openai"])
	}
}

func TestGetCredentialsEmpty(t *testing.T) {
	db := newTestDB(t)
	insertUser(t, db, "user-1", "key-abc")

	creds, err := NewCredentialRepository(db).GetCredentials("user-1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(creds) != 0 {
		t.Errorf("Expected empty map, got %v", creds)
	}
}

func TestInsertGeneration(t *testing.T) {
	db := newTestDB(t)
	insertUser(t, db, "user-1", "key-abc")

	repo := NewGenerationRepository(db)

	err := repo.InsertGeneration(Generation{
		ID:             "gen-1",
		UserID:         "user-1",
		Topic:          "vertical farming",
		Format:         "short-form",
		Title:          "The Rise of Vertical Farming",
		ScriptURL:      "https://storage/gen-1/script.txt",
		VoiceoverURL:   "https://storage/gen-1/voiceover.mp3",
		VisualsURL:     "https://storage/gen-1/visuals.zip",
		DegradedStages: "voice,publish",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var topic, degraded string
	err = db.QueryRow(`SELECT topic, degraded_stages FROM generations WHERE id = ?`, "gen-1").
		Scan(&topic, &degraded)
	if err != nil {
		t.Fatalf("Failed to read generation back: %v", err)
	}
	if topic != "vertical farming" || degraded != "voice,publish" {
		t.Errorf("Unexpected row: topic=%q degraded=%q", topic, degraded)
	}
}

func TestRunMigrationsIdempotent(t *testing.T) {
	db := newTestDB(t)

	version, dirty, err := RunMigrations(db)
	if err != nil {
		t.Fatalf("Second migration run must be a no-op: %v", err)
	}
	if dirty {
		t.Errorf("Expected clean migration state")
	}
	if version == 0 {
		t.Errorf("Expected a nonzero schema version")
	}
}
