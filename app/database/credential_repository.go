package database

import (
	"fmt"
)

// CredentialRepository handles database operations for per-user provider keys.
type CredentialRepository struct {
	db *DB
}

func NewCredentialRepository(db *DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

// GetCredentials returns all stored provider keys for the user, keyed by
// service name. An empty map means the user configured nothing.
func (r *CredentialRepository) GetCredentials(userID string) (map[string]string, error) {
	rows, err := r.db.Query(`
		SELECT service, api_key
		FROM user_credentials
		WHERE user_id = ?
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get credentials: %w", err)
	}
	defer rows.Close()

	creds := make(map[string]string)
	for rows.Next() {
		var service, apiKey string
		if err := rows.Scan(&service, &apiKey); err != nil {
			return nil, fmt.Errorf("failed to scan credential: %w", err)
		}
		creds[service] = apiKey
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate credentials: %w", err)
	}

	return creds, nil
}

// UpsertCredential inserts or replaces one provider key for the user.
func (r *CredentialRepository) UpsertCredential(userID, service, apiKey string) error {
	_, err := r.db.Exec(`
		INSERT INTO user_credentials (user_id, service, api_key, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (user_id, service) DO UPDATE SET
			api_key = excluded.api_key,
			updated_at = CURRENT_TIMESTAMP
	`, userID, service, apiKey)
	if err != nil {
		return fmt.Errorf("failed to upsert credential: %w", err)
	}

	return nil
}
