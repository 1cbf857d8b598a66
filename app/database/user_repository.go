package database

import (
	"database/sql"
	"fmt"
)

// UserRepository handles database operations for API users.
type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetUserByAccessKey resolves a caller identity credential. A missing user
// is (nil, nil), not an error; the handler maps it to 401.
func (r *UserRepository) GetUserByAccessKey(accessKey string) (*User, error) {
	var user User
	err := r.db.QueryRow(`
		SELECT id, access_key, created_at
		FROM api_users
		WHERE access_key = ?
	`, accessKey).Scan(&user.ID, &user.AccessKey, &user.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}
