package postgres

import (
	"context"
	"database/sql"

	"clinicapi/internal/model"
	"clinicapi/internal/repository"
)

// UserPostgres is a PostgreSQL implementation of repository.UserRepository.
type UserPostgres struct {
	db *sql.DB
}

// NewUserPostgres creates a new UserPostgres repository.
func NewUserPostgres(db *sql.DB) *UserPostgres {
	return &UserPostgres{db: db}
}

var _ repository.UserRepository = (*UserPostgres)(nil)

// Create inserts a user row and returns the stored record.
func (r *UserPostgres) Create(ctx context.Context, u *model.User) (*model.User, error) {
	const q = `
		INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		RETURNING id, username, password_hash
	`
	var out model.User
	if err := r.db.QueryRowContext(ctx, q, u.Username, u.PasswordHash).
		Scan(&out.ID, &out.Username, &out.PasswordHash); err != nil {
		return nil, classify(err)
	}
	return &out, nil
}

// FindByUsername fetches a user by username.
func (r *UserPostgres) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	const q = `SELECT id, username, password_hash FROM users WHERE username = $1`
	var u model.User
	if err := r.db.QueryRowContext(ctx, q, username).Scan(&u.ID, &u.Username, &u.PasswordHash); err != nil {
		return nil, err
	}
	return &u, nil
}
