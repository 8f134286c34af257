package repository

import (
	"context"

	"clinicapi/internal/model"
)

// UserRepository defines data access for operator accounts.
type UserRepository interface {
	// Create inserts a user. A taken username yields ErrDuplicateUsername.
	Create(ctx context.Context, u *model.User) (*model.User, error)

	FindByUsername(ctx context.Context, username string) (*model.User, error)
}
