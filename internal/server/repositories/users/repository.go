// Package users declares the repository contract for identity records.
package users

import (
	"context"

	"github.com/dsmirnov/authd/internal/server/models"
)

type Repository interface {
	// Create persists a new user. A username collision yields
	// common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByUsername returns the user with the given username or
	// common.ErrorNotFound.
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// UpdatePassword replaces the stored password hash and bumps updated_at.
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
}
