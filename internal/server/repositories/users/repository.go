package users

import (
	"context"

	"github.com/dpavlenko/cashcard/internal/server/models"
)

// Repository is the credential store: username to password-hash records.
type Repository interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Exists(ctx context.Context, username string) (bool, error)
	UpdatePassword(ctx context.Context, username string, passwordHash string) error
	Delete(ctx context.Context, username string) error
}
