package ports

import (
	"context"

	"github.com/brandscape/brandscape-api/internal/core/domain"
)

// AuthRepository defines persistence for credential records.
type AuthRepository interface {
	// Create inserts the user and returns it with its ID populated.
	// Returns domain.ErrEmailTaken when the email is already registered.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}
