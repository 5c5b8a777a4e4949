package users

import (
	"context"

	"github.com/dmitrijs2005/usersapi/internal/server/models"
)

// Repository stores accounts. Lookups return common.ErrorNotFound when no row
// matches; Create returns common.ErrorAlreadyExists on a duplicate email.
type Repository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id string, passHash string) error
	SetActive(ctx context.Context, id string, active bool) error
	List(ctx context.Context, limit int) ([]*models.User, error)
	Delete(ctx context.Context, id string) error
}
