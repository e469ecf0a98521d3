package users

import (
	"context"

	"github.com/golfcoachpro/backend/internal/server/models"
)

// Repository is the storage contract for accounts and their profiles.
// The profile belongs to the user aggregate, so both live here.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
	Delete(ctx context.Context, id int64) error

	CreateProfile(ctx context.Context, userID int64) error
	GetProfile(ctx context.Context, userID int64) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, profile *models.UserProfile) (*models.UserProfile, error)
}
