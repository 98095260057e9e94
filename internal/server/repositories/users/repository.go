package users

import (
	"context"

	"github.com/mpetrovs/trove/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	CountByEmail(ctx context.Context, email string) (int64, error)
	List(ctx context.Context) ([]*models.User, error)
	Delete(ctx context.Context, id int64) error
}
