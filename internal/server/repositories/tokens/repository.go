package tokens

import (
	"context"

	"github.com/mpetrovs/trove/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, token *models.APIToken) (*models.APIToken, error)
	GetByValue(ctx context.Context, value string) (*models.APIToken, error)
	SetRevoked(ctx context.Context, id int64) error
}
