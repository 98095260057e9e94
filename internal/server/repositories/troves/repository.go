package troves

import (
	"context"

	"github.com/mpetrovs/trove/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, trove *models.Trove) (*models.Trove, error)
	GetLatestByUser(ctx context.Context, userID int64) (*models.Trove, error)
}
