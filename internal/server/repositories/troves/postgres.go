package troves

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mpetrovs/trove/internal/common"
	"github.com/mpetrovs/trove/internal/dbx"
	"github.com/mpetrovs/trove/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create appends a new trove revision. Older rows are kept as history.
func (r *PostgresRepository) Create(ctx context.Context, trove *models.Trove) (*models.Trove, error) {

	query :=
		`INSERT INTO troves (trove_text, user_id)
         VALUES ($1, $2)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query, trove.Text, trove.UserID).
		Scan(&trove.ID, &trove.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return trove, nil
}

func (r *PostgresRepository) GetLatestByUser(ctx context.Context, userID int64) (*models.Trove, error) {
	query :=
		`SELECT id, trove_text, user_id, created_at FROM troves
		 WHERE user_id = $1
		 ORDER BY id DESC
		 LIMIT 1
		 `

	trove := &models.Trove{}
	err := r.db.QueryRowContext(ctx, query, userID).
		Scan(&trove.ID, &trove.Text, &trove.UserID, &trove.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return trove, nil
}
