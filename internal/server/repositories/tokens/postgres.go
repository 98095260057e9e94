package tokens

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

func (r *PostgresRepository) Create(ctx context.Context, token *models.APIToken) (*models.APIToken, error) {

	query :=
		`INSERT INTO api_tokens (token, user_id)
         VALUES ($1, $2)
		 RETURNING id, revoked, created_at
		 `

	err := r.db.QueryRowContext(ctx, query, token.Token, token.UserID).
		Scan(&token.ID, &token.Revoked, &token.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return token, nil
}

func (r *PostgresRepository) GetByValue(ctx context.Context, value string) (*models.APIToken, error) {
	query :=
		`SELECT id, token, user_id, revoked, created_at FROM api_tokens
		 WHERE token = $1
		 `

	token := &models.APIToken{}
	err := r.db.QueryRowContext(ctx, query, value).
		Scan(&token.ID, &token.Token, &token.UserID, &token.Revoked, &token.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return token, nil
}

// SetRevoked flips the revoked flag to true. The flag never transitions
// back; revoking an already-revoked token is a no-op.
func (r *PostgresRepository) SetRevoked(ctx context.Context, id int64) error {
	query := `UPDATE api_tokens SET revoked = TRUE WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
