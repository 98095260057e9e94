package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mpetrovs/trove/internal/common"
	"github.com/mpetrovs/trove/internal/server/filestore"
	"github.com/mpetrovs/trove/internal/server/models"
	"github.com/mpetrovs/trove/internal/server/repositories/repomanager"
)

// TroveService stores and retrieves per-user trove payloads. Writes append
// revisions; reads return the latest one. File attachments live in object
// storage under per-user key prefixes and are reached through presigned
// URLs.
type TroveService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	files       filestore.Storage
}

func NewTroveService(db *sql.DB, m repomanager.RepositoryManager, files filestore.Storage) *TroveService {
	return &TroveService{
		db:          db,
		repomanager: m,
		files:       files,
	}
}

// Save appends a new trove revision for the user.
func (s *TroveService) Save(ctx context.Context, userID int64, text string) (*models.Trove, error) {
	trove := &models.Trove{Text: text, UserID: userID}

	created, err := s.repomanager.Troves(s.db).Create(ctx, trove)
	if err != nil {
		return nil, fmt.Errorf("error saving trove: %w", err)
	}

	return created, nil
}

// Current returns the user's latest trove revision, or common.ErrNotFound
// if they have never saved one.
func (s *TroveService) Current(ctx context.Context, userID int64) (*models.Trove, error) {
	return s.repomanager.Troves(s.db).GetLatestByUser(ctx, userID)
}

// attachmentPrefix scopes object keys to one user. Key ownership checks
// rely on this prefix, so it must stay in sync with NewUploadURL.
func attachmentPrefix(userID int64) string {
	return fmt.Sprintf("users/%d/", userID)
}

// NewUploadURL allocates a fresh attachment key under the user's prefix and
// returns it with a presigned PUT URL.
func (s *TroveService) NewUploadURL(ctx context.Context, userID int64) (key string, url string, err error) {
	key = attachmentPrefix(userID) + uuid.New().String()

	url, err = s.files.PresignPut(ctx, key)
	if err != nil {
		return "", "", fmt.Errorf("error presigning upload: %w", err)
	}

	return key, url, nil
}

// DownloadURL returns a presigned GET URL for one of the user's attachment
// keys. A key outside the user's prefix yields common.ErrNotFound; whether
// the object exists elsewhere is not revealed.
func (s *TroveService) DownloadURL(ctx context.Context, userID int64, key string) (string, error) {
	if !strings.HasPrefix(key, attachmentPrefix(userID)) {
		return "", common.ErrNotFound
	}

	url, err := s.files.PresignGet(ctx, key)
	if err != nil {
		return "", fmt.Errorf("error presigning download: %w", err)
	}

	return url, nil
}
