package services

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mpetrovs/trove/internal/dbx"
	"github.com/mpetrovs/trove/internal/server/models"
	"github.com/mpetrovs/trove/internal/server/repositories/tokens"
	"github.com/mpetrovs/trove/internal/server/repositories/troves"
	"github.com/mpetrovs/trove/internal/server/repositories/users"
)

type fakeUsersRepo struct {
	createOut  *models.User
	createErr  error
	createSeen *models.User

	byEmailOut *models.User
	byEmailErr error

	byIDOut *models.User
	byIDErr error

	countOut int64
	countErr error

	listOut []*models.User
	listErr error

	deleteErr  error
	deletedIDs []int64
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	f.createSeen = u
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	u.ID = 1
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(_ context.Context, _ string) (*models.User, error) {
	return f.byEmailOut, f.byEmailErr
}

func (f *fakeUsersRepo) GetByID(_ context.Context, _ int64) (*models.User, error) {
	return f.byIDOut, f.byIDErr
}

func (f *fakeUsersRepo) CountByEmail(_ context.Context, _ string) (int64, error) {
	return f.countOut, f.countErr
}

func (f *fakeUsersRepo) List(_ context.Context) ([]*models.User, error) {
	return f.listOut, f.listErr
}

func (f *fakeUsersRepo) Delete(_ context.Context, id int64) error {
	f.deletedIDs = append(f.deletedIDs, id)
	return f.deleteErr
}

type fakeTokensRepo struct {
	// createErrs is consumed one per Create call; nil entries succeed.
	createErrs []error
	createSeen []*models.APIToken

	byValueOut *models.APIToken
	byValueErr error

	setRevokedErr error
	revokedIDs    []int64
}

func (f *fakeTokensRepo) Create(_ context.Context, t *models.APIToken) (*models.APIToken, error) {
	f.createSeen = append(f.createSeen, t)
	if len(f.createErrs) > 0 {
		err := f.createErrs[0]
		f.createErrs = f.createErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	t.ID = int64(len(f.createSeen))
	return t, nil
}

func (f *fakeTokensRepo) GetByValue(_ context.Context, _ string) (*models.APIToken, error) {
	return f.byValueOut, f.byValueErr
}

func (f *fakeTokensRepo) SetRevoked(_ context.Context, id int64) error {
	f.revokedIDs = append(f.revokedIDs, id)
	return f.setRevokedErr
}

type fakeTrovesRepo struct {
	createErr  error
	createSeen *models.Trove

	latestOut *models.Trove
	latestErr error
}

func (f *fakeTrovesRepo) Create(_ context.Context, t *models.Trove) (*models.Trove, error) {
	f.createSeen = t
	if f.createErr != nil {
		return nil, f.createErr
	}
	t.ID = 1
	return t, nil
}

func (f *fakeTrovesRepo) GetLatestByUser(_ context.Context, _ int64) (*models.Trove, error) {
	return f.latestOut, f.latestErr
}

type fakeRepoManager struct {
	users  *fakeUsersRepo
	tokens *fakeTokensRepo
	troves *fakeTrovesRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository             { return m.users }
func (m *fakeRepoManager) Tokens(dbx.DBTX) tokens.Repository           { return m.tokens }
func (m *fakeRepoManager) Troves(dbx.DBTX) troves.Repository           { return m.troves }

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		users:  &fakeUsersRepo{},
		tokens: &fakeTokensRepo{},
		troves: &fakeTrovesRepo{},
	}
}

// uniqueViolation mimics the error pgx surfaces when an INSERT hits a
// unique constraint.
func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
}

type fakeStorage struct {
	putURL string
	putErr error
	getURL string
	getErr error

	putKeys []string
	getKeys []string
}

func (f *fakeStorage) PresignPut(_ context.Context, key string) (string, error) {
	f.putKeys = append(f.putKeys, key)
	return f.putURL, f.putErr
}

func (f *fakeStorage) PresignGet(_ context.Context, key string) (string, error) {
	f.getKeys = append(f.getKeys, key)
	return f.getURL, f.getErr
}
