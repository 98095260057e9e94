// Package services contains server-side business logic. This file implements
// UserService: account registration, API token issuance (login), token
// resolution for the authentication gate, token revocation, and account
// deletion.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mpetrovs/trove/internal/common"
	"github.com/mpetrovs/trove/internal/server/auth"
	"github.com/mpetrovs/trove/internal/server/config"
	"github.com/mpetrovs/trove/internal/server/models"
	"github.com/mpetrovs/trove/internal/server/repositories/repomanager"
)

// maxTokenAttempts bounds the regenerate-on-collision loop during issuance.
const maxTokenAttempts = 3

// RegisterInput carries the fields of a registration request.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// UserService provides authentication-related operations:
//   - Register: create accounts
//   - Login: verify credentials and issue an API token
//   - Authenticate: resolve a presented bearer credential to its user
//   - Revoke: permanently invalidate a token
//   - DeleteAccount: remove a user and, by cascade, their tokens and troves
type UserService struct {
	db             *sql.DB
	repomanager    repomanager.RepositoryManager
	hasher         *auth.Hasher
	verifyNewUsers bool
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher *auth.Hasher, cfg *config.Config) *UserService {
	return &UserService{
		db:             db,
		repomanager:    m,
		hasher:         hasher,
		verifyNewUsers: cfg.VerifyNewUsers,
	}
}

// Register creates a new user with a freshly hashed password and default
// account flags. A taken email yields common.ErrDuplicateEmail, both on the
// pre-insert count and, should a concurrent registration win the race, on
// the unique constraint of the insert itself.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", common.ErrValidation)
	}
	if in.Password == "" {
		return nil, fmt.Errorf("%w: password is required", common.ErrValidation)
	}

	repo := s.repomanager.Users(s.db)

	count, err := repo.CountByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("error checking email uniqueness: %w", err)
	}
	if count > 0 {
		return nil, common.ErrDuplicateEmail
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        email,
		PasswordHash: hash,
		Verified:     s.verifyNewUsers,
	}

	created, err := repo.Create(ctx, user)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return created, nil
}

// Login verifies the email/password pair and, on success, issues a new API
// token and returns its raw value. An unknown email and a wrong password
// fail identically with common.ErrUnauthorized. A stored hash that cannot
// be parsed surfaces as common.ErrHashFormat, never as a credential
// failure.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrUnauthorized
		}
		return "", fmt.Errorf("error searching user: %w", err)
	}

	ok, err := s.hasher.Verify(user.PasswordHash, password)
	if err != nil {
		return "", fmt.Errorf("error verifying password for user %d: %w", user.ID, err)
	}
	if !ok {
		return "", common.ErrUnauthorized
	}

	return s.issueToken(ctx, user.ID)
}

// issueToken generates a token value and persists it, regenerating on a
// value collision up to maxTokenAttempts times.
func (s *UserService) issueToken(ctx context.Context, userID int64) (string, error) {
	repo := s.repomanager.Tokens(s.db)

	for attempt := 0; attempt < maxTokenAttempts; attempt++ {
		value, err := auth.GenerateToken()
		if err != nil {
			return "", fmt.Errorf("error generating token: %w", err)
		}

		_, err = repo.Create(ctx, &models.APIToken{Token: value, UserID: userID})
		if err == nil {
			return value, nil
		}
		if !isUniqueViolation(err) {
			return "", fmt.Errorf("error storing token: %w", err)
		}
	}

	return "", common.ErrTokenGeneration
}

// Authenticate resolves a presented bearer credential to its owning user.
// The distinct failure causes (malformed credential, unknown value, revoked
// token, missing owner) exist for logging and tests; callers at the
// protocol boundary must collapse all of them into one uniform
// authentication error. This is a pure read path with no side effects.
func (s *UserService) Authenticate(ctx context.Context, credential string) (*models.User, error) {
	raw, err := auth.DecodeBearer(credential)
	if err != nil {
		return nil, err
	}

	token, err := s.repomanager.Tokens(s.db).GetByValue(ctx, raw)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrTokenUnknown
		}
		return nil, fmt.Errorf("error searching token: %w", err)
	}

	if token.Revoked {
		return nil, common.ErrTokenRevoked
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrOrphanToken
		}
		return nil, fmt.Errorf("error resolving token owner: %w", err)
	}

	return user, nil
}

// Revoke invalidates the token behind the presented credential. It is
// idempotent at the protocol boundary: a malformed credential, an unknown
// value, and an already-revoked token all report success, so the endpoint
// cannot be used to probe token validity. Only store failures are errors.
func (s *UserService) Revoke(ctx context.Context, credential string) error {
	raw, err := auth.DecodeBearer(credential)
	if err != nil {
		return nil
	}

	repo := s.repomanager.Tokens(s.db)

	token, err := repo.GetByValue(ctx, raw)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("error searching token: %w", err)
	}

	if err := repo.SetRevoked(ctx, token.ID); err != nil {
		return fmt.Errorf("error revoking token: %w", err)
	}

	return nil
}

// DeleteAccount removes the user row. Tokens and troves go with it via
// ON DELETE CASCADE, so a deleted account cannot authenticate again.
func (s *UserService) DeleteAccount(ctx context.Context, userID int64) error {
	if err := s.repomanager.Users(s.db).Delete(ctx, userID); err != nil {
		return fmt.Errorf("error deleting user: %w", err)
	}
	return nil
}

// GetUser returns a single user by id.
func (s *UserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, id)
}

// ListUsers returns all users.
func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.repomanager.Users(s.db).List(ctx)
}

// isUniqueViolation reports whether err is a PostgreSQL unique-constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
