package tokens

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mpetrovs/trove/internal/common"
	"github.com/mpetrovs/trove/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+api_tokens\s*\(token,\s*user_id\)\s*VALUES\s*\(\$1,\s*\$2\)\s*RETURNING\s+id,\s*revoked,\s*created_at\s*$`
	rows := sqlmock.NewRows([]string{"id", "revoked", "created_at"}).AddRow(int64(3), false, time.Now())
	mock.ExpectQuery(q).WithArgs("abcdefghijklmnopqrstuvwxyz1234", int64(7)).WillReturnRows(rows)

	tok := &models.APIToken{Token: "abcdefghijklmnopqrstuvwxyz1234", UserID: 7}
	got, err := repo.Create(context.Background(), tok)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != 3 || got.Revoked {
		t.Fatalf("unexpected token: %+v", got)
	}
}

func TestCreate_UniqueViolationPassedThrough(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	cause := errors.New("duplicate key value violates unique constraint")
	mock.ExpectQuery(`INSERT\s+INTO\s+api_tokens`).WillReturnError(cause)

	_, err := repo.Create(context.Background(), &models.APIToken{Token: "x", UserID: 1})
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
}

func TestGetByValue_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*token,\s*user_id,\s*revoked,\s*created_at\s+FROM\s+api_tokens\s+WHERE\s+token\s*=\s*\$1\s*$`
	rows := sqlmock.NewRows([]string{"id", "token", "user_id", "revoked", "created_at"}).
		AddRow(int64(3), "sometoken", int64(7), true, time.Now())
	mock.ExpectQuery(q).WithArgs("sometoken").WillReturnRows(rows)

	got, err := repo.GetByValue(context.Background(), "sometoken")
	if err != nil {
		t.Fatalf("GetByValue error: %v", err)
	}
	if got.UserID != 7 || !got.Revoked {
		t.Fatalf("unexpected token: %+v", got)
	}
}

func TestGetByValue_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+.*\s+FROM\s+api_tokens`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByValue(context.Background(), "missing")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want common.ErrNotFound, got %v", err)
	}
}

func TestSetRevoked(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+api_tokens\s+SET\s+revoked\s*=\s*TRUE\s+WHERE\s+id\s*=\s*\$1\s*$`
	mock.ExpectExec(q).WithArgs(int64(3)).WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SetRevoked(context.Background(), 3); err != nil {
		t.Fatalf("SetRevoked error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
