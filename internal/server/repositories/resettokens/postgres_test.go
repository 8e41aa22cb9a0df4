package resettokens

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dsmirnov/authd/internal/common"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

const (
	insertQ  = `(?s)^INSERT\s+INTO\s+password_reset_tokens\s*\(user_id,\s*token,\s*expires_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*$`
	consumeQ = `(?s)^DELETE\s+FROM\s+password_reset_tokens\s+WHERE\s+token\s*=\s*\$1\s+AND\s+expires_at\s*>\s*\$2\s+RETURNING\s+user_id\s*$`
	purgeQ   = `(?s)^DELETE\s+FROM\s+password_reset_tokens\s+WHERE\s+expires_at\s*<=\s*\$1\s*$`
)

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(insertQ).
		WithArgs(int64(7), "tok", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Create(context.Background(), 7, "tok", 24*time.Hour); err != nil {
		t.Fatalf("Create error: %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(insertQ).
		WithArgs(int64(7), "tok", sqlmock.AnyArg()).
		WillReturnError(errors.New("db down"))

	err := repo.Create(context.Background(), 7, "tok", 24*time.Hour)
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestConsume_Valid(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"user_id"}).AddRow(7)
	mock.ExpectQuery(consumeQ).
		WithArgs("tok", now).
		WillReturnRows(rows)

	userID, err := repo.Consume(context.Background(), "tok", now)
	if err != nil {
		t.Fatalf("Consume error: %v", err)
	}
	if userID != 7 {
		t.Fatalf("unexpected user id: %d", userID)
	}
}

func TestConsume_MissingOrExpired(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(consumeQ).
		WithArgs("gone", now).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Consume(context.Background(), "gone", now)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestPurgeExpired(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectExec(purgeQ).
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.PurgeExpired(context.Background(), now)
	if err != nil {
		t.Fatalf("PurgeExpired error: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 purged rows, got %d", n)
	}
}
