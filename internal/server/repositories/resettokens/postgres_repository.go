package resettokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dsmirnov/authd/internal/common"
	"github.com/dsmirnov/authd/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, userID int64, token string, validity time.Duration) error {

	query :=
		`INSERT INTO password_reset_tokens (user_id, token, expires_at)
         VALUES ($1, $2, $3)
         `

	_, err := r.db.ExecContext(ctx, query, userID, token, time.Now().Add(validity))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// Consume deletes the row only while it is unexpired, so a concurrent second
// consume of the same token sees zero rows and fails.
func (r *PostgresRepository) Consume(ctx context.Context, token string, now time.Time) (int64, error) {

	query :=
		`DELETE FROM password_reset_tokens
         WHERE token = $1 AND expires_at > $2
         RETURNING user_id
         `

	var userID int64
	err := r.db.QueryRowContext(ctx, query, token, now).Scan(&userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, common.ErrorNotFound
		}
		return 0, fmt.Errorf("db error: %w", err)
	}

	return userID, nil
}

func (r *PostgresRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {

	query :=
		`DELETE FROM password_reset_tokens
         WHERE expires_at <= $1
         `

	res, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return affected, nil
}
