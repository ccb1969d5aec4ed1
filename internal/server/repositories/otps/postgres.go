package otps

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aleksvarts/classroom-auth/internal/common"
	"github.com/aleksvarts/classroom-auth/internal/dbx"
	"github.com/aleksvarts/classroom-auth/internal/server/models"
)

// PostgresRepository stores one-time codes in the otps table over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Save inserts a new code record.
func (r *PostgresRepository) Save(ctx context.Context, otp *models.OTP) error {
	query := `
		INSERT INTO otps (email, code, expires_at, used)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	if err := r.db.QueryRowContext(ctx, query, otp.Email, otp.Code, otp.ExpiresAt, otp.Used).
		Scan(&otp.ID); err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}
	return nil
}

// FindLatestByEmail returns the record with the highest expiry for the email.
func (r *PostgresRepository) FindLatestByEmail(ctx context.Context, email string) (*models.OTP, error) {
	query := `
		SELECT id, email, code, expires_at, used, created_at
		FROM otps
		WHERE email = $1
		ORDER BY expires_at DESC
		LIMIT 1
	`
	otp := &models.OTP{}
	if err := r.db.QueryRowContext(ctx, query, email).
		Scan(&otp.ID, &otp.Email, &otp.Code, &otp.ExpiresAt, &otp.Used, &otp.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return otp, nil
}

// MarkUsed is a compare-and-swap on the used flag. The WHERE clause makes
// the check-and-flip a single atomic statement: under concurrent redeems of
// the same code exactly one caller sees rows-affected 1.
func (r *PostgresRepository) MarkUsed(ctx context.Context, id int64) (bool, error) {
	query := `
		UPDATE otps
		SET used = TRUE
		WHERE id = $1 AND used = FALSE
	`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}

// DeleteExpired sweeps records past their expiry.
func (r *PostgresRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `
		DELETE FROM otps
		WHERE expires_at < $1
	`
	res, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
