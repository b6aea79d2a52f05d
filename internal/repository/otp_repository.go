package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/brixxspace/brixxspace-api/internal/model"
)

// OtpRepo persists one-time codes.  Issuance is delete-then-insert without
// a transaction, so two concurrent issuances for one email may leave two
// rows; FindMatch still only accepts exact {email, code} pairs.
type OtpRepo struct{ DB *sql.DB }

func NewOtpRepo(db *sql.DB) *OtpRepo { return &OtpRepo{DB: db} }

// DeleteByEmail removes every code issued for email.
func (r *OtpRepo) DeleteByEmail(ctx context.Context, email string) error {
	if _, err := r.DB.ExecContext(ctx, "DELETE FROM otps WHERE email=?", email); err != nil {
		return fmt.Errorf("delete otps: %w", err)
	}
	return nil
}

// Insert stores o and fills its ID.
func (r *OtpRepo) Insert(ctx context.Context, o *model.OtpRecord) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO otps (email, code, purpose, created_at, expires_at) VALUES (?,?,?,?,?)",
		o.Email, o.Code, o.Purpose, o.CreatedAt, o.ExpiresAt)
	if err != nil {
		return fmt.Errorf("insert otp: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	o.ID = uint64(id)
	return nil
}

// DeleteByID removes a single record.
func (r *OtpRepo) DeleteByID(ctx context.Context, id uint64) error {
	if _, err := r.DB.ExecContext(ctx, "DELETE FROM otps WHERE id=?", id); err != nil {
		return fmt.Errorf("delete otp: %w", err)
	}
	return nil
}

// FindMatch returns the newest record with exactly this email and code.
// Expiry is left to the caller.
func (r *OtpRepo) FindMatch(ctx context.Context, email, code string) (model.OtpRecord, error) {
	var o model.OtpRecord
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, email, code, purpose, created_at, expires_at FROM otps WHERE email=? AND code=? ORDER BY id DESC LIMIT 1",
		email, code).Scan(&o.ID, &o.Email, &o.Code, &o.Purpose, &o.CreatedAt, &o.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.OtpRecord{}, ErrNotFound
		}
		return model.OtpRecord{}, fmt.Errorf("find otp: %w", err)
	}
	return o, nil
}
