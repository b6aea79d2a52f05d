package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brixxspace/brixxspace-api/internal/model"
)

func TestOtpRepo_DeleteThenInsert(t *testing.T) {
	db, mock := newMock(t)
	repo := NewOtpRepo(db)
	now := time.Now().UTC()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM otps WHERE email=?")).
		WithArgs("a@x.com").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`^INSERT INTO otps`).
		WithArgs("a@x.com", "123456", model.OTPSignup, now, now.Add(10*time.Minute)).
		WillReturnResult(sqlmock.NewResult(11, 1))

	ctx := context.Background()
	require.NoError(t, repo.DeleteByEmail(ctx, "a@x.com"))
	rec := &model.OtpRecord{Email: "a@x.com", Code: "123456", Purpose: model.OTPSignup, CreatedAt: now, ExpiresAt: now.Add(10 * time.Minute)}
	require.NoError(t, repo.Insert(ctx, rec))
	assert.Equal(t, uint64(11), rec.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOtpRepo_FindMatch(t *testing.T) {
	db, mock := newMock(t)
	repo := NewOtpRepo(db)
	now := time.Now().UTC()

	q := regexp.QuoteMeta("FROM otps WHERE email=? AND code=? ORDER BY id DESC LIMIT 1")
	mock.ExpectQuery(q).WithArgs("a@x.com", "123456").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "code", "purpose", "created_at", "expires_at"}).
			AddRow(4, "a@x.com", "123456", "signup", now, now.Add(time.Minute)))
	mock.ExpectQuery(q).WithArgs("a@x.com", "999999").WillReturnError(sql.ErrNoRows)

	rec, err := repo.FindMatch(context.Background(), "a@x.com", "123456")
	require.NoError(t, err)
	assert.Equal(t, uint64(4), rec.ID)
	assert.False(t, rec.Expired(now))

	_, err = repo.FindMatch(context.Background(), "a@x.com", "999999")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOtpRepo_DeleteByID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewOtpRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM otps WHERE id=?")).
		WithArgs(uint64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.DeleteByID(context.Background(), 4))
	require.NoError(t, mock.ExpectationsWereMet())
}
