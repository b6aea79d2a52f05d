package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/brixxspace/brixxspace-api/internal/model"
)

// EnquiryRepo stores contact-form submissions.  Rows are append-only.
type EnquiryRepo struct {
	db *sql.DB
}

func NewEnquiryRepo(db *sql.DB) *EnquiryRepo {
	return &EnquiryRepo{db: db}
}

func (r *EnquiryRepo) Create(ctx context.Context, e *model.Enquiry) error {
	e.CreatedAt = time.Now().UTC().Truncate(time.Second)
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO enquiries (name, email, phone, message, created_at) VALUES (?, ?, ?, ?, ?)",
		e.Name, e.Email, e.Phone, e.Message, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert enquiry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	return nil
}

// List returns enquiries newest first.
func (r *EnquiryRepo) List(ctx context.Context) ([]model.Enquiry, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, email, phone, message, created_at FROM enquiries ORDER BY id DESC")
	if err != nil {
		return nil, fmt.Errorf("list enquiries: %w", err)
	}
	defer rows.Close()

	out := []model.Enquiry{}
	for rows.Next() {
		var e model.Enquiry
		if err := rows.Scan(&e.ID, &e.Name, &e.Email, &e.Phone, &e.Message, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan enquiry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
