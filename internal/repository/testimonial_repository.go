package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/brixxspace/brixxspace-api/internal/model"
)

type TestimonialRepo struct {
	db *sql.DB
}

func NewTestimonialRepo(db *sql.DB) *TestimonialRepo {
	return &TestimonialRepo{db: db}
}

const testimonialColumns = "id, client_name, company, quote, rating, avatar, created_at, updated_at"

func (r *TestimonialRepo) List(ctx context.Context) ([]model.Testimonial, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+testimonialColumns+" FROM testimonials ORDER BY id DESC")
	if err != nil {
		return nil, fmt.Errorf("list testimonials: %w", err)
	}
	defer rows.Close()

	out := []model.Testimonial{}
	for rows.Next() {
		t, err := scanTestimonial(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TestimonialRepo) GetByID(ctx context.Context, id uint64) (model.Testimonial, error) {
	return scanTestimonial(r.db.QueryRowContext(ctx,
		"SELECT "+testimonialColumns+" FROM testimonials WHERE id = ?", id))
}

func (r *TestimonialRepo) Create(ctx context.Context, t *model.Testimonial) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO testimonials (client_name, company, quote, rating, avatar) VALUES (?, ?, ?, ?, ?)",
		t.ClientName, t.Company, t.Quote, t.Rating, t.Avatar)
	if err != nil {
		return fmt.Errorf("insert testimonial: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	created, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*t = created
	return nil
}

func (r *TestimonialRepo) Update(ctx context.Context, t *model.Testimonial) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE testimonials SET client_name = ?, company = ?, quote = ?, rating = ?, avatar = ? WHERE id = ?",
		t.ClientName, t.Company, t.Quote, t.Rating, t.Avatar, t.ID)
	if err != nil {
		return fmt.Errorf("update testimonial: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return err
	}
	updated, err := r.GetByID(ctx, t.ID)
	if err != nil {
		return err
	}
	*t = updated
	return nil
}

func (r *TestimonialRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM testimonials WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete testimonial: %w", err)
	}
	return requireAffected(res)
}

func scanTestimonial(s rowScanner) (model.Testimonial, error) {
	var t model.Testimonial
	err := s.Scan(&t.ID, &t.ClientName, &t.Company, &t.Quote, &t.Rating, &t.Avatar, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Testimonial{}, ErrNotFound
		}
		return model.Testimonial{}, fmt.Errorf("scan testimonial: %w", err)
	}
	return t, nil
}
