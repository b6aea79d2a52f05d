package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/brixxspace/brixxspace-api/internal/model"
)

// ServiceRepo stores the service catalog.
type ServiceRepo struct {
	db *sql.DB
}

func NewServiceRepo(db *sql.DB) *ServiceRepo {
	return &ServiceRepo{db: db}
}

const serviceColumns = "id, title, slug, summary, description, icon, position, created_at, updated_at"

// List returns the catalog ordered by position, then id.
func (r *ServiceRepo) List(ctx context.Context) ([]model.Service, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+serviceColumns+" FROM services ORDER BY position, id")
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	out := []model.Service{}
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *ServiceRepo) GetBySlug(ctx context.Context, slug string) (model.Service, error) {
	return scanService(r.db.QueryRowContext(ctx,
		"SELECT "+serviceColumns+" FROM services WHERE slug = ?", slug))
}

func (r *ServiceRepo) GetByID(ctx context.Context, id uint64) (model.Service, error) {
	return scanService(r.db.QueryRowContext(ctx,
		"SELECT "+serviceColumns+" FROM services WHERE id = ?", id))
}

func (r *ServiceRepo) Create(ctx context.Context, s *model.Service) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO services (title, slug, summary, description, icon, position) VALUES (?, ?, ?, ?, ?, ?)",
		s.Title, s.Slug, s.Summary, s.Description, s.Icon, s.Position)
	if err != nil {
		if isDuplicate(err) {
			return ErrSlugExists
		}
		return fmt.Errorf("insert service: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	created, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*s = created
	return nil
}

func (r *ServiceRepo) Update(ctx context.Context, s *model.Service) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE services SET title = ?, slug = ?, summary = ?, description = ?, icon = ?, position = ? WHERE id = ?",
		s.Title, s.Slug, s.Summary, s.Description, s.Icon, s.Position, s.ID)
	if err != nil {
		if isDuplicate(err) {
			return ErrSlugExists
		}
		return fmt.Errorf("update service: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return err
	}
	updated, err := r.GetByID(ctx, s.ID)
	if err != nil {
		return err
	}
	*s = updated
	return nil
}

func (r *ServiceRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM services WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	return requireAffected(res)
}

func scanService(s rowScanner) (model.Service, error) {
	var svc model.Service
	err := s.Scan(&svc.ID, &svc.Title, &svc.Slug, &svc.Summary, &svc.Description,
		&svc.Icon, &svc.Position, &svc.CreatedAt, &svc.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Service{}, ErrNotFound
		}
		return model.Service{}, fmt.Errorf("scan service: %w", err)
	}
	return svc, nil
}
