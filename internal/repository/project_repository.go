// Package repository contains data access logic separated from HTTP handlers.
// This file holds the portfolio projects shown on the public site.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/brixxspace/brixxspace-api/internal/model"
)

// ProjectRepo encapsulates all database queries related to projects.
type ProjectRepo struct {
	db *sql.DB
}

func NewProjectRepo(db *sql.DB) *ProjectRepo {
	return &ProjectRepo{db: db}
}

const projectColumns = "id, title, slug, summary, description, location, category, cover_image, featured, completed_at, created_at, updated_at"

// List returns projects newest first, optionally filtered.
func (r *ProjectRepo) List(ctx context.Context, f model.ProjectFilter) ([]model.Project, error) {
	var (
		where []string
		args  []any
	)
	if f.FeaturedOnly {
		where = append(where, "featured = 1")
	}
	if c := strings.TrimSpace(f.Category); c != "" {
		where = append(where, "category = ?")
		args = append(args, c)
	}
	q := "SELECT " + projectColumns + " FROM projects"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY id DESC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	out := []model.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetBySlug fetches a project by slug.
func (r *ProjectRepo) GetBySlug(ctx context.Context, slug string) (model.Project, error) {
	return scanProject(r.db.QueryRowContext(ctx,
		"SELECT "+projectColumns+" FROM projects WHERE slug = ?", slug))
}

// GetByID fetches a project by id.
func (r *ProjectRepo) GetByID(ctx context.Context, id uint64) (model.Project, error) {
	return scanProject(r.db.QueryRowContext(ctx,
		"SELECT "+projectColumns+" FROM projects WHERE id = ?", id))
}

// Create inserts p and reloads it so timestamps are populated.
func (r *ProjectRepo) Create(ctx context.Context, p *model.Project) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO projects (title, slug, summary, description, location, category, cover_image, featured, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Title, p.Slug, p.Summary, p.Description, p.Location, p.Category, p.CoverImage, p.Featured, p.CompletedAt)
	if err != nil {
		if isDuplicate(err) {
			return ErrSlugExists
		}
		return fmt.Errorf("insert project: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	created, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*p = created
	return nil
}

// Update overwrites every editable column of p.
func (r *ProjectRepo) Update(ctx context.Context, p *model.Project) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE projects SET title = ?, slug = ?, summary = ?, description = ?, location = ?,
		 category = ?, cover_image = ?, featured = ?, completed_at = ? WHERE id = ?`,
		p.Title, p.Slug, p.Summary, p.Description, p.Location, p.Category, p.CoverImage, p.Featured, p.CompletedAt, p.ID)
	if err != nil {
		if isDuplicate(err) {
			return ErrSlugExists
		}
		return fmt.Errorf("update project: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return err
	}
	updated, err := r.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	*p = updated
	return nil
}

// Delete removes a project.
func (r *ProjectRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return requireAffected(res)
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(s rowScanner) (model.Project, error) {
	var (
		p         model.Project
		completed sql.NullTime
	)
	err := s.Scan(&p.ID, &p.Title, &p.Slug, &p.Summary, &p.Description, &p.Location,
		&p.Category, &p.CoverImage, &p.Featured, &completed, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Project{}, ErrNotFound
		}
		return model.Project{}, fmt.Errorf("scan project: %w", err)
	}
	if completed.Valid {
		t := completed.Time
		p.CompletedAt = &t
	}
	return p, nil
}
