package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/brixxspace/brixxspace-api/internal/model"
)

// BlogRepo stores blog posts.  Guests only ever see published rows, so the
// read methods take a publishedOnly switch.
type BlogRepo struct {
	db *sql.DB
}

func NewBlogRepo(db *sql.DB) *BlogRepo {
	return &BlogRepo{db: db}
}

const blogColumns = "id, title, slug, excerpt, content, author, cover_image, published, published_at, created_at, updated_at"

// List returns posts, most recently published first.
func (r *BlogRepo) List(ctx context.Context, publishedOnly bool) ([]model.BlogPost, error) {
	q := "SELECT " + blogColumns + " FROM blog_posts"
	if publishedOnly {
		q += " WHERE published = 1"
	}
	q += " ORDER BY COALESCE(published_at, created_at) DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list blog posts: %w", err)
	}
	defer rows.Close()

	out := []model.BlogPost{}
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// GetBySlug fetches a post; drafts are hidden when publishedOnly is set.
func (r *BlogRepo) GetBySlug(ctx context.Context, slug string, publishedOnly bool) (model.BlogPost, error) {
	q := "SELECT " + blogColumns + " FROM blog_posts WHERE slug = ?"
	if publishedOnly {
		q += " AND published = 1"
	}
	return scanBlog(r.db.QueryRowContext(ctx, q, slug))
}

func (r *BlogRepo) GetByID(ctx context.Context, id uint64) (model.BlogPost, error) {
	return scanBlog(r.db.QueryRowContext(ctx,
		"SELECT "+blogColumns+" FROM blog_posts WHERE id = ?", id))
}

func (r *BlogRepo) Create(ctx context.Context, b *model.BlogPost) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO blog_posts (title, slug, excerpt, content, author, cover_image, published, published_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.Title, b.Slug, b.Excerpt, b.Content, b.Author, b.CoverImage, b.Published, b.PublishedAt)
	if err != nil {
		if isDuplicate(err) {
			return ErrSlugExists
		}
		return fmt.Errorf("insert blog post: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	created, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*b = created
	return nil
}

func (r *BlogRepo) Update(ctx context.Context, b *model.BlogPost) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE blog_posts SET title = ?, slug = ?, excerpt = ?, content = ?, author = ?,
		 cover_image = ?, published = ?, published_at = ? WHERE id = ?`,
		b.Title, b.Slug, b.Excerpt, b.Content, b.Author, b.CoverImage, b.Published, b.PublishedAt, b.ID)
	if err != nil {
		if isDuplicate(err) {
			return ErrSlugExists
		}
		return fmt.Errorf("update blog post: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return err
	}
	updated, err := r.GetByID(ctx, b.ID)
	if err != nil {
		return err
	}
	*b = updated
	return nil
}

func (r *BlogRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM blog_posts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete blog post: %w", err)
	}
	return requireAffected(res)
}

func scanBlog(s rowScanner) (model.BlogPost, error) {
	var (
		b           model.BlogPost
		publishedAt sql.NullTime
	)
	err := s.Scan(&b.ID, &b.Title, &b.Slug, &b.Excerpt, &b.Content, &b.Author,
		&b.CoverImage, &b.Published, &publishedAt, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.BlogPost{}, ErrNotFound
		}
		return model.BlogPost{}, fmt.Errorf("scan blog post: %w", err)
	}
	if publishedAt.Valid {
		t := publishedAt.Time
		b.PublishedAt = &t
	}
	return b, nil
}
