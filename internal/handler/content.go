package handler

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/brixxspace/brixxspace-api/internal/model"
	"github.com/brixxspace/brixxspace-api/internal/repository"
	"github.com/brixxspace/brixxspace-api/internal/utils"
)

// ProjectStore is implemented by *repository.ProjectRepo.
type ProjectStore interface {
	List(ctx context.Context, f model.ProjectFilter) ([]model.Project, error)
	GetBySlug(ctx context.Context, slug string) (model.Project, error)
	GetByID(ctx context.Context, id uint64) (model.Project, error)
	Create(ctx context.Context, p *model.Project) error
	Update(ctx context.Context, p *model.Project) error
	Delete(ctx context.Context, id uint64) error
}

// ServiceStore is implemented by *repository.ServiceRepo.
type ServiceStore interface {
	List(ctx context.Context) ([]model.Service, error)
	GetBySlug(ctx context.Context, slug string) (model.Service, error)
	GetByID(ctx context.Context, id uint64) (model.Service, error)
	Create(ctx context.Context, s *model.Service) error
	Update(ctx context.Context, s *model.Service) error
	Delete(ctx context.Context, id uint64) error
}

// BlogStore is implemented by *repository.BlogRepo.
type BlogStore interface {
	List(ctx context.Context, publishedOnly bool) ([]model.BlogPost, error)
	GetBySlug(ctx context.Context, slug string, publishedOnly bool) (model.BlogPost, error)
	GetByID(ctx context.Context, id uint64) (model.BlogPost, error)
	Create(ctx context.Context, b *model.BlogPost) error
	Update(ctx context.Context, b *model.BlogPost) error
	Delete(ctx context.Context, id uint64) error
}

// TestimonialStore is implemented by *repository.TestimonialRepo.
type TestimonialStore interface {
	List(ctx context.Context) ([]model.Testimonial, error)
	GetByID(ctx context.Context, id uint64) (model.Testimonial, error)
	Create(ctx context.Context, t *model.Testimonial) error
	Update(ctx context.Context, t *model.Testimonial) error
	Delete(ctx context.Context, id uint64) error
}

// EnquiryStore is implemented by *repository.EnquiryRepo.
type EnquiryStore interface {
	Create(ctx context.Context, e *model.Enquiry) error
	List(ctx context.Context) ([]model.Enquiry, error)
}

// ContentHandler serves the marketing content: public reads and admin
// writes.
type ContentHandler struct {
	Projects     ProjectStore
	Services     ServiceStore
	Blogs        BlogStore
	Testimonials TestimonialStore
	Enquiries    EnquiryStore
}

// parseID reads the :id path parameter.
func parseID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, invalid("invalid id")
	}
	return id, nil
}

// resolveSlug normalises an explicit slug or derives one from title.
func resolveSlug(slug, title string) (string, error) {
	src := strings.TrimSpace(slug)
	if src == "" {
		src = title
	}
	s := utils.Slugify(src)
	if s == "" {
		return "", invalid("slug must contain letters or digits")
	}
	return s, nil
}

// mapNotFound replaces the repository miss with a message naming what.
func mapNotFound(err error, what string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(what)
	}
	return err
}

func queryBool(c echo.Context, name string) bool {
	v, _ := strconv.ParseBool(c.QueryParam(name))
	return v
}
