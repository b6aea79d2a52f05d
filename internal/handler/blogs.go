package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/brixxspace/brixxspace-api/internal/middleware"
	"github.com/brixxspace/brixxspace-api/internal/model"
)

// publishedOnly is false only for an admin asking for ?all=true.
func publishedOnly(c echo.Context) bool {
	return !(queryBool(c, "all") && middleware.Role(c) == model.RoleAdmin)
}

// ListBlogs returns published posts, or every post for an admin with ?all=true.
func (h *ContentHandler) ListBlogs(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	items, err := h.Blogs.List(ctx, publishedOnly(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ContentHandler) GetBlog(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	b, err := h.Blogs.GetBySlug(ctx, c.Param("slug"), publishedOnly(c))
	if err != nil {
		return mapNotFound(err, "blog post")
	}
	return c.JSON(http.StatusOK, b)
}

func (h *ContentHandler) CreateBlog(c echo.Context) error {
	var b model.BlogPost
	if err := c.Bind(&b); err != nil {
		return invalid("invalid request body")
	}
	b.ID = 0
	if err := prepareBlog(&b); err != nil {
		return err
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Blogs.Create(ctx, &b); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, b)
}

func (h *ContentHandler) UpdateBlog(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	b, err := h.Blogs.GetByID(ctx, id)
	if err != nil {
		return mapNotFound(err, "blog post")
	}
	if err := c.Bind(&b); err != nil {
		return invalid("invalid request body")
	}
	b.ID = id
	if err := prepareBlog(&b); err != nil {
		return err
	}
	if err := h.Blogs.Update(ctx, &b); err != nil {
		return mapNotFound(err, "blog post")
	}
	return c.JSON(http.StatusOK, b)
}

func (h *ContentHandler) DeleteBlog(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Blogs.Delete(ctx, id); err != nil {
		return mapNotFound(err, "blog post")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "blog post deleted"})
}

// prepareBlog stamps PublishedAt the first time a post is published.
func prepareBlog(b *model.BlogPost) error {
	b.Title = strings.TrimSpace(b.Title)
	if b.Title == "" {
		return invalid("title is required")
	}
	slug, err := resolveSlug(b.Slug, b.Title)
	if err != nil {
		return err
	}
	b.Slug = slug
	if b.Published && b.PublishedAt == nil {
		now := time.Now().UTC().Truncate(time.Second)
		b.PublishedAt = &now
	}
	return nil
}
