package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/brixxspace/brixxspace-api/internal/model"
)

// ListProjects supports ?featured=true and ?category=.
func (h *ContentHandler) ListProjects(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	items, err := h.Projects.List(ctx, model.ProjectFilter{
		FeaturedOnly: queryBool(c, "featured"),
		Category:     c.QueryParam("category"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ContentHandler) GetProject(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	p, err := h.Projects.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		return mapNotFound(err, "project")
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ContentHandler) CreateProject(c echo.Context) error {
	var p model.Project
	if err := c.Bind(&p); err != nil {
		return invalid("invalid request body")
	}
	p.ID = 0
	if err := prepareProject(&p); err != nil {
		return err
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Projects.Create(ctx, &p); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

// UpdateProject applies the body over the stored project; absent fields
// keep their values.
func (h *ContentHandler) UpdateProject(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	p, err := h.Projects.GetByID(ctx, id)
	if err != nil {
		return mapNotFound(err, "project")
	}
	if err := c.Bind(&p); err != nil {
		return invalid("invalid request body")
	}
	p.ID = id
	if err := prepareProject(&p); err != nil {
		return err
	}
	if err := h.Projects.Update(ctx, &p); err != nil {
		return mapNotFound(err, "project")
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ContentHandler) DeleteProject(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Projects.Delete(ctx, id); err != nil {
		return mapNotFound(err, "project")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "project deleted"})
}

func prepareProject(p *model.Project) error {
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return invalid("title is required")
	}
	slug, err := resolveSlug(p.Slug, p.Title)
	if err != nil {
		return err
	}
	p.Slug = slug
	return nil
}
