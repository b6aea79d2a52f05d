package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/brixxspace/brixxspace-api/internal/model"
)

// ListServices returns the catalog in display order.
func (h *ContentHandler) ListServices(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	items, err := h.Services.List(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ContentHandler) GetService(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	s, err := h.Services.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		return mapNotFound(err, "service")
	}
	return c.JSON(http.StatusOK, s)
}

func (h *ContentHandler) CreateService(c echo.Context) error {
	var s model.Service
	if err := c.Bind(&s); err != nil {
		return invalid("invalid request body")
	}
	s.ID = 0
	if err := prepareService(&s); err != nil {
		return err
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Services.Create(ctx, &s); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, s)
}

func (h *ContentHandler) UpdateService(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	s, err := h.Services.GetByID(ctx, id)
	if err != nil {
		return mapNotFound(err, "service")
	}
	if err := c.Bind(&s); err != nil {
		return invalid("invalid request body")
	}
	s.ID = id
	if err := prepareService(&s); err != nil {
		return err
	}
	if err := h.Services.Update(ctx, &s); err != nil {
		return mapNotFound(err, "service")
	}
	return c.JSON(http.StatusOK, s)
}

func (h *ContentHandler) DeleteService(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Services.Delete(ctx, id); err != nil {
		return mapNotFound(err, "service")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "service deleted"})
}

func prepareService(s *model.Service) error {
	s.Title = strings.TrimSpace(s.Title)
	if s.Title == "" {
		return invalid("title is required")
	}
	slug, err := resolveSlug(s.Slug, s.Title)
	if err != nil {
		return err
	}
	s.Slug = slug
	return nil
}
