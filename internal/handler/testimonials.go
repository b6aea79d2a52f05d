package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/brixxspace/brixxspace-api/internal/model"
)

func (h *ContentHandler) ListTestimonials(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	items, err := h.Testimonials.List(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ContentHandler) CreateTestimonial(c echo.Context) error {
	var t model.Testimonial
	if err := c.Bind(&t); err != nil {
		return invalid("invalid request body")
	}
	t.ID = 0
	if err := prepareTestimonial(&t); err != nil {
		return err
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Testimonials.Create(ctx, &t); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *ContentHandler) UpdateTestimonial(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	t, err := h.Testimonials.GetByID(ctx, id)
	if err != nil {
		return mapNotFound(err, "testimonial")
	}
	if err := c.Bind(&t); err != nil {
		return invalid("invalid request body")
	}
	t.ID = id
	if err := prepareTestimonial(&t); err != nil {
		return err
	}
	if err := h.Testimonials.Update(ctx, &t); err != nil {
		return mapNotFound(err, "testimonial")
	}
	return c.JSON(http.StatusOK, t)
}

func (h *ContentHandler) DeleteTestimonial(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Testimonials.Delete(ctx, id); err != nil {
		return mapNotFound(err, "testimonial")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "testimonial deleted"})
}

func prepareTestimonial(t *model.Testimonial) error {
	t.ClientName = strings.TrimSpace(t.ClientName)
	t.Quote = strings.TrimSpace(t.Quote)
	switch {
	case t.ClientName == "":
		return invalid("clientName is required")
	case t.Quote == "":
		return invalid("quote is required")
	case t.Rating < 1 || t.Rating > 5:
		return invalid("rating must be between 1 and 5")
	}
	return nil
}
