package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/brixxspace/brixxspace-api/internal/model"
)

type enquiryReq struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone"`
	Message string `json:"message" validate:"required"`
}

// CreateEnquiry stores a contact-form submission.
func (h *ContentHandler) CreateEnquiry(c echo.Context) error {
	var req enquiryReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	e := model.Enquiry{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Phone:   strings.TrimSpace(req.Phone),
		Message: strings.TrimSpace(req.Message),
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Enquiries.Create(ctx, &e); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, e)
}

func (h *ContentHandler) ListEnquiries(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	items, err := h.Enquiries.List(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}
