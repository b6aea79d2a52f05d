package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/brixxspace/brixxspace-api/internal/logging"
	"github.com/brixxspace/brixxspace-api/internal/repository"
	"github.com/brixxspace/brixxspace-api/internal/service"
)

// NewHTTPErrorHandler renders every error returned by a handler as
// {"error": message}.  Unexpected errors become 500s; outside production
// their text is included as "detail".
func NewHTTPErrorHandler(log logging.Logger, production bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status, msg := classify(err)
		body := echo.Map{"error": msg}
		if status == http.StatusInternalServerError {
			log.Error(c.Request().Context(), "request failed",
				"method", c.Request().Method, "path", c.Path(), "err", err)
			if !production {
				body["detail"] = err.Error()
			}
		}
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			log.Error(c.Request().Context(), "write error response", "err", err)
		}
	}
}

func classify(err error) (int, string) {
	var se *service.Error
	if errors.As(err, &se) {
		return statusFor(se.Kind), se.Message
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprint(he.Message)
	}
	switch {
	case errors.Is(err, repository.ErrSlugExists):
		return http.StatusBadRequest, "slug already exists"
	case errors.Is(err, repository.ErrEmailExists):
		return http.StatusBadRequest, "user already exists"
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "not found"
	}
	if code := statusFor(err); code != http.StatusInternalServerError {
		return code, err.Error()
	}
	return http.StatusInternalServerError, "internal server error"
}

func statusFor(kind error) int {
	switch {
	case errors.Is(kind, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(kind, service.ErrConflict):
		return http.StatusBadRequest
	case errors.Is(kind, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(kind, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(kind, service.ErrForbidden):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

func invalid(msg string) error {
	return &service.Error{Kind: service.ErrValidation, Message: msg}
}

func notFound(what string) error {
	return &service.Error{Kind: service.ErrNotFound, Message: what + " not found"}
}

// bindAndValidate decodes the request into dst and runs the registered
// validator over it.
func bindAndValidate(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return invalid("invalid request body")
	}
	if err := c.Validate(dst); err != nil {
		return invalid(describeValidation(err))
	}
	return nil
}

func describeValidation(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return err.Error()
	}
	fe := ve[0]
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	}
	return fe.Field() + " is invalid"
}
