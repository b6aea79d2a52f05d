package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/brixxspace/brixxspace-api/internal/middleware"
	"github.com/brixxspace/brixxspace-api/internal/model"
	"github.com/brixxspace/brixxspace-api/internal/service"
)

// AuthAPI is implemented by *service.AuthService.
type AuthAPI interface {
	SendOTP(ctx context.Context, email, purpose string) error
	VerifyOTP(ctx context.Context, email, code string) error
	Register(ctx context.Context, in service.RegisterInput) (service.AuthResult, error)
	Login(ctx context.Context, email, password string) (service.AuthResult, error)
	ResetPassword(ctx context.Context, email, otp, password string) error
	Profile(ctx context.Context, id uint64) (model.User, error)
	UpdateProfile(ctx context.Context, id uint64, p model.ProfilePatch) (model.User, error)
}

// AuthHandler serves /api/auth.
type AuthHandler struct {
	Svc          AuthAPI
	CookieSecure bool
}

func NewAuthHandler(svc AuthAPI, cookieSecure bool) *AuthHandler {
	return &AuthHandler{Svc: svc, CookieSecure: cookieSecure}
}

// ----- DTOs -----

type sendOTPReq struct {
	Email string `json:"email" validate:"required,email"`
	Type  string `json:"type" validate:"required,oneof=signup forgot-password"`
}

type verifyOTPReq struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required"`
}

type registerReq struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	OTP      string `json:"otp"`
}

type loginReq struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type resetPasswordReq struct {
	Email    string `json:"email" validate:"required,email"`
	OTP      string `json:"otp" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

type profileReq struct {
	FullName *string `json:"fullName"`
	Phone    *string `json:"phone"`
	Company  *string `json:"company"`
	Avatar   *string `json:"avatar"`
}

type userPart struct {
	ID       uint64 `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type authResp struct {
	User      userPart  `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func dbCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

// SendOTP issues a signup or password-reset code.
func (h *AuthHandler) SendOTP(c echo.Context) error {
	var req sendOTPReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Svc.SendOTP(ctx, req.Email, req.Type); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "OTP sent to email"})
}

// VerifyOTP checks a code without consuming it.
func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	var req verifyOTPReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Svc.VerifyOTP(ctx, req.Email, req.OTP); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "OTP verified"})
}

// Register creates the account and starts a session.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	res, err := h.Svc.Register(ctx, service.RegisterInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		OTP:      req.OTP,
	})
	if err != nil {
		return err
	}
	return h.session(c, http.StatusCreated, res)
}

// Login verifies credentials and starts a session.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return err
	}
	return h.session(c, http.StatusOK, res)
}

// Logout clears the session cookie.  Sessions are stateless, so a token
// copied elsewhere keeps working until it expires.
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(h.cookie("", time.Unix(0, 0), -1))
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// ResetPassword sets a new password after checking the emailed code.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Svc.ResetPassword(ctx, req.Email, req.OTP, req.Password); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password updated"})
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c echo.Context) error {
	id, ok := middleware.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	u, err := h.Svc.Profile(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"user": u})
}

// UpdateMe edits the profile fields present in the body.
func (h *AuthHandler) UpdateMe(c echo.Context) error {
	id, ok := middleware.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}
	var req profileReq
	if err := c.Bind(&req); err != nil {
		return invalid("invalid request body")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	u, err := h.Svc.UpdateProfile(ctx, id, model.ProfilePatch{
		FullName: req.FullName,
		Phone:    req.Phone,
		Company:  req.Company,
		Avatar:   req.Avatar,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"user": u})
}

func (h *AuthHandler) session(c echo.Context, status int, res service.AuthResult) error {
	c.SetCookie(h.cookie(res.Token.Token, res.Token.Exp, 0))
	return c.JSON(status, authResp{
		User: userPart{
			ID:       res.User.ID,
			FullName: res.User.FullName,
			Email:    res.User.Email,
			Role:     res.User.Role,
		},
		Token:     res.Token.Token,
		ExpiresAt: res.Token.Exp,
	})
}

func (h *AuthHandler) cookie(value string, exp time.Time, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    value,
		Path:     "/",
		Expires:  exp,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}
