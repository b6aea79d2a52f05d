// Package middleware holds the Echo middleware shared by the route groups:
// session authentication, role checks, rate limiting and response caching.
package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/brixxspace/brixxspace-api/internal/utils"
)

// SessionCookie is the name of the HttpOnly cookie carrying the session JWT.
const SessionCookie = "token"

// JWTAuth validates the session token and stores its subject and role in the
// request context (see UserID and Role).  The token is taken from an
// "Authorization: Bearer" header first, then from the session cookie.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := tokenFrom(c)
			if raw == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
			}
			claims, err := utils.ParseSessionToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			id, _ := claims.UserID() // already checked by ParseSessionToken
			c.Set(ctxUserID, id)
			c.Set(ctxRole, claims.Role)
			return next(c)
		}
	}
}

// OptionalJWTAuth is JWTAuth for public routes: a valid token populates the
// context, a missing or invalid one is ignored.
func OptionalJWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if raw := tokenFrom(c); raw != "" {
				if claims, err := utils.ParseSessionToken(secret, raw); err == nil {
					id, _ := claims.UserID()
					c.Set(ctxUserID, id)
					c.Set(ctxRole, claims.Role)
				}
			}
			return next(c)
		}
	}
}

func tokenFrom(c echo.Context) string {
	if auth := c.Request().Header.Get(echo.HeaderAuthorization); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	if ck, err := c.Cookie(SessionCookie); err == nil {
		return ck.Value
	}
	return ""
}
