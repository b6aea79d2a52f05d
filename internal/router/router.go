// Package router registers the HTTP routes of the API on an Echo instance.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/brixxspace/brixxspace-api/internal/handler"
	"github.com/brixxspace/brixxspace-api/internal/middleware"
)

// RegisterRoutes registers the unauthenticated probes.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health)
	e.GET("/readyz", handler.Ready(db))
}

// RegisterAuth registers /api/auth.  limit guards the endpoints that send
// mail or check passwords.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, limit echo.MiddlewareFunc) {
	g := e.Group("/api/auth")
	g.POST("/send-otp", a.SendOTP, limit)
	g.POST("/verify-otp", a.VerifyOTP, limit)
	g.POST("/register", a.Register)
	g.POST("/login", a.Login, limit)
	g.POST("/logout", a.Logout)
	g.POST("/reset-password", a.ResetPassword, limit)

	me := g.Group("", middleware.JWTAuth(jwtSecret))
	me.GET("/me", a.Me)
	me.PUT("/me", a.UpdateMe)
}
