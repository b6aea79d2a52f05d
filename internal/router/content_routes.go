package router

import (
	"github.com/labstack/echo/v4"

	"github.com/brixxspace/brixxspace-api/internal/handler"
	"github.com/brixxspace/brixxspace-api/internal/middleware"
	"github.com/brixxspace/brixxspace-api/internal/model"
)

// RegisterPublic registers the guest-readable content under /api.  cache
// wraps every read; OptionalJWTAuth lets an admin see draft posts.
func RegisterPublic(e *echo.Echo, h *handler.ContentHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	g := e.Group("/api", middleware.OptionalJWTAuth(jwtSecret))

	g.GET("/projects", h.ListProjects, cache)
	g.GET("/projects/:slug", h.GetProject, cache)
	g.GET("/services", h.ListServices, cache)
	g.GET("/services/:slug", h.GetService, cache)
	g.GET("/blogs", h.ListBlogs, cache)
	g.GET("/blogs/:slug", h.GetBlog, cache)
	g.GET("/testimonials", h.ListTestimonials, cache)
	g.POST("/enquiries", h.CreateEnquiry)
}

// RegisterAdmin registers content management endpoints.  All routes require
// a valid session with the admin role.
func RegisterAdmin(e *echo.Echo, h *handler.ContentHandler, jwtSecret string) {
	g := e.Group(
		"/api",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)

	// ---- Projects ----
	g.POST("/projects", h.CreateProject)
	g.PUT("/projects/:id", h.UpdateProject)
	g.DELETE("/projects/:id", h.DeleteProject)

	// ---- Services ----
	g.POST("/services", h.CreateService)
	g.PUT("/services/:id", h.UpdateService)
	g.DELETE("/services/:id", h.DeleteService)

	// ---- Blog ----
	g.POST("/blogs", h.CreateBlog)
	g.PUT("/blogs/:id", h.UpdateBlog)
	g.DELETE("/blogs/:id", h.DeleteBlog)

	// ---- Testimonials ----
	g.POST("/testimonials", h.CreateTestimonial)
	g.PUT("/testimonials/:id", h.UpdateTestimonial)
	g.DELETE("/testimonials/:id", h.DeleteTestimonial)

	// ---- Enquiries ----
	g.GET("/enquiries", h.ListEnquiries)
}
