package handler

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Buffden/Event-Management-System-sub004/internal/api/middleware"
	"github.com/Buffden/Event-Management-System-sub004/internal/domain/actor"
)

// Routes bundles the handlers mounted under /api/v1.
type Routes struct {
	Health          *HealthHandler
	Events          *EventHandler
	Venues          *VenueHandler
	Resolver        actor.Resolver
	IdentityTimeout time.Duration
}

// Register mounts every API route on e.
func (r Routes) Register(e *echo.Echo) {
	v1 := e.Group("/api/v1")
	optionalAuth := middleware.OptionalBearerAuth(r.Resolver, r.IdentityTimeout)
	auth := middleware.BearerAuth(r.Resolver, r.IdentityTimeout)

	v1.GET("/health", r.Health.Check)
	v1.GET("/events", r.Events.ListPublic)
	v1.GET("/events/:id", r.Events.Get, optionalAuth)
	v1.GET("/venues", r.Venues.List)
	v1.GET("/venues/:id", r.Venues.Get)

	speaker := v1.Group("/speaker", auth)
	speaker.GET("/events", r.Events.ListOwn)
	speaker.POST("/events", r.Events.Create)
	speaker.PUT("/events/:id", r.Events.Update)
	speaker.POST("/events/:id/submit", r.Events.Submit)
	speaker.DELETE("/events/:id", r.Events.Delete)

	admin := v1.Group("/admin", auth, middleware.RequireAdmin())
	admin.GET("/events", r.Events.ListAll)
	admin.POST("/events", r.Events.Create)
	admin.PUT("/events/:id", r.Events.Update)
	admin.POST("/events/:id/approve", r.Events.Approve)
	admin.POST("/events/:id/reject", r.Events.Reject)
	admin.POST("/events/:id/cancel", r.Events.Cancel)
	admin.POST("/events/:id/complete", r.Events.Complete)
	admin.DELETE("/events/:id", r.Events.Delete)
}
