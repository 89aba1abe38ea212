package router

import (
    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/event-seat-registration/internal/config"
    "github.com/iliyamo/event-seat-registration/internal/handler"
    "github.com/iliyamo/event-seat-registration/internal/middleware"
)

// RegisterStaff registers the staff-scoped endpoints under /v1.  All
// routes require a valid JWT with the ORGANIZER or STAFF role.
// Read-heavy dashboard endpoints (availability, statistics) run behind
// the Redis response cache; a nil Redis client bypasses caching.
func RegisterStaff(e *echo.Echo, h *handler.StaffHandler, jwtSecret string, rdb *redis.Client) {
    g := e.Group(
        "/v1",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole("ORGANIZER", "STAFF"),
    )

    // ---- Invitations ----
    g.POST("/invitations", h.CreateInvitation)
    g.GET("/invitations", h.ListInvitations)
    g.GET("/invitations/:id/guests", h.GetInvitationGuests)
    g.DELETE("/invitations/:id", h.DeactivateInvitation)

    // ---- Guests ----
    g.GET("/guests", h.ListGuests)
    g.GET("/guests/:id", h.GetGuest)
    g.DELETE("/guests/:id", h.DeleteGuest)
    g.POST("/checkin", h.CheckIn)

    // ---- Chair assignment ----
    g.PUT("/guests/:id/seat", h.AssignSeat)
    g.POST("/guests/:id/seat/auto", h.AutoAssignSeat)
    g.DELETE("/guests/:id/seat", h.RemoveSeat)
    g.POST("/seating/switch", h.SwitchSeats)

    // ---- Occupancy views ----
    cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
    g.GET("/seating/available", h.AvailableSeats, cache)
    g.GET("/seating/statistics", h.SeatingStatistics, cache)
}
