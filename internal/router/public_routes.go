package router

import (
    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/event-seat-registration/internal/config"
    "github.com/iliyamo/event-seat-registration/internal/handler"
    "github.com/iliyamo/event-seat-registration/internal/middleware"
)

// RegisterPublic registers the unauthenticated invitee-facing routes:
// invitation preview, self-registration and RSVP.  These are the
// endpoints exposed to the open internet through invitation links, so
// the Redis token-bucket rate limiter is applied to the whole group.
// A nil Redis client disables limiting rather than blocking traffic.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, rdb *redis.Client) {
    // Invitee routes live under /v1/invite to keep the token parameter
    // out of the staff /v1/invitations subtree.
    g := e.Group("/v1", middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
    g.GET("/invite/:token", p.GetInvitation)
    g.POST("/invite/:token/register", p.Register)
    g.POST("/rsvp/:token", p.RSVP)
}
