package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4" // Echo web framework

    "github.com/iliyamo/event-seat-registration/internal/handler"    // business logic handlers
    "github.com/iliyamo/event-seat-registration/internal/middleware" // JWT + role middlewares
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
    // Load balancers and monitoring probe this endpoint.
    e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies
// the necessary middleware.  Unauthenticated operations live under
// /v1/auth, while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
    // Token issuance endpoints need no existing session.
    g := e.Group("/v1/auth")
    g.POST("/register", a.Register)
    g.POST("/login", a.Login)
    // Rotates the refresh token.
    g.POST("/refresh", a.Refresh)
    // Issues a new access token without rotating the refresh token.
    g.POST("/refresh-access", a.RefreshAccess)
    // Logout accepts either a refresh token in the body or a bearer
    // access token in the header, so it stays outside the JWT
    // middleware.
    g.POST("/logout", a.Logout)

    auth := e.Group("/v1")
    auth.Use(middleware.JWTAuth(jwtSecret))
    auth.Use(middleware.RequireRole("ORGANIZER", "STAFF"))
    auth.GET("/me", a.Me)
}
