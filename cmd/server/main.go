package main // Entry point package

import (
    "log" // Logging library

    "github.com/joho/godotenv"    // .env loader for local development
    "github.com/labstack/echo/v4" // Echo web framework

    "github.com/iliyamo/event-seat-registration/internal/config"     // environment config loader
    "github.com/iliyamo/event-seat-registration/internal/database"   // MySQL connection pool
    "github.com/iliyamo/event-seat-registration/internal/handler"    // HTTP handlers
    "github.com/iliyamo/event-seat-registration/internal/queue"      // RabbitMQ consumer
    "github.com/iliyamo/event-seat-registration/internal/repository" // data access layer
    "github.com/iliyamo/event-seat-registration/internal/router"     // route registration
    "github.com/iliyamo/event-seat-registration/internal/seating"    // chair allocation engine
)

func main() {
    // Load .env if present; real environments set variables directly.
    if err := godotenv.Load(); err != nil {
        log.Printf("no .env file loaded: %v", err)
    }
    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database connect failed: %v", err)
    }
    defer func() { _ = db.Close() }()

    // Nil when Redis is unreachable; cache and rate limiting degrade to
    // pass-through rather than taking the API down.
    rdb := config.NewRedisClient()

    guests := repository.NewGuestRepo(db)
    invitations := repository.NewInvitationRepo(db)
    users := repository.NewUserRepo(db)
    tokens := repository.NewTokenRepo(db)

    allocator := seating.NewAllocator(guests)
    reporter := seating.NewReporter(allocator.Pool())

    authH := handler.NewAuthHandler(cfg, users, tokens)
    publicH := handler.NewPublicHandler(invitations, guests, allocator)
    staffH := handler.NewStaffHandler(guests, invitations, allocator, reporter)

    e := echo.New()
    router.RegisterRoutes(e)
    router.RegisterAuth(e, authH, cfg.JWTSecret)
    router.RegisterPublic(e, publicH, rdb)
    router.RegisterStaff(e, staffH, cfg.JWTSecret, rdb)

    // Background consumer writes registration events to the audit log.
    // Broker outages are retried inside; the API serves regardless.
    go func() {
        if err := queue.StartRegistrationConsumer(); err != nil {
            log.Printf("registration consumer stopped: %v", err)
        }
    }()

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env)
    if err := e.Start(addr); err != nil {
        log.Fatal(err)
    }
}
