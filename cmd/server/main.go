package main // Entry point package

import (
    "log" // Logging library

    "github.com/joho/godotenv"    // Loads .env files in local development
    "github.com/labstack/echo/v4" // Echo web framework

    "github.com/iliyamo/meeting-room-reservation/internal/config"     // Internal config loader
    "github.com/iliyamo/meeting-room-reservation/internal/database"   // MySQL connection pool
    "github.com/iliyamo/meeting-room-reservation/internal/handler"    // HTTP handlers
    "github.com/iliyamo/meeting-room-reservation/internal/middleware" // Rate limiting and response caching
    "github.com/iliyamo/meeting-room-reservation/internal/queue"      // RabbitMQ publisher and consumer
    "github.com/iliyamo/meeting-room-reservation/internal/repository" // Data access layer
    "github.com/iliyamo/meeting-room-reservation/internal/router"     // Route registration
    "github.com/iliyamo/meeting-room-reservation/internal/service"    // Business logic
)

func main() {
    // Load .env if present; ignore the error so production can rely on real env vars.
    _ = godotenv.Load()

    cfg := config.Load() // Load environment config

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database connection failed: %v", err)
    }
    defer db.Close()

    // Redis is optional: a nil client disables rate limiting and caching.
    rdb := config.NewRedisClient()
    if rdb == nil {
        log.Println("redis unavailable; rate limiting and response caching disabled")
    }

    store := repository.NewSQLStore(db)
    roomRepo := repository.NewRoomRepo(db)

    bookingSvc := service.NewBookingService(store, roomRepo, service.RealClock{}, cfg.IdempotencyReclaimTTL)
    reportSvc := service.NewReportService(store, roomRepo)

    publisher := queue.NewPublisher()

    bookingHandler := handler.NewBookingHandler(bookingSvc, reportSvc, publisher)
    roomHandler := handler.NewRoomHandler(roomRepo)

    e := echo.New() // Create Echo instance
    e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
    e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
    router.RegisterRoutes(e, bookingHandler, roomHandler) // Register application routes

    // Consume booking events in the background and append them to logs/booking.log.
    go func() {
        if err := queue.StartBookingConsumer(); err != nil {
            log.Printf("booking consumer stopped: %v", err)
        }
    }()

    addr := ":" + cfg.Port                                // Address string with port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

    if err := e.Start(addr); err != nil { // Start HTTP server
        log.Fatal(err) // Log and exit if server fails
    }
}
