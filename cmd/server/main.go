package main // Entry point package

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/share-it/internal/config"
	"github.com/iliyamo/share-it/internal/database"
	"github.com/iliyamo/share-it/internal/handler"
	"github.com/iliyamo/share-it/internal/middleware"
	"github.com/iliyamo/share-it/internal/queue"
	"github.com/iliyamo/share-it/internal/repository"
	"github.com/iliyamo/share-it/internal/router"
	queue_publisher "github.com/iliyamo/share-it/internal/service"
)

func main() {
	// A local .env is optional; real deployments set the environment
	// directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	items := repository.NewItemRepo(db)
	bookings := repository.NewBookingRepo(db)
	comments := repository.NewCommentRepo(db)
	requests := repository.NewRequestRepo(db)

	publish := func(ctx context.Context, ev queue.BookingDecidedEvent) {
		_ = queue_publisher.PublishBookingDecided(ctx, ev)
	}

	userHandler := handler.NewUserHandler(users)
	itemHandler := handler.NewItemHandler(items, users, bookings, comments, requests)
	bookingHandler := handler.NewBookingHandler(bookings, items, users, publish)
	requestHandler := handler.NewRequestHandler(requests, users, items)

	e := echo.New()

	// Redis-backed rate limiting and response caching degrade to
	// pass-through middleware when no Redis server is reachable.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and response cache disabled")
	}
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterUsers(e, userHandler)
	router.RegisterItems(e, itemHandler)
	router.RegisterBookings(e, bookingHandler)
	router.RegisterRequests(e, requestHandler)

	// Consume owner decisions into logs/booking.log in the background.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
