package main // Entry point package

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/SDN-Group5/Event-Ticketing-Platform-sub002/internal/config"
	"github.com/SDN-Group5/Event-Ticketing-Platform-sub002/internal/database"
	"github.com/SDN-Group5/Event-Ticketing-Platform-sub002/internal/handler"
	"github.com/SDN-Group5/Event-Ticketing-Platform-sub002/internal/inventory"
	"github.com/SDN-Group5/Event-Ticketing-Platform-sub002/internal/queue"
	"github.com/SDN-Group5/Event-Ticketing-Platform-sub002/internal/repository"
	"github.com/SDN-Group5/Event-Ticketing-Platform-sub002/internal/router"
)

func main() {
	_ = godotenv.Load() // .env is optional; real environments set vars directly
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient() // nil on failure; limiter and cache degrade
	if rdb == nil {
		log.Printf("redis unavailable: rate limiting and response caching disabled")
	}

	seatRepo := repository.NewSeatRepo(db)
	zoneRepo := repository.NewZoneRepo(db)
	publisher := queue.NewPublisher("")

	engine := inventory.NewEngine(seatRepo, zoneRepo, publisher, cfg.HoldTTL, cfg.ReservationCap)
	generator := inventory.NewGenerator(seatRepo, zoneRepo)
	sweeper := inventory.NewSweeper(seatRepo, zoneRepo, cfg.SweepInterval, cfg.SweepJitter)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sweeper.Start(ctx)

	// Sales consumer appends confirmed purchases to logs/sales.log and
	// reconnects on broker failures.
	go func() {
		if err := queue.StartSalesConsumer(); err != nil {
			log.Printf("sales consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e, router.Deps{
		Reservation: handler.NewReservationHandler(engine),
		Seats:       handler.NewSeatsHandler(engine),
		Generation:  handler.NewGenerationHandler(generator),
		Redis:       rdb,
		JWTSecret:   cfg.JWTSecret,
		RateLimit:   config.LoadRateLimitConfig(),
		Cache:       config.LoadCacheConfig(),
	})

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
