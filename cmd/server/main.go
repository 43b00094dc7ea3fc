package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"sparkmatch/internal/cache"
	"sparkmatch/internal/config"
	"sparkmatch/internal/matchmaking"
	"sparkmatch/internal/repository"
	"sparkmatch/internal/service"
	"sparkmatch/internal/transport/rest"
	"sparkmatch/internal/transport/ws"
)

func main() {
	log.Println("started")
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB)

	// Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// Initialize repositories
	eventRepo := repository.NewEventRepo(db)
	bookingRepo := repository.NewBookingRepo(db)
	matchRepo := repository.NewMatchRepo(db)

	// Initialize caches
	eventCache := cache.NewEventCache(rdb)
	presenceCache := cache.NewPresenceCache(rdb)

	// Matchmaking coordinator (wsHub implements matchmaking.Notifier)
	coordinator := matchmaking.NewCoordinator(wsHub, matchmaking.PhaseDurations{
		Lobby:    cfg.LobbyDuration,
		Date:     cfg.DateDuration,
		Feedback: cfg.FeedbackDuration,
	})

	// Initialize services
	authSvc := service.NewAuthService(cfg.HostUsername, cfg.HostPassword, cfg.JWTSecret)
	bookingSvc := service.NewBookingService(bookingRepo, eventCache, authSvc)
	eventSvc := service.NewEventService(eventRepo, matchRepo, eventCache, presenceCache, coordinator)

	// Create router with container
	container := &rest.Container{
		AuthService:    authSvc,
		EventService:   eventSvc,
		BookingService: bookingSvc,
		Coordinator:    coordinator,
		Presence:       presenceCache,
		WSHub:          wsHub,
	}

	router := rest.NewRouter(container)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		log.Printf("Host auth: username=%s", cfg.HostUsername)
		log.Println("Endpoints:")
		log.Println("  POST /v1/auth/login")
		log.Println("  POST/GET /v1/events")
		log.Println("  POST /v1/events/{code}/book")
		log.Println("  POST /v1/events/{code}/open")
		log.Println("  POST /v1/events/{code}/rounds/start")
		log.Println("  GET  /v1/events/{code}/matches")
		log.Println("  WS  /v1/ws/events/{code}/host")
		log.Println("  WS  /v1/ws/events/{code}/participant")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
