package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"sparkmatch/internal/cache"
	"sparkmatch/internal/matchmaking"
	"sparkmatch/internal/service"
	"sparkmatch/internal/transport/rest/handler"
	"sparkmatch/internal/transport/rest/middleware"
	"sparkmatch/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService    *service.AuthService
	EventService   *service.EventService
	BookingService *service.BookingService
	Coordinator    *matchmaking.Coordinator
	Presence       cache.PresenceCache
	WSHub          *ws.Hub
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	eventHandler := handler.NewEventHandler(c.EventService, c.BookingService)
	matchHandler := handler.NewMatchmakingHandler(c.Coordinator, c.Presence)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.BookingService, c.EventService, c.Coordinator, c.Presence)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/events/{code}", eventHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/events/{code}/book", eventHandler.Book).Methods("POST", "OPTIONS")

	// WebSocket routes (public with token in query param)
	v1.HandleFunc("/ws/events/{code}/host", wsHandler.HostWS).Methods("GET")
	v1.HandleFunc("/ws/events/{code}/participant", wsHandler.ParticipantWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Host routes (require host auth)
	hostRoutes := v1.NewRoute().Subrouter()
	hostRoutes.Use(authMW.RequireHost)

	hostRoutes.HandleFunc("/events", eventHandler.Create).Methods("POST", "OPTIONS")
	hostRoutes.HandleFunc("/events/{code}/open", eventHandler.Open).Methods("POST", "OPTIONS")
	hostRoutes.HandleFunc("/events/{code}/complete", eventHandler.Complete).Methods("POST", "OPTIONS")
	hostRoutes.HandleFunc("/events/{code}/bookings", eventHandler.Bookings).Methods("GET", "OPTIONS")
	hostRoutes.HandleFunc("/events/{code}/matches", eventHandler.Matches).Methods("GET", "OPTIONS")
	hostRoutes.HandleFunc("/events/{code}/participants", matchHandler.Participants).Methods("GET", "OPTIONS")
	hostRoutes.HandleFunc("/events/{code}/rounds/start", matchHandler.StartRound).Methods("POST", "OPTIONS")
	hostRoutes.HandleFunc("/events/{code}/phase/advance", matchHandler.AdvancePhase).Methods("POST", "OPTIONS")

	// Participant routes (require participant auth)
	participantRoutes := v1.NewRoute().Subrouter()
	participantRoutes.Use(authMW.RequireParticipant)

	participantRoutes.HandleFunc("/events/{code}/bookings/me", eventHandler.MyBooking).Methods("GET", "OPTIONS")
	participantRoutes.HandleFunc("/events/{code}/matches/me", eventHandler.MyMatches).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
