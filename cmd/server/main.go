package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"travelviet/internal/auth"
	"travelviet/internal/config"
	"travelviet/internal/handler"
	"travelviet/internal/httputil"
	"travelviet/internal/middleware"
	"travelviet/internal/planner"
	"travelviet/internal/repository/postgres"
	"travelviet/internal/service"

	"github.com/joho/godotenv"
	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// JWT verifier for Supabase authentication
	jwtVerifier, err := auth.NewJWTVerifier(cfg.SupabaseJWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.SupabaseDBURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected")

	// Repositories
	tables := postgres.NewTableNames(cfg.TablePrefix)
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	tripRepo := postgres.NewTripRepository(repoConfig)
	itineraryRepo := postgres.NewItineraryRepository(repoConfig)
	chatRepo := postgres.NewChatRepository(repoConfig)
	profileRepo := postgres.NewProfileRepository(repoConfig)
	communityRepo := postgres.NewCommunityRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)

	// AI gateway client, tuned by the embedded model presets
	presets, err := planner.LoadPresets()
	if err != nil {
		log.Fatalf("Failed to load model presets: %v", err)
	}
	preset := planner.PresetFor(presets, cfg.DefaultModel)
	plannerClient := planner.NewClient(planner.Config{
		GatewayURL:  cfg.AIGatewayURL,
		APIKey:      cfg.AIGatewayKey,
		Model:       preset.Model,
		Temperature: preset.Temperature,
		MaxTokens:   preset.MaxTokens,
	}, &service.PlannerStore{Repo: chatRepo}, logger)

	logger.Info("planner client initialized", "model", preset.Model)

	// Services
	publicCache := gocache.New(5*time.Minute, 10*time.Minute)
	tripService := service.NewTripService(tripRepo, itineraryRepo, logger)
	chatService := service.NewChatService(chatRepo, tripRepo, plannerClient, logger)
	itineraryService := service.NewItineraryService(tripRepo, itineraryRepo, txManager, logger)
	communityService := service.NewCommunityService(tripRepo, communityRepo, tripService, publicCache, logger)
	profileService := service.NewProfileService(profileRepo, logger)
	exportService := service.NewExportService(tripService, logger)

	// Handlers
	tripHandler := handler.NewTripHandler(tripService, logger)
	chatHandler := handler.NewChatHandler(chatService, logger)
	itineraryHandler := handler.NewItineraryHandler(itineraryService, exportService, logger)
	communityHandler := handler.NewCommunityHandler(communityService, logger)
	profileHandler := handler.NewProfileHandler(profileService, logger)

	logger.Info("services initialized")

	// HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Trip routes
	mux.HandleFunc("POST /api/trips", tripHandler.CreateTrip)
	mux.HandleFunc("GET /api/trips", tripHandler.ListTrips)
	mux.HandleFunc("GET /api/trips/{id}", tripHandler.GetTrip)
	mux.HandleFunc("PATCH /api/trips/{id}", tripHandler.UpdateTrip)
	mux.HandleFunc("DELETE /api/trips/{id}", tripHandler.DeleteTrip)

	// Itinerary day/item routes
	mux.HandleFunc("POST /api/trips/{id}/days", tripHandler.AddDay)
	mux.HandleFunc("DELETE /api/days/{id}", tripHandler.DeleteDay)
	mux.HandleFunc("POST /api/days/{id}/items", tripHandler.AddItem)
	mux.HandleFunc("PATCH /api/items/{id}", tripHandler.UpdateItem)
	mux.HandleFunc("DELETE /api/items/{id}", tripHandler.DeleteItem)

	// Assistant-text itinerary save and calendar export
	mux.HandleFunc("POST /api/trips/{id}/itinerary", itineraryHandler.SaveItinerary)
	mux.HandleFunc("GET /api/trips/{id}/export.ics", itineraryHandler.ExportICS)

	// Chat routes
	mux.HandleFunc("POST /api/sessions", chatHandler.CreateSession)
	mux.HandleFunc("GET /api/sessions", chatHandler.ListSessions)
	mux.HandleFunc("GET /api/sessions/{id}", chatHandler.GetSession)
	mux.HandleFunc("DELETE /api/sessions/{id}", chatHandler.DeleteSession)
	mux.HandleFunc("GET /api/sessions/{id}/messages", chatHandler.ListMessages)
	mux.HandleFunc("POST /api/sessions/{id}/messages", chatHandler.AddMessage)
	mux.HandleFunc("POST /api/sessions/{id}/stream", chatHandler.StreamMessage) // SSE relay

	// Sharing and community routes
	mux.HandleFunc("POST /api/trips/{id}/share", communityHandler.ShareTrip)
	mux.HandleFunc("DELETE /api/trips/{id}/share", communityHandler.UnshareTrip)
	mux.HandleFunc("GET /api/share/{slug}", communityHandler.GetSharedTrip) // public
	mux.HandleFunc("POST /api/trips/{id}/publish", communityHandler.PublishTrip)
	mux.HandleFunc("DELETE /api/trips/{id}/publish", communityHandler.UnpublishTrip)
	mux.HandleFunc("GET /api/community", communityHandler.ListCommunity) // public

	// Profile routes
	mux.HandleFunc("GET /api/users/me/profile", profileHandler.GetProfile)
	mux.HandleFunc("PATCH /api/users/me/profile", profileHandler.UpdateProfile)

	// Middleware chain, applied in reverse order
	// Order: CORS → Recovery → Auth → Routes
	var root http.Handler = mux
	root = middleware.Auth(jwtVerifier, logger)(root)
	root = middleware.Recovery(logger)(root)

	// CORS must be outermost to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", "Last-Event-ID"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // Disabled to allow long-lived SSE streams
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
