package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	appLogger "github.com/munishbansal2000/layla-sub001/app/logger"
	"github.com/munishbansal2000/layla-sub001/app/observability/metrics"
	"github.com/munishbansal2000/layla-sub001/app/tracer"
	"github.com/munishbansal2000/layla-sub001/config"
	generativeAI "github.com/munishbansal2000/layla-sub001/internal/api/generative_ai"
	"github.com/munishbansal2000/layla-sub001/internal/api/itinerary"
	"github.com/munishbansal2000/layla-sub001/internal/api/places"
	"github.com/munishbansal2000/layla-sub001/internal/api/validation"
	api "github.com/munishbansal2000/layla-sub001/internal/router"
)

func main() {
	// Use standard log until slog is configured, in case godotenv fails
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	logger := setupLogger()
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	tracer.InitTracingAndMetrics()
	appMetrics := metrics.InitAppMetrics()

	// --- Collaborators ---
	// The place-search and routing collaborators are deployment-specific;
	// without one the pipeline degrades to leave-slot-as-is fallbacks.
	var search places.SearchClient
	commutes := places.NewCommuteEstimator(nil, cfg.Constraints.CommuteMinutesPerFiveKm)

	var generator itinerary.Generator
	aiClient, err := generativeAI.NewAIClient(ctx, cfg.Generator.Model)
	if err != nil {
		logger.Warn("generator unavailable, only /itineraries/build will work", slog.Any("error", err))
	} else {
		generator = aiClient
	}

	// --- Services & Handlers ---
	itineraryService := itinerary.NewServiceImpl(&cfg, generator, nil, search, commutes, appMetrics, logger)
	itineraryHandler := itinerary.NewHandler(itineraryService, logger)

	validationService := validation.NewServiceImpl(&cfg, appMetrics, logger)
	validationHandler := validation.NewHandler(validationService, logger)

	routerConfig := &api.Config{
		ItineraryHandler:  itineraryHandler,
		ValidationHandler: validationHandler,
	}
	mainRouter := api.SetupRouter(routerConfig)

	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(appLogger.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.StripSlashes)
	router.Use(middleware.Timeout(cfg.Server.Timeout))
	router.Use(middleware.Compress(5, "application/json"))
	router.Mount("/", mainRouter)

	serverAddress := fmt.Sprintf(":%s", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddress,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	go func() {
		logger.Info("Starting HTTP server", slog.String("address", serverAddress))
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server ListenAndServe error", slog.Any("error", err))
			cancel()
		}
	}()

	<-ctx.Done()

	logger.Info("Shutdown signal received, starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", slog.Any("error", err))
	} else {
		logger.Info("HTTP server gracefully stopped")
	}

	logger.Info("Application shut down complete.")
}

// setupLogger configures and returns the application logger.
func setupLogger() *slog.Logger {
	var logger *slog.Logger
	env := os.Getenv("APP_ENV")

	if env == "development" || env == "" {
		// Colored logs for development
		tintOpts := &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		}
		logger = slog.New(tint.NewHandler(os.Stdout, tintOpts))
		log.Println("Initialized development logger (tint)")
	} else {
		jsonOpts := &slog.HandlerOptions{
			Level:     slog.LevelInfo,
			AddSource: false,
		}
		logger = slog.New(slog.NewJSONHandler(os.Stdout, jsonOpts))
		log.Println("Initialized production logger (JSON)")
	}
	return logger
}
