package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/munishbansal2000/layla-sub001/internal/api/itinerary"
	"github.com/munishbansal2000/layla-sub001/internal/api/validation"
)

// Config contains dependencies needed for the router setup.
type Config struct {
	ItineraryHandler  *itinerary.Handler
	ValidationHandler *validation.Handler
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, requestID, recoverer) are expected to be
// applied before mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/itineraries/generate", cfg.ItineraryHandler.Generate)
		r.Post("/itineraries/build", cfg.ItineraryHandler.Build)
		r.Post("/itineraries/edit", cfg.ItineraryHandler.Edit)

		r.Post("/itineraries/validate", cfg.ValidationHandler.Validate)
		r.Post("/itineraries/health", cfg.ValidationHandler.HealthSummary)
		r.Post("/suggestions/filter", cfg.ValidationHandler.FilterSuggestions)
		r.Post("/actions/validate", cfg.ValidationHandler.ValidateAction)
	})

	return r
}
