package metrics

import (
	"log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	BuildsTotal               metric.Int64Counter
	BuildDurationSeconds      metric.Float64Histogram
	ValidationPassesTotal     metric.Int64Counter
	CollaboratorFailuresTotal metric.Int64Counter
}

// InitAppMetrics creates the metric instruments from the globally configured
// MeterProvider. The instance is constructed once at startup and passed to
// whoever records on it; there is no package-level singleton.
func InitAppMetrics() *AppMetrics {
	meter := otel.GetMeterProvider().Meter("ItineraryPlanner")
	m := &AppMetrics{}
	var err error

	m.BuildsTotal, err = meter.Int64Counter(
		"itinerary_builds_total",
		metric.WithDescription("Total number of itinerary pipeline runs"),
		metric.WithUnit("{build}"),
	)
	if err != nil {
		log.Fatalf("Metrics: Failed to create itinerary_builds_total: %v", err)
	}

	m.BuildDurationSeconds, err = meter.Float64Histogram(
		"itinerary_build_duration_seconds",
		metric.WithDescription("Duration of full pipeline runs in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		log.Fatalf("Metrics: Failed to create itinerary_build_duration_seconds: %v", err)
	}

	m.ValidationPassesTotal, err = meter.Int64Counter(
		"validation_passes_total",
		metric.WithDescription("Total number of full validation passes"),
		metric.WithUnit("{pass}"),
	)
	if err != nil {
		log.Fatalf("Metrics: Failed to create validation_passes_total: %v", err)
	}

	m.CollaboratorFailuresTotal, err = meter.Int64Counter(
		"collaborator_failures_total",
		metric.WithDescription("External search/routing calls that fell back"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		log.Fatalf("Metrics: Failed to create collaborator_failures_total: %v", err)
	}

	return m
}
