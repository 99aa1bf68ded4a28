package itinerary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/munishbansal2000/layla-sub001/app/observability/metrics"
	"github.com/munishbansal2000/layla-sub001/config"
	"github.com/munishbansal2000/layla-sub001/internal/api/places"
	"github.com/munishbansal2000/layla-sub001/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// Generator is the generation collaborator boundary: a curated data source
// or a language model. A structured result skips the text-repair stage.
type Generator interface {
	Generate(ctx context.Context, trip types.TripContext) (types.GenerationResult, error)
}

// Service is the business logic contract for itinerary construction and
// structural edits. Every operation returns a new Itinerary value; inputs
// are never mutated.
type Service interface {
	GenerateItinerary(ctx context.Context, trip types.TripContext) (types.Itinerary, []types.ConstraintViolation, error)
	BuildItinerary(ctx context.Context, result types.GenerationResult, trip types.TripContext) (types.Itinerary, []types.ConstraintViolation, error)

	SwapOption(itin types.Itinerary, slotID string, option types.ActivityOption) (types.Itinerary, error)
	FillSlot(itin types.Itinerary, slotID string, options []types.ActivityOption) (types.Itinerary, error)
	ReorderDays(itin types.Itinerary, order []int) (types.Itinerary, error)
	ReorderSlots(itin types.Itinerary, dayNumber int, order []string) (types.Itinerary, error)
	AddSlot(itin types.Itinerary, dayNumber int, slot types.Slot) (types.Itinerary, error)
	RemoveSlot(itin types.Itinerary, slotID string) (types.Itinerary, error)
}

type ServiceImpl struct {
	logger    *slog.Logger
	cfg       *config.Config
	generator Generator // primary, usually model-backed
	fallback  Generator // curated data source, used when repair gives up
	search    places.SearchClient
	commutes  *places.CommuteEstimator
	metrics   *metrics.AppMetrics // optional
}

func NewServiceImpl(cfg *config.Config, generator, fallback Generator, search places.SearchClient, commutes *places.CommuteEstimator, m *metrics.AppMetrics, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:    logger,
		cfg:       cfg,
		generator: generator,
		fallback:  fallback,
		search:    search,
		commutes:  commutes,
		metrics:   m,
	}
}

// GenerateItinerary runs the generation collaborator and builds the result.
// A ParseError from the repair stage triggers the fall back to the
// data-source generator; anything else is surfaced.
func (s *ServiceImpl) GenerateItinerary(ctx context.Context, trip types.TripContext) (types.Itinerary, []types.ConstraintViolation, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "GenerateItinerary")
	defer span.End()
	span.SetAttributes(
		attribute.String("trip.destination", trip.Destination),
		attribute.Int("trip.num_days", trip.NumDays),
	)

	result, err := s.generator.Generate(ctx, trip)
	if err != nil {
		span.RecordError(err)
		return types.Itinerary{}, nil, fmt.Errorf("generation failed: %w", err)
	}

	itin, report, err := s.BuildItinerary(ctx, result, trip)
	var parseErr *types.ParseError
	if errors.As(err, &parseErr) && s.fallback != nil {
		s.logger.WarnContext(ctx, "model output unrecoverable, falling back to data source",
			slog.Int64("offset", parseErr.Offset))
		span.AddEvent("fallback to data source")

		result, err = s.fallback.Generate(ctx, trip)
		if err != nil {
			span.RecordError(err)
			return types.Itinerary{}, nil, fmt.Errorf("fallback generation failed: %w", err)
		}
		itin, report, err = s.BuildItinerary(ctx, result, trip)
	}
	if err != nil {
		span.RecordError(err)
		return types.Itinerary{}, nil, err
	}
	span.SetStatus(codes.Ok, "Itinerary generated")
	return itin, report, nil
}

// BuildItinerary runs the full construction pipeline over one generation
// result: repair (model path only) → normalize → anchors → transfers →
// impossible-slot pruning → clustering repair → restaurant filling →
// commute annotation. Each stage consumes and returns a full Itinerary
// value, so the pipeline can be replayed or tested stage by stage. The
// returned violations are the stage warnings; a full validation pass is the
// validation service's job.
func (s *ServiceImpl) BuildItinerary(ctx context.Context, result types.GenerationResult, trip types.TripContext) (types.Itinerary, []types.ConstraintViolation, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "BuildItinerary")
	defer span.End()
	started := time.Now()

	var candidate types.Itinerary
	if result.IsStructured() {
		candidate = *result.Itinerary
	} else {
		parsed, err := parseGenerationText(result.RawText)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Repair failed")
			return types.Itinerary{}, nil, err
		}
		candidate = parsed
	}

	var report []types.ConstraintViolation

	itin := normalizeItinerary(candidate, trip)
	itin = s.injectAnchors(itin, trip.Anchors)

	itin, transferWarnings := s.scheduleTransfers(itin, trip)
	report = append(report, transferWarnings...)

	itin, pruneWarnings := s.pruneImpossibleSlots(itin, trip)
	report = append(report, pruneWarnings...)

	itin, clusterReport := s.repairClustering(ctx, itin, true)
	report = append(report, clusterReport...)

	itin = s.fillRestaurantSlots(ctx, itin)
	itin = s.annotateCommutes(ctx, itin)

	if s.metrics != nil {
		s.metrics.BuildsTotal.Add(ctx, 1)
		s.metrics.BuildDurationSeconds.Record(ctx, time.Since(started).Seconds())
	}
	span.SetAttributes(
		attribute.Int("itinerary.days", len(itin.Days)),
		attribute.Int("report.violations", len(report)),
		attribute.Float64("build.seconds", time.Since(started).Seconds()),
	)
	span.SetStatus(codes.Ok, "Itinerary built")
	return itin, report, nil
}

// annotateCommutes enriches each slot with the commute from the previous
// located activity. Enrichment only: validation never gates on it, and the
// haversine estimator keeps it available when routing is down.
func (s *ServiceImpl) annotateCommutes(ctx context.Context, itin types.Itinerary) types.Itinerary {
	if s.commutes == nil {
		return itin
	}
	out := itin.Clone()
	for di := range out.Days {
		day := &out.Days[di]
		var prev types.Coordinates
		havePrev := false
		for si := range day.Slots {
			slot := &day.Slots[si]
			opt := slot.First()
			if opt == nil || opt.Activity.Place.Coordinates.IsZero() {
				continue
			}
			here := opt.Activity.Place.Coordinates
			if havePrev {
				d := s.commutes.Duration(ctx, prev, here)
				slot.CommuteFromPrev = &types.Commute{
					Mode:            "walk/transit",
					DurationMinutes: int(d.Minutes()),
					DistanceKm:      places.DistanceKm(prev, here),
				}
			}
			prev = here
			havePrev = true
		}
	}
	return out
}
