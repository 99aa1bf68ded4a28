package validation

import (
	"context"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/munishbansal2000/layla-sub001/app/observability/metrics"
	"github.com/munishbansal2000/layla-sub001/config"
	"github.com/munishbansal2000/layla-sub001/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// Service is the continuous validation contract: full passes, health
// summaries, suggestion filtering and user-action annotation. The cached
// ValidationState is keyed by itinerary ID and must be invalidated by the
// owner whenever the itinerary changes; there is no implicit staleness
// detection.
type Service interface {
	Validate(ctx context.Context, itin types.Itinerary) types.ValidationState
	GetHealthSummary(ctx context.Context, itin types.Itinerary) types.HealthSummary
	FilterSuggestions(ctx context.Context, candidates []types.SuggestionCandidate, itin types.Itinerary, target types.SuggestionTarget) []types.RankedCandidate
	ValidateUserAction(ctx context.Context, itin types.Itinerary, action types.UserAction) types.UserActionResult
	Invalidate(itineraryID string)
}

type ServiceImpl struct {
	logger  *slog.Logger
	engine  *Engine
	states  *cache.Cache
	metrics *metrics.AppMetrics // optional
}

func NewServiceImpl(cfg *config.Config, m *metrics.AppMetrics, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:  logger,
		engine:  NewEngine(cfg),
		states:  cache.New(10*time.Minute, 20*time.Minute),
		metrics: m,
	}
}

func (s *ServiceImpl) Validate(ctx context.Context, itin types.Itinerary) types.ValidationState {
	_, span := otel.Tracer("ValidationService").Start(ctx, "Validate")
	defer span.End()
	span.SetAttributes(attribute.String("itinerary.id", itin.ID))

	if itin.ID != "" {
		if cached, found := s.states.Get(itin.ID); found {
			if state, ok := cached.(types.ValidationState); ok {
				span.SetStatus(codes.Ok, "Served from cache")
				return state
			}
		}
	}

	state := s.engine.Validate(itin)
	if itin.ID != "" {
		s.states.Set(itin.ID, state, cache.DefaultExpiration)
	}
	if s.metrics != nil {
		s.metrics.ValidationPassesTotal.Add(ctx, 1)
	}

	span.SetAttributes(
		attribute.Int("violations", len(state.Violations)),
		attribute.Int("health_score", state.HealthScore),
	)
	span.SetStatus(codes.Ok, "Validation pass completed")
	return state
}

// Invalidate drops the cached state for an itinerary. The owner calls this
// on every edit; consumers re-fetch instead of assuming freshness.
func (s *ServiceImpl) Invalidate(itineraryID string) {
	if itineraryID != "" {
		s.states.Delete(itineraryID)
	}
}

func (s *ServiceImpl) GetHealthSummary(ctx context.Context, itin types.Itinerary) types.HealthSummary {
	state := s.Validate(ctx, itin)

	summary := types.HealthSummary{Score: state.HealthScore}
	switch {
	case state.HealthScore >= 90:
		summary.Status = "healthy"
	case state.HealthScore >= 60:
		summary.Status = "needs attention"
	default:
		summary.Status = "at risk"
	}

	for _, v := range state.Violations {
		if v.Severity == types.SeverityError {
			summary.TopIssues = append(summary.TopIssues, v.Message)
		}
	}
	for _, v := range state.Violations {
		if len(summary.TopIssues) >= 3 {
			break
		}
		if v.Severity == types.SeverityWarning {
			summary.TopIssues = append(summary.TopIssues, v.Message)
		}
	}
	if len(summary.TopIssues) > 3 {
		summary.TopIssues = summary.TopIssues[:3]
	}
	return summary
}

func (s *ServiceImpl) FilterSuggestions(ctx context.Context, candidates []types.SuggestionCandidate, itin types.Itinerary, target types.SuggestionTarget) []types.RankedCandidate {
	_, span := otel.Tracer("ValidationService").Start(ctx, "FilterSuggestions")
	defer span.End()

	ranked := s.engine.FilterCandidates(itin, candidates, target)
	span.SetAttributes(
		attribute.Int("candidates.in", len(candidates)),
		attribute.Int("candidates.out", len(ranked)),
	)
	span.SetStatus(codes.Ok, "Candidates filtered")
	return ranked
}

func (s *ServiceImpl) ValidateUserAction(ctx context.Context, itin types.Itinerary, action types.UserAction) types.UserActionResult {
	_, span := otel.Tracer("ValidationService").Start(ctx, "ValidateUserAction")
	defer span.End()
	span.SetAttributes(attribute.String("action.type", string(action.Type)))

	result := s.engine.ValidateAction(itin, action)
	if result.MaxSeverity != "" {
		span.SetAttributes(attribute.String("action.max_severity", string(result.MaxSeverity)))
	}
	span.SetStatus(codes.Ok, "Action annotated")
	return result
}
