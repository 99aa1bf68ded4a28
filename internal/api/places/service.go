package places

import (
	"context"
	"errors"
	"time"

	"github.com/munishbansal2000/layla-sub001/internal/types"
)

// SortBy selects the ordering the search collaborator applies to results.
type SortBy string

const (
	SortByDistance SortBy = "distance"
	SortByRating   SortBy = "rating"
)

// Venue is one ranked result from the place-search collaborator.
type Venue struct {
	Name         string            `json:"name"`
	PlaceID      string            `json:"place_id,omitempty"`
	Coordinates  types.Coordinates `json:"coordinates"`
	Neighborhood string            `json:"neighborhood,omitempty"`
	Category     string            `json:"category,omitempty"`
	Cuisine      string            `json:"cuisine,omitempty"`
	PriceLevel   int               `json:"price_level,omitempty"` // 1-4
	Rating       float64           `json:"rating,omitempty"`
	ReviewCount  int               `json:"review_count,omitempty"`
}

// SearchClient is the place/restaurant search collaborator boundary. The
// core never depends on a concrete provider; failures are caught by callers
// and replaced by a "leave slot as-is" fallback.
type SearchClient interface {
	SearchNearby(ctx context.Context, center types.Coordinates, radiusMeters float64, limit int, sortBy SortBy) ([]Venue, error)
}

// ErrCommuteUnavailable signals the routing collaborator could not answer;
// callers fall back to EstimateCommute.
var ErrCommuteUnavailable = errors.New("commute duration unavailable")

// CommuteClient is the routing collaborator boundary, used for enrichment
// only; validation never gates on it.
type CommuteClient interface {
	CommuteDuration(ctx context.Context, from, to types.Coordinates) (time.Duration, error)
}

// CommuteEstimator resolves a commute via the routing collaborator when one
// is configured, always falling back to the distance-based estimate.
type CommuteEstimator struct {
	client       CommuteClient // may be nil
	minPerFiveKm int
}

func NewCommuteEstimator(client CommuteClient, minutesPerFiveKm int) *CommuteEstimator {
	return &CommuteEstimator{client: client, minPerFiveKm: minutesPerFiveKm}
}

// Duration returns the commute between two points. A collaborator failure is
// absorbed, never propagated.
func (e *CommuteEstimator) Duration(ctx context.Context, from, to types.Coordinates) time.Duration {
	if e.client != nil {
		if d, err := e.client.CommuteDuration(ctx, from, to); err == nil {
			return d
		}
	}
	return EstimateCommute(from, to, e.minPerFiveKm)
}

// EstimateCommute is the haversine fallback: ~minutesPerFiveKm of travel per
// 5 km of straight-line distance.
func EstimateCommute(from, to types.Coordinates, minutesPerFiveKm int) time.Duration {
	km := DistanceKm(from, to)
	minutes := km / 5 * float64(minutesPerFiveKm)
	return time.Duration(minutes * float64(time.Minute))
}
