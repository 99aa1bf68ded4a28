package itinerary

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/munishbansal2000/layla-sub001/internal/api/places"
	"github.com/munishbansal2000/layla-sub001/internal/types"
)

// mealRepair is one meal slot flagged as geographically incompatible with
// its neighbors, plus the point replacements should cluster around.
type mealRepair struct {
	dayIdx    int
	slotIdx   int
	center    types.Coordinates
	violation types.ConstraintViolation
}

// repairClustering detects lunch/dinner slots farther than walking distance
// from the most recent non-meal activity and, when autoRepair is on,
// substitutes nearby alternatives from the place-search collaborator.
// Every violation stays in the returned report, with Resolution set on the
// repaired ones; a failed search leaves the slot as-is.
func (s *ServiceImpl) repairClustering(ctx context.Context, itin types.Itinerary, autoRepair bool) (types.Itinerary, []types.ConstraintViolation) {
	out := itin.Clone()
	repairs := s.findClusteringViolations(out)
	if len(repairs) == 0 {
		return out, nil
	}

	if autoRepair && s.search != nil {
		pip := s.cfg.Pipeline
		runInBatches(ctx, len(repairs), pip.SearchBatchSize, pip.SearchBatchPause, func(ctx context.Context, i int) {
			r := &repairs[i]
			venues, err := s.search.SearchNearby(ctx, r.center, pip.SearchRadiusMeters, pip.MaxReplacementOptions, places.SortByDistance)
			if err != nil || len(venues) == 0 {
				if err != nil {
					s.logger.WarnContext(ctx, "clustering repair search failed, leaving slot as-is",
						slog.String("slot_id", out.Days[r.dayIdx].Slots[r.slotIdx].ID),
						slog.Any("error", err))
					if s.metrics != nil {
						s.metrics.CollaboratorFailuresTotal.Add(ctx, 1)
					}
				}
				return
			}
			slot := &out.Days[r.dayIdx].Slots[r.slotIdx]
			slot.Options = venueOptions(venues, pip.MaxReplacementOptions)
			r.violation.Resolution = fmt.Sprintf("replaced with %s", venues[0].Name)
		})
	}

	var report []types.ConstraintViolation
	for _, r := range repairs {
		report = append(report, r.violation)
	}
	return out, report
}

// findClusteringViolations walks each day tracking the coordinates of the
// most recent non-meal activity and flags meal slots whose first option is
// beyond the walking-distance threshold from it.
func (s *ServiceImpl) findClusteringViolations(itin types.Itinerary) []mealRepair {
	threshold := s.cfg.Constraints.WalkingDistanceMeters
	var repairs []mealRepair

	for di := range itin.Days {
		day := &itin.Days[di]
		var last types.Coordinates
		haveLast := false

		for si := range day.Slots {
			slot := &day.Slots[si]
			opt := slot.First()

			if !slot.IsMeal() {
				if opt != nil && !opt.Activity.Place.Coordinates.IsZero() {
					last = opt.Activity.Place.Coordinates
					haveLast = true
				}
				continue
			}
			if slot.Type != types.SlotLunch && slot.Type != types.SlotDinner {
				continue
			}
			if !haveLast || opt == nil || opt.Activity.Place.Coordinates.IsZero() {
				continue
			}

			dist := places.DistanceMeters(last, opt.Activity.Place.Coordinates)
			if dist <= threshold {
				continue
			}
			repairs = append(repairs, mealRepair{
				dayIdx:  di,
				slotIdx: si,
				center:  last,
				violation: types.ConstraintViolation{
					Layer:     types.LayerClustering,
					Severity:  types.SeverityWarning,
					SlotID:    slot.ID,
					DayNumber: day.DayNumber,
					Message: fmt.Sprintf("%s %q is %.1f km from the surrounding activities (walkable limit %.1f km)",
						slot.Type, opt.Activity.Name, dist/1000, threshold/1000),
				},
			})
		}
	}
	return repairs
}

// venueOptions converts collaborator venues into a ranked option sequence,
// keeping the collaborator's own ordering.
func venueOptions(venues []places.Venue, limit int) []types.ActivityOption {
	if len(venues) > limit {
		venues = venues[:limit]
	}
	opts := make([]types.ActivityOption, 0, len(venues))
	for i, v := range venues {
		opts = append(opts, types.ActivityOption{
			ID:       uuid.New().String(),
			Rank:     i + 1,
			Score:    float64(80 - 10*i),
			Selected: i == 0,
			Activity: types.Activity{
				Name:            v.Name,
				Category:        venueCategory(v),
				DurationMinutes: 60,
				Place: types.Place{
					ID:           v.PlaceID,
					Name:         v.Name,
					Coordinates:  v.Coordinates,
					Neighborhood: v.Neighborhood,
					Cost:         priceLevelCost(v.PriceLevel),
				},
				Tags:   venueTags(v),
				Source: "place_search",
			},
			MatchReasons: []string{"within walking distance of nearby activities"},
		})
	}
	return opts
}

func venueCategory(v places.Venue) string {
	if v.Category != "" {
		return v.Category
	}
	return "restaurant"
}

// priceLevelCost maps the collaborator's 1-4 price tier onto a display cost.
func priceLevelCost(level int) string {
	if level <= 0 {
		return ""
	}
	if level > 4 {
		level = 4
	}
	return strings.Repeat("$", level)
}

func venueTags(v places.Venue) []string {
	var tags []string
	if v.Cuisine != "" {
		tags = append(tags, strings.ToLower(v.Cuisine))
	}
	if v.Rating >= 4.5 && v.ReviewCount >= 100 {
		tags = append(tags, "highly rated")
	}
	return tags
}
