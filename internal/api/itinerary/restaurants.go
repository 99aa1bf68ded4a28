package itinerary

import (
	"context"
	"log/slog"

	"github.com/munishbansal2000/layla-sub001/internal/api/places"
	"github.com/munishbansal2000/layla-sub001/internal/types"
)

// fillRestaurantSlots populates meal slots the generator left empty, or
// whose current pick is beyond walking distance of the neighboring
// activity, with ranked venues near that neighbor. Slots with compatible
// options are left untouched; a failed search leaves the slot as-is.
func (s *ServiceImpl) fillRestaurantSlots(ctx context.Context, itin types.Itinerary) types.Itinerary {
	out := itin.Clone()
	if s.search == nil {
		return out
	}

	type fillTask struct {
		dayIdx, slotIdx int
		center          types.Coordinates
	}
	var tasks []fillTask

	threshold := s.cfg.Constraints.WalkingDistanceMeters
	for di := range out.Days {
		day := &out.Days[di]
		for si := range day.Slots {
			slot := &day.Slots[si]
			if !slot.IsMeal() {
				continue
			}
			neighbor, ok := nearestActivityCoords(day, si)
			if !ok {
				continue
			}
			opt := slot.First()
			if opt != nil && !opt.Activity.Place.Coordinates.IsZero() &&
				places.DistanceMeters(neighbor, opt.Activity.Place.Coordinates) <= threshold {
				continue
			}
			if opt != nil && opt.Activity.Place.Coordinates.IsZero() && opt.Activity.Name != "" {
				// The generator picked a venue we can't geolocate; trust it
				// rather than second-guess with a blind replacement.
				continue
			}
			tasks = append(tasks, fillTask{dayIdx: di, slotIdx: si, center: neighbor})
		}
	}
	if len(tasks) == 0 {
		return out
	}

	pip := s.cfg.Pipeline
	runInBatches(ctx, len(tasks), pip.SearchBatchSize, pip.SearchBatchPause, func(ctx context.Context, i int) {
		t := tasks[i]
		venues, err := s.search.SearchNearby(ctx, t.center, pip.SearchRadiusMeters, pip.MaxReplacementOptions, places.SortByRating)
		if err != nil || len(venues) == 0 {
			if err != nil {
				s.logger.WarnContext(ctx, "restaurant fill search failed, leaving slot empty",
					slog.String("slot_id", out.Days[t.dayIdx].Slots[t.slotIdx].ID),
					slog.Any("error", err))
				if s.metrics != nil {
					s.metrics.CollaboratorFailuresTotal.Add(ctx, 1)
				}
			}
			return
		}
		out.Days[t.dayIdx].Slots[t.slotIdx].Options = venueOptions(venues, pip.MaxReplacementOptions)
	})
	return out
}

// nearestActivityCoords finds the coordinates a meal slot should cluster
// around: the next non-meal activity in the day, falling back to the
// previous one.
func nearestActivityCoords(day *types.Day, slotIdx int) (types.Coordinates, bool) {
	for i := slotIdx + 1; i < len(day.Slots); i++ {
		if c, ok := activityCoords(&day.Slots[i]); ok {
			return c, true
		}
	}
	for i := slotIdx - 1; i >= 0; i-- {
		if c, ok := activityCoords(&day.Slots[i]); ok {
			return c, true
		}
	}
	return types.Coordinates{}, false
}

func activityCoords(slot *types.Slot) (types.Coordinates, bool) {
	if slot.IsMeal() || slot.Behavior == types.BehaviorTravel {
		return types.Coordinates{}, false
	}
	opt := slot.First()
	if opt == nil || opt.Activity.Place.Coordinates.IsZero() {
		return types.Coordinates{}, false
	}
	return opt.Activity.Place.Coordinates, true
}
