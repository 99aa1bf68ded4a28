package itinerary

import (
	"time"

	"github.com/google/uuid"

	"github.com/munishbansal2000/layla-sub001/internal/types"
)

// canonicalSlotTypes are guaranteed to exist on every day after
// normalization, in schedule order.
var canonicalSlotTypes = []types.SlotType{
	types.SlotMorning,
	types.SlotLunch,
	types.SlotAfternoon,
	types.SlotDinner,
}

// normalizeItinerary converts a partially-populated candidate itinerary into
// the canonical structure: contiguous day numbers, assigned dates, resolved
// cities, guaranteed canonical slots, defaulted option ranks and scores.
// It is a pure transform and never fails; missing data gets documented
// defaults instead of a rejection.
func normalizeItinerary(candidate types.Itinerary, trip types.TripContext) types.Itinerary {
	out := candidate.Clone()

	if out.ID == "" {
		out.ID = uuid.New().String()
	}
	if out.Destination == "" {
		out.Destination = trip.Destination
	}
	if out.Country == "" {
		out.Country = trip.Country
	}

	numDays := trip.NumDays
	if numDays <= 0 {
		numDays = len(out.Days)
	}
	if numDays <= 0 {
		numDays = 1
	}

	start, startErr := time.Parse(dateLayout, trip.StartDate)

	days := make([]types.Day, numDays)
	for i := 0; i < numDays; i++ {
		var day types.Day
		if i < len(out.Days) {
			day = out.Days[i]
		}
		day.DayNumber = i + 1
		if startErr == nil {
			day.Date = start.AddDate(0, 0, i).Format(dateLayout)
		}
		if day.City == "" {
			day.City = cityForDay(trip, i, numDays)
		}
		day.Slots = normalizeSlots(day.Slots)
		days[i] = day
	}
	out.Days = days
	return out
}

// cityForDay distributes the trip's cities evenly across the days when the
// generator didn't assign one explicitly.
func cityForDay(trip types.TripContext, dayIndex, numDays int) string {
	if len(trip.Cities) == 0 {
		return trip.Destination
	}
	idx := dayIndex * len(trip.Cities) / numDays
	if idx >= len(trip.Cities) {
		idx = len(trip.Cities) - 1
	}
	return trip.Cities[idx]
}

func normalizeSlots(slots []types.Slot) []types.Slot {
	present := make(map[types.SlotType]bool, len(slots))
	out := make([]types.Slot, 0, len(slots)+len(canonicalSlotTypes))

	for _, s := range slots {
		out = append(out, normalizeSlot(s))
		present[s.Type] = true
	}

	for _, st := range canonicalSlotTypes {
		if present[st] {
			continue
		}
		out = append(out, types.Slot{
			ID:        uuid.New().String(),
			Type:      st,
			TimeRange: defaultTimeRange(st),
			Behavior:  defaultBehavior(st),
			Options:   []types.ActivityOption{},
		})
	}

	sorted := make([]types.Slot, 0, len(out))
	for _, s := range out {
		sorted = insertSlotOrdered(sorted, s)
	}
	return sorted
}

func normalizeSlot(s types.Slot) types.Slot {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.Behavior == "" {
		s.Behavior = defaultBehavior(s.Type)
	}
	if s.TimeRange.Start == "" || s.TimeRange.End == "" {
		s.TimeRange = defaultTimeRange(s.Type)
	}
	for i := range s.Options {
		opt := &s.Options[i]
		if opt.ID == "" {
			opt.ID = uuid.New().String()
		}
		if opt.Rank == 0 {
			opt.Rank = i + 1
		}
		if opt.Score == 0 {
			opt.Score = float64(80 - 10*i)
		}
	}
	if len(s.Options) > 0 && !hasSelected(s.Options) {
		s.Options[0].Selected = true
	}
	return s
}

func hasSelected(opts []types.ActivityOption) bool {
	for _, o := range opts {
		if o.Selected {
			return true
		}
	}
	return false
}

func defaultBehavior(st types.SlotType) types.SlotBehavior {
	switch st {
	case types.SlotBreakfast, types.SlotLunch, types.SlotDinner:
		return types.BehaviorMeal
	default:
		return types.BehaviorFlex
	}
}
