package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/munishbansal2000/layla-sub001/internal/api/places"
	"github.com/munishbansal2000/layla-sub001/internal/types"
)

// itineraryIndex is the precomputed lookup set that lets each candidate be
// checked in constant time against the whole itinerary. Built once per
// FilterSuggestions call.
type itineraryIndex struct {
	names         map[string]int // lowercased activity name -> first day number
	placeIDs      map[string]int
	categoryByDay map[int]map[string]int
	coordsByDay   map[int][]types.Coordinates
	durationByDay map[int]int // cumulative activity minutes
}

func buildIndex(itin types.Itinerary) *itineraryIndex {
	idx := &itineraryIndex{
		names:         make(map[string]int),
		placeIDs:      make(map[string]int),
		categoryByDay: make(map[int]map[string]int),
		coordsByDay:   make(map[int][]types.Coordinates),
		durationByDay: make(map[int]int),
	}
	for di := range itin.Days {
		day := &itin.Days[di]
		cats := make(map[string]int)
		for si := range day.Slots {
			opt := day.Slots[si].First()
			if opt == nil {
				continue
			}
			name := strings.ToLower(strings.TrimSpace(opt.Activity.Name))
			if name != "" {
				if _, ok := idx.names[name]; !ok {
					idx.names[name] = day.DayNumber
				}
			}
			if id := opt.Activity.Place.ID; id != "" {
				if _, ok := idx.placeIDs[id]; !ok {
					idx.placeIDs[id] = day.DayNumber
				}
			}
			if cat := strings.ToLower(opt.Activity.Category); cat != "" {
				cats[cat]++
			}
			if !opt.Activity.Place.Coordinates.IsZero() {
				idx.coordsByDay[day.DayNumber] = append(idx.coordsByDay[day.DayNumber], opt.Activity.Place.Coordinates)
			}
			idx.durationByDay[day.DayNumber] += opt.Activity.DurationMinutes
		}
		idx.categoryByDay[day.DayNumber] = cats
	}
	return idx
}

// FilterCandidates drops invalid candidates, adjusts the scores of the
// survivors, attaches their warnings, and returns them sorted descending by
// adjusted score. Unlike user edits, suggestions can be rejected outright.
func (e *Engine) FilterCandidates(itin types.Itinerary, candidates []types.SuggestionCandidate, target types.SuggestionTarget) []types.RankedCandidate {
	idx := buildIndex(itin)
	cons := e.cfg.Constraints

	var out []types.RankedCandidate
	for _, cand := range candidates {
		adjustment := 0.0
		var warnings []string
		rejected := false

		// duplicate by name or place identifier
		name := strings.ToLower(strings.TrimSpace(cand.Activity.Name))
		if _, dup := idx.names[name]; dup {
			rejected = true
		} else if id := cand.Activity.Place.ID; id != "" {
			if _, dup := idx.placeIDs[id]; dup {
				rejected = true
			}
		}
		if rejected {
			continue
		}

		// geographic compatibility with the target day
		if coords := idx.coordsByDay[target.DayNumber]; len(coords) > 0 && !cand.Activity.Place.Coordinates.IsZero() {
			km := nearestKm(coords, cand.Activity.Place.Coordinates)
			switch {
			case km > cons.RejectDistanceKm:
				continue
			case km > cons.WarnDistanceKm:
				adjustment -= (km - cons.WarnDistanceKm) * 2
				warnings = append(warnings, fmt.Sprintf("%.0f km from the day's other activities", km))
			}
		}

		// meal-category vs target slot type: dinner venue at breakfast is
		// rejected, breakfast venue at dinner is a warning
		if target.SlotType != "" {
			tagged := tagSet(cand.Activity.Tags)
			switch target.SlotType {
			case types.SlotBreakfast:
				if tagged["dinner"] {
					continue
				}
			case types.SlotDinner:
				if tagged["breakfast"] && !tagged["dinner"] {
					adjustment -= 5
					warnings = append(warnings, "tagged breakfast, proposed for dinner")
				}
			}
		}

		// slot duration overflow against the target window
		if target.TimeRange != nil {
			window := rangeMinutes(*target.TimeRange)
			if window > 0 && cand.Activity.DurationMinutes > window+cons.DurationToleranceMinutes {
				continue
			}
		}

		// same-category repetition: penalty grows with repeat count
		if cat := strings.ToLower(cand.Activity.Category); cat != "" {
			if n := idx.categoryByDay[target.DayNumber][cat]; n > 0 {
				adjustment -= float64(5 * n)
				warnings = append(warnings, fmt.Sprintf("%d %s activities already that day", n, cat))
			}
		}

		// day budget checks
		if coords := idx.coordsByDay[target.DayNumber]; len(coords) > 0 && !cand.Activity.Place.Coordinates.IsZero() {
			km := nearestKm(coords, cand.Activity.Place.Coordinates)
			addedTravel := km / 5 * float64(cons.CommuteMinutesPerFiveKm)
			if addedTravel > float64(cons.TravelBudgetMinutes)/3 {
				adjustment -= 10
				warnings = append(warnings, "adds a long commute to the day")
			}
		}
		if idx.durationByDay[target.DayNumber]+cand.Activity.DurationMinutes > cons.PacingWarnMinutes {
			adjustment -= 5
			warnings = append(warnings, "would overpack the day")
		}

		out = append(out, types.RankedCandidate{
			Activity: cand.Activity,
			Score:    cand.Score + adjustment,
			Warnings: warnings,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// RejectionReason explains why a candidate would be filtered out, for
// callers that want the reason rather than silent absence.
func (e *Engine) RejectionReason(itin types.Itinerary, cand types.SuggestionCandidate, target types.SuggestionTarget) (string, bool) {
	idx := buildIndex(itin)
	cons := e.cfg.Constraints

	name := strings.ToLower(strings.TrimSpace(cand.Activity.Name))
	if day, dup := idx.names[name]; dup {
		return fmt.Sprintf("already in the itinerary on Day %d", day), true
	}
	if id := cand.Activity.Place.ID; id != "" {
		if day, dup := idx.placeIDs[id]; dup {
			return fmt.Sprintf("already in the itinerary on Day %d", day), true
		}
	}
	if coords := idx.coordsByDay[target.DayNumber]; len(coords) > 0 && !cand.Activity.Place.Coordinates.IsZero() {
		if km := nearestKm(coords, cand.Activity.Place.Coordinates); km > cons.RejectDistanceKm {
			return fmt.Sprintf("%.0f km away from the day's activities (limit %.0f km)", km, cons.RejectDistanceKm), true
		}
	}
	if target.SlotType == types.SlotBreakfast && tagSet(cand.Activity.Tags)["dinner"] {
		return "dinner venue proposed for breakfast", true
	}
	if target.TimeRange != nil {
		window := rangeMinutes(*target.TimeRange)
		if window > 0 && cand.Activity.DurationMinutes > window+cons.DurationToleranceMinutes {
			return "does not fit the slot's time window", true
		}
	}
	return "", false
}

func nearestKm(coords []types.Coordinates, point types.Coordinates) float64 {
	best := -1.0
	for _, c := range coords {
		km := places.DistanceKm(c, point)
		if best < 0 || km < best {
			best = km
		}
	}
	return best
}

func tagSet(tags []string) map[string]bool {
	out := make(map[string]bool, len(tags))
	for _, t := range tags {
		out[strings.ToLower(t)] = true
	}
	return out
}
