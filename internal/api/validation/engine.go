package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/munishbansal2000/layla-sub001/config"
	"github.com/munishbansal2000/layla-sub001/internal/api/places"
	"github.com/munishbansal2000/layla-sub001/internal/types"
)

// Engine runs the constraint check battery. It is explicitly constructed
// and passed in by its owner; it holds no mutable state of its own, so one
// engine can serve any number of itineraries.
type Engine struct {
	cfg *config.Config
}

func NewEngine(cfg *config.Config) *Engine {
	return &Engine{cfg: cfg}
}

// Validate runs the full battery over one itinerary snapshot and returns a
// fresh ValidationState. Running it twice on an unchanged itinerary yields
// identical violations and health score: every scan is slice-ordered.
func (e *Engine) Validate(itin types.Itinerary) types.ValidationState {
	var violations []types.ConstraintViolation

	violations = append(violations, e.checkDuplicates(itin)...)
	for i := range itin.Days {
		violations = append(violations, e.checkDay(&itin.Days[i])...)
	}

	state := types.ValidationState{
		Violations: violations,
		ByDay:      make(map[int][]types.ConstraintViolation),
		BySlot:     make(map[string][]types.ConstraintViolation),
		CheckedAt:  time.Now(),
	}
	errorsN, warningsN, infosN := 0, 0, 0
	for _, v := range violations {
		if v.DayNumber > 0 {
			state.ByDay[v.DayNumber] = append(state.ByDay[v.DayNumber], v)
		}
		if v.SlotID != "" {
			state.BySlot[v.SlotID] = append(state.BySlot[v.SlotID], v)
		}
		switch v.Severity {
		case types.SeverityError:
			errorsN++
		case types.SeverityWarning:
			warningsN++
		case types.SeverityInfo:
			infosN++
		}
	}
	state.HealthScore = healthScore(errorsN, warningsN, infosN)
	state.Valid = errorsN == 0
	return state
}

// healthScore aggregates violation counts: clamp(100 - 15E - 5W - 1I, 0, 100).
func healthScore(errors, warnings, infos int) int {
	score := 100 - 15*errors - 5*warnings - 1*infos
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// checkDuplicates flags any two options across the itinerary sharing a name
// or place identifier.
func (e *Engine) checkDuplicates(itin types.Itinerary) []types.ConstraintViolation {
	var out []types.ConstraintViolation
	seenName := make(map[string]int) // -> day number of first sighting
	seenPlace := make(map[string]int)

	for di := range itin.Days {
		day := &itin.Days[di]
		for si := range day.Slots {
			opt := day.Slots[si].First()
			if opt == nil {
				continue
			}
			name := strings.ToLower(strings.TrimSpace(opt.Activity.Name))
			placeID := opt.Activity.Place.ID

			if name != "" {
				if first, dup := seenName[name]; dup {
					out = append(out, types.ConstraintViolation{
						Layer:     types.LayerDuplicate,
						Severity:  types.SeverityWarning,
						SlotID:    day.Slots[si].ID,
						DayNumber: day.DayNumber,
						Message:   fmt.Sprintf("%q already appears on Day %d", opt.Activity.Name, first),
					})
					continue
				}
				seenName[name] = day.DayNumber
			}
			if placeID != "" {
				if first, dup := seenPlace[placeID]; dup {
					out = append(out, types.ConstraintViolation{
						Layer:     types.LayerDuplicate,
						Severity:  types.SeverityWarning,
						SlotID:    day.Slots[si].ID,
						DayNumber: day.DayNumber,
						Message:   fmt.Sprintf("place of %q already visited on Day %d", opt.Activity.Name, first),
					})
					continue
				}
				seenPlace[placeID] = day.DayNumber
			}
		}
	}
	return out
}

func (e *Engine) checkDay(day *types.Day) []types.ConstraintViolation {
	var out []types.ConstraintViolation
	cons := e.cfg.Constraints

	categoryCount := make(map[string]int)
	totalActivityMinutes := 0
	travelMinutes := 0.0
	var prev types.Coordinates
	havePrev := false

	for si := range day.Slots {
		slot := &day.Slots[si]
		opt := slot.First()
		if opt == nil {
			continue
		}

		// slot-duration overflow, tolerance +30
		slotMinutes := rangeMinutes(slot.TimeRange)
		if slotMinutes > 0 && opt.Activity.DurationMinutes > slotMinutes+cons.DurationToleranceMinutes {
			out = append(out, types.ConstraintViolation{
				Layer:     types.LayerTemporal,
				Severity:  types.SeverityWarning,
				SlotID:    slot.ID,
				DayNumber: day.DayNumber,
				Message: fmt.Sprintf("%q needs %d min but the slot holds %d",
					opt.Activity.Name, opt.Activity.DurationMinutes, slotMinutes),
				Resolution: "widen the slot or pick a shorter option",
			})
		}

		// meal-category vs time-of-day
		if v := mealMismatch(slot, opt); v != nil {
			v.DayNumber = day.DayNumber
			out = append(out, *v)
		}

		// same-category repetition
		cat := strings.ToLower(opt.Activity.Category)
		if cat != "" && cat != "transfer" {
			categoryCount[cat]++
			if categoryCount[cat] == 3 {
				out = append(out, types.ConstraintViolation{
					Layer:     types.LayerPacing,
					Severity:  types.SeverityInfo,
					SlotID:    slot.ID,
					DayNumber: day.DayNumber,
					Message:   fmt.Sprintf("3 or more %s activities on the same day", cat),
				})
			}
		}

		totalActivityMinutes += opt.Activity.DurationMinutes

		// geographic jumps between consecutive located activities
		here := opt.Activity.Place.Coordinates
		if !here.IsZero() {
			if havePrev {
				km := places.DistanceKm(prev, here)
				switch {
				case km > cons.RejectDistanceKm:
					out = append(out, types.ConstraintViolation{
						Layer:      types.LayerClustering,
						Severity:   types.SeverityError,
						SlotID:     slot.ID,
						DayNumber:  day.DayNumber,
						Message:    fmt.Sprintf("%q is %.0f km from the previous activity", opt.Activity.Name, km),
						Resolution: "move it to a day spent in that area",
					})
				case km > cons.WarnDistanceKm:
					out = append(out, types.ConstraintViolation{
						Layer:     types.LayerClustering,
						Severity:  types.SeverityWarning,
						SlotID:    slot.ID,
						DayNumber: day.DayNumber,
						Message:   fmt.Sprintf("%q is %.0f km from the previous activity", opt.Activity.Name, km),
					})
				}
				travelMinutes += km / 5 * float64(cons.CommuteMinutesPerFiveKm)
			}
			prev = here
			havePrev = true
		}
	}

	if travelMinutes > float64(cons.TravelBudgetMinutes) {
		out = append(out, types.ConstraintViolation{
			Layer:     types.LayerPacing,
			Severity:  types.SeverityWarning,
			DayNumber: day.DayNumber,
			Message: fmt.Sprintf("estimated %d min of travel within the day (budget %d)",
				int(travelMinutes), cons.TravelBudgetMinutes),
			Resolution: "cluster the day's activities more tightly",
		})
	}
	if totalActivityMinutes > cons.PacingWarnMinutes {
		out = append(out, types.ConstraintViolation{
			Layer:     types.LayerPacing,
			Severity:  types.SeverityWarning,
			DayNumber: day.DayNumber,
			Message: fmt.Sprintf("%d min of planned activity is a packed day (threshold %d)",
				totalActivityMinutes, cons.PacingWarnMinutes),
		})
	}
	return out
}

// mealMismatch applies the asymmetric meal rule: a dinner venue proposed
// for breakfast is an error, a breakfast venue at dinner only a warning
// (plenty of places serve all day).
func mealMismatch(slot *types.Slot, opt *types.ActivityOption) *types.ConstraintViolation {
	tags := make(map[string]bool, len(opt.Activity.Tags))
	for _, t := range opt.Activity.Tags {
		tags[strings.ToLower(t)] = true
	}

	switch slot.Type {
	case types.SlotBreakfast:
		if tags["dinner"] {
			return &types.ConstraintViolation{
				Layer:    types.LayerTemporal,
				Severity: types.SeverityError,
				SlotID:   slot.ID,
				Message:  fmt.Sprintf("%q is a dinner venue scheduled at breakfast", opt.Activity.Name),
			}
		}
	case types.SlotDinner:
		if tags["breakfast"] && !tags["dinner"] {
			return &types.ConstraintViolation{
				Layer:    types.LayerTemporal,
				Severity: types.SeverityWarning,
				SlotID:   slot.ID,
				Message:  fmt.Sprintf("%q is tagged breakfast but scheduled at dinner", opt.Activity.Name),
			}
		}
	}
	return nil
}

// rangeMinutes returns the span of a clock range in minutes, 0 when unset.
func rangeMinutes(tr types.TimeRange) int {
	start, end := parseClock(tr.Start), parseClock(tr.End)
	if start < 0 || end < 0 || end < start {
		return 0
	}
	return end - start
}

func parseClock(s string) int {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return -1
	}
	return t.Hour()*60 + t.Minute()
}
