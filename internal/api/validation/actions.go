package validation

import (
	"fmt"

	"github.com/munishbansal2000/layla-sub001/internal/types"
)

// ValidateAction annotates a user-initiated edit. Every action is allowed;
// the engine only reports what the edit would violate, plus the highest
// severity so the caller can decide whether to ask for confirmation. This
// asymmetry with suggestion filtering is deliberate: suggestions can be
// rejected, user edits cannot.
func (e *Engine) ValidateAction(itin types.Itinerary, action types.UserAction) types.UserActionResult {
	result := types.UserActionResult{Allowed: true}

	day, slot := itin.FindSlot(action.SlotID)

	switch action.Type {
	case types.ActionMove, types.ActionRemove:
		if slot != nil && slot.Locked {
			result.Violations = append(result.Violations, types.ConstraintViolation{
				Layer:     types.LayerFragility,
				Severity:  types.SeverityError,
				SlotID:    slot.ID,
				DayNumber: dayNumber(day),
				Message:   fmt.Sprintf("slot is locked; %sing it breaks a commitment you pinned", action.Type),
			})
		}
		if action.Type == types.ActionMove && slot != nil && day != nil && action.ToDay != 0 {
			if target := itin.DayByNumber(action.ToDay); target != nil && target.City != day.City {
				result.Violations = append(result.Violations, types.ConstraintViolation{
					Layer:     types.LayerCrossDay,
					Severity:  types.SeverityWarning,
					SlotID:    slot.ID,
					DayNumber: action.ToDay,
					Message:   fmt.Sprintf("moves the activity from %s to a day spent in %s", day.City, target.City),
				})
			}
		}
		fallthrough

	case types.ActionRetime:
		if slot != nil && slot.Fragility != nil && slot.Fragility.BookingRequired {
			sev := types.SeverityWarning
			msg := "re-scheduling a booked activity may require rebooking"
			if slot.Fragility.TicketType == "timed" {
				msg = "the ticket is timed; the booking will not match the new time"
			}
			result.Violations = append(result.Violations, types.ConstraintViolation{
				Layer:      types.LayerFragility,
				Severity:   sev,
				SlotID:     slot.ID,
				DayNumber:  dayNumber(day),
				Message:    msg,
				Resolution: "rebook the ticket after confirming the move",
			})
		}
		if action.Type == types.ActionRetime && slot != nil && day != nil && action.NewTimeRange != nil {
			result.Violations = append(result.Violations, retimeOverlaps(day, slot, *action.NewTimeRange)...)
		}

	case types.ActionAdd, types.ActionSwap:
		if action.Activity != nil {
			result.Violations = append(result.Violations, e.additionViolations(itin, day, *action.Activity)...)
		}
	}

	for _, v := range result.Violations {
		if v.Severity != types.SeverityError {
			result.Warnings = append(result.Warnings, v)
		}
		result.MaxSeverity = types.MaxSeverity(result.MaxSeverity, v.Severity)
	}
	return result
}

// retimeOverlaps flags the slots the new window would collide with.
func retimeOverlaps(day *types.Day, moved *types.Slot, tr types.TimeRange) []types.ConstraintViolation {
	newStart, newEnd := parseClock(tr.Start), parseClock(tr.End)
	if newStart < 0 || newEnd < 0 {
		return nil
	}
	var out []types.ConstraintViolation
	for i := range day.Slots {
		other := &day.Slots[i]
		if other.ID == moved.ID {
			continue
		}
		start, end := parseClock(other.TimeRange.Start), parseClock(other.TimeRange.End)
		if start < 0 || end < 0 {
			continue
		}
		if newStart < end && start < newEnd {
			out = append(out, types.ConstraintViolation{
				Layer:     types.LayerTemporal,
				Severity:  types.SeverityWarning,
				SlotID:    moved.ID,
				DayNumber: day.DayNumber,
				Message:   fmt.Sprintf("new time overlaps the %s slot (%s-%s)", other.Type, other.TimeRange.Start, other.TimeRange.End),
			})
		}
	}
	return out
}

// additionViolations reuses the candidate checks for a user-chosen activity,
// downgraded to annotations: the same facts that would reject a suggestion
// only warn on an explicit user add.
func (e *Engine) additionViolations(itin types.Itinerary, day *types.Day, act types.Activity) []types.ConstraintViolation {
	target := types.SuggestionTarget{}
	if day != nil {
		target.DayNumber = day.DayNumber
	}
	reason, rejected := e.RejectionReason(itin, types.SuggestionCandidate{Activity: act}, target)
	if !rejected {
		return nil
	}
	return []types.ConstraintViolation{{
		Layer:     types.LayerDuplicate,
		Severity:  types.SeverityWarning,
		DayNumber: target.DayNumber,
		Message:   fmt.Sprintf("%s: %s", act.Name, reason),
	}}
}

func dayNumber(day *types.Day) int {
	if day == nil {
		return 0
	}
	return day.DayNumber
}
