package itinerary

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/munishbansal2000/layla-sub001/internal/types"
)

// scheduleTransfers injects a travel slot for every caller-supplied
// transfer, reconciling inter-city legs against anchors on both sides.
// Scheduling conflicts are surfaced as warnings, never as failures.
func (s *ServiceImpl) scheduleTransfers(itin types.Itinerary, trip types.TripContext) (types.Itinerary, []types.ConstraintViolation) {
	out := itin.Clone()
	var warnings []types.ConstraintViolation

	for _, tr := range trip.Transfers {
		day := out.DayByDate(tr.Date)
		if day == nil {
			s.logger.Warn("transfer date has no matching day, skipping",
				slog.String("type", string(tr.Type)),
				slog.String("date", tr.Date))
			continue
		}

		switch tr.Type {
		case types.TransferAirportArrival:
			slot := s.arrivalSlot(tr, trip)
			day.Slots = append([]types.Slot{slot}, day.Slots...)

		case types.TransferAirportDeparture:
			slot := s.departureSlot(tr, trip)
			day.Slots = append(day.Slots, slot)

		case types.TransferInterCity:
			slot, ws := s.interCitySlot(tr, trip, day)
			warnings = append(warnings, ws...)
			day.Slots = insertSlotOrdered(day.Slots, slot)

		case types.TransferSameCity:
			// Same-city hops are absorbed into commute records between
			// slots; they don't occupy schedule time of their own.
		}
	}
	return out, warnings
}

// arrivalSlot starts 30 minutes (configurable) after touchdown to cover
// immigration and baggage, lasting the transfer duration.
func (s *ServiceImpl) arrivalSlot(tr types.Transfer, trip types.TripContext) types.Slot {
	start := parseClock(trip.ArrivalFlightTime)
	if start < 0 {
		start = parseClock("09:00")
	}
	start += s.cfg.Pipeline.ArrivalBufferMinutes
	end := start + transferDuration(tr)
	return travelSlot(tr, start, end, fmt.Sprintf("Airport transfer to %s", tr.ToCity))
}

// departureSlot ends 180 minutes (configurable) before the departure flight,
// with the duration subtracted backward.
func (s *ServiceImpl) departureSlot(tr types.Transfer, trip types.TripContext) types.Slot {
	end := parseClock(trip.DepartureFlightTime)
	if end < 0 {
		end = parseClock("18:00")
	}
	end -= s.cfg.Pipeline.DepartureBufferMinutes
	start := end - transferDuration(tr)
	return travelSlot(tr, start, end, fmt.Sprintf("Transfer to airport from %s", tr.FromCity))
}

// interCitySlot places an inter-city leg at the default start, then shifts
// it earlier to arrive ahead of destination-city anchors and later to clear
// origin-city anchors. When both sides cannot be satisfied the conflict is
// reported and the destination-side placement kept.
func (s *ServiceImpl) interCitySlot(tr types.Transfer, trip types.TripContext, day *types.Day) (types.Slot, []types.ConstraintViolation) {
	var warnings []types.ConstraintViolation
	pip := s.cfg.Pipeline

	duration := transferDuration(tr)
	start := parseClock(pip.InterCityDefaultStart)
	earliest := parseClock(pip.InterCityEarliestStart)

	// Arrive at least AnchorLeadMinutes before the earliest anchor in the
	// destination city that day.
	destLimit := -1
	if first := earliestAnchorStart(trip.Anchors, tr.ToCity, tr.Date); first >= 0 {
		destLimit = first - pip.AnchorLeadMinutes - duration
		if destLimit < start {
			start = destLimit
		}
		if start < earliest {
			start = earliest
			warnings = append(warnings, types.ConstraintViolation{
				Layer:     types.LayerTransfer,
				Severity:  types.SeverityWarning,
				DayNumber: day.DayNumber,
				Message: fmt.Sprintf("transfer %s → %s clamped to %s; arrival may be too late for the first anchor in %s",
					tr.FromCity, tr.ToCity, pip.InterCityEarliestStart, tr.ToCity),
			})
		}
	}

	// Leave at least AnchorTrailMinutes after the last anchor in the origin
	// city ends. When that collides with the destination-side limit, keep the
	// destination placement and report the conflict.
	if last := latestAnchorEnd(trip.Anchors, tr.FromCity, tr.Date); last >= 0 {
		minStart := last + pip.AnchorTrailMinutes
		switch {
		case start >= minStart:
			// already departs after the origin anchors clear
		case destLimit >= 0 && minStart > destLimit:
			warnings = append(warnings, types.ConstraintViolation{
				Layer:     types.LayerTransfer,
				Severity:  types.SeverityWarning,
				DayNumber: day.DayNumber,
				Message: fmt.Sprintf("transfer %s → %s conflicts with anchors on both sides: departing %s overlaps the last %s anchor",
					tr.FromCity, tr.ToCity, formatClock(start), tr.FromCity),
				Resolution: "move one of the anchors or split them across days",
			})
		default:
			start = minStart
		}
	}

	return travelSlot(tr, start, start+duration, fmt.Sprintf("Travel from %s to %s", tr.FromCity, tr.ToCity)), warnings
}

func travelSlot(tr types.Transfer, start, end int, name string) types.Slot {
	mode := tr.Mode
	if mode == "" {
		mode = "transit"
	}
	return types.Slot{
		ID:        uuid.New().String(),
		Type:      slotTypeForHour(start / 60),
		TimeRange: types.TimeRange{Start: formatClock(start), End: formatClock(end)},
		Behavior:  types.BehaviorTravel,
		Options: []types.ActivityOption{{
			ID:       uuid.New().String(),
			Rank:     1,
			Score:    100,
			Selected: true,
			Activity: types.Activity{
				Name:            name,
				Category:        "transfer",
				DurationMinutes: end - start,
				Tags:            []string{"travel", mode},
				Source:          "transfer",
			},
		}},
	}
}

func transferDuration(tr types.Transfer) int {
	if tr.DurationMinutes > 0 {
		return tr.DurationMinutes
	}
	return 60
}

func earliestAnchorStart(anchors []types.Anchor, city, date string) int {
	best := -1
	for _, a := range anchors {
		if a.City != city || a.Date != date {
			continue
		}
		start := parseClock(a.StartTime)
		if start < 0 {
			continue
		}
		if best < 0 || start < best {
			best = start
		}
	}
	return best
}

func latestAnchorEnd(anchors []types.Anchor, city, date string) int {
	best := -1
	for _, a := range anchors {
		if a.City != city || a.Date != date {
			continue
		}
		end := parseClock(a.EndTime)
		if end < 0 {
			if start := parseClock(a.StartTime); start >= 0 {
				end = start + anchorDuration(a)
			}
		}
		if end > best {
			best = end
		}
	}
	return best
}

// pruneImpossibleSlots removes slots that cannot happen given the flight
// windows: on day 1 anything ending before the traveler has cleared the
// airport, on the last day anything starting after they must leave for it.
// Travel slots and locked slots survive; a locked slot in the window is
// surfaced instead of removed.
func (s *ServiceImpl) pruneImpossibleSlots(itin types.Itinerary, trip types.TripContext) (types.Itinerary, []types.ConstraintViolation) {
	out := itin.Clone()
	var warnings []types.ConstraintViolation
	if len(out.Days) == 0 {
		return out, warnings
	}

	if arrival := parseClock(trip.ArrivalFlightTime); arrival >= 0 {
		cutoff := arrival + s.cfg.Pipeline.ArrivalBlockMinutes
		day := &out.Days[0]
		day.Slots, warnings = filterSlots(day.Slots, warnings, day.DayNumber, func(sl types.Slot) bool {
			end := parseClock(sl.TimeRange.End)
			return end >= 0 && end <= cutoff
		}, "ends before the arrival flight window clears")
	}

	if departure := parseClock(trip.DepartureFlightTime); departure >= 0 {
		cutoff := departure - s.cfg.Pipeline.DepartureBufferMinutes
		day := &out.Days[len(out.Days)-1]
		day.Slots, warnings = filterSlots(day.Slots, warnings, day.DayNumber, func(sl types.Slot) bool {
			start := parseClock(sl.TimeRange.Start)
			return start >= 0 && start >= cutoff
		}, "starts after the departure flight window opens")
	}
	return out, warnings
}

func filterSlots(slots []types.Slot, warnings []types.ConstraintViolation, dayNumber int, impossible func(types.Slot) bool, reason string) ([]types.Slot, []types.ConstraintViolation) {
	kept := slots[:0]
	for _, sl := range slots {
		if sl.Behavior == types.BehaviorTravel || !impossible(sl) {
			kept = append(kept, sl)
			continue
		}
		if sl.Locked {
			kept = append(kept, sl)
			warnings = append(warnings, types.ConstraintViolation{
				Layer:     types.LayerTemporal,
				Severity:  types.SeverityWarning,
				SlotID:    sl.ID,
				DayNumber: dayNumber,
				Message:   fmt.Sprintf("locked slot %s but cannot be removed", reason),
			})
		}
	}
	return kept, warnings
}
