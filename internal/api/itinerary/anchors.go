package itinerary

import (
	"log/slog"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/munishbansal2000/layla-sub001/internal/types"
)

// injectAnchors guarantees every caller-supplied anchor appears in the
// schedule: each is either fuzzy-matched to an existing option (forcing its
// slot to anchor behavior) or injected as a new slot. Anchors whose date has
// no day in the itinerary are skipped with a logged notice, never silently.
func (s *ServiceImpl) injectAnchors(itin types.Itinerary, anchors []types.Anchor) types.Itinerary {
	out := itin.Clone()

	for _, anchor := range anchors {
		day := out.DayByDate(anchor.Date)
		if day == nil {
			s.logger.Warn("anchor date has no matching day, skipping",
				slog.String("anchor", anchor.Name),
				slog.String("date", anchor.Date))
			continue
		}

		if slot := bestAnchorMatch(day, anchor, s.cfg.Pipeline.AnchorMatchThreshold); slot != nil {
			slot.Behavior = types.BehaviorAnchor
			continue
		}

		day.Slots = insertSlotOrdered(day.Slots, synthesizeAnchorSlot(anchor))
	}
	return out
}

// bestAnchorMatch returns the slot holding the highest-scoring option for
// the anchor name, or nil when nothing clears the threshold.
func bestAnchorMatch(day *types.Day, anchor types.Anchor, threshold int) *types.Slot {
	best := -1
	var bestSlot *types.Slot
	for i := range day.Slots {
		for j := range day.Slots[i].Options {
			score := anchorMatchScore(anchor.Name, day.Slots[i].Options[j].Activity.Name)
			if score > best {
				best = score
				bestSlot = &day.Slots[i]
			}
		}
	}
	if best >= threshold {
		return bestSlot
	}
	return nil
}

// anchorMatchScore scores how well an existing option name matches an
// anchor name. Exact containment either direction scores 100; otherwise the
// overlap of significant keywords decides:
//
//	round(80 * matched/anchorKeywords) + 20
//
// provided at least one matched keyword has length >= 5 or at least two
// short keywords matched; anything weaker scores 0.
func anchorMatchScore(anchorName, optionName string) int {
	a := strings.ToLower(strings.TrimSpace(anchorName))
	o := strings.ToLower(strings.TrimSpace(optionName))
	if a == "" || o == "" {
		return 0
	}
	if strings.Contains(a, o) || strings.Contains(o, a) {
		return 100
	}

	anchorKws := significantKeywords(anchorName)
	if len(anchorKws) == 0 {
		return 0
	}
	optionKws := make(map[string]bool)
	for _, kw := range significantKeywords(optionName) {
		optionKws[kw] = true
	}

	matched := 0
	longMatch := false
	for _, kw := range anchorKws {
		if optionKws[kw] {
			matched++
			if len(kw) >= 5 {
				longMatch = true
			}
		}
	}
	if matched == 0 || (!longMatch && matched < 2) {
		return 0
	}
	return int(math.Round(80*float64(matched)/float64(len(anchorKws)))) + 20
}

// synthesizeAnchorSlot builds the slot injected for an unmatched anchor:
// slot type from the start hour, time range from the anchor's own timing
// (default 09:00-11:00), a single option carrying the anchor verbatim.
func synthesizeAnchorSlot(anchor types.Anchor) types.Slot {
	tr := anchorTimeRange(anchor)
	startHour := parseClock(tr.Start) / 60

	return types.Slot{
		ID:        uuid.New().String(),
		Type:      slotTypeForHour(startHour),
		TimeRange: tr,
		Behavior:  types.BehaviorAnchor,
		Options: []types.ActivityOption{{
			ID:       uuid.New().String(),
			Rank:     1,
			Score:    100,
			Selected: true,
			Activity: types.Activity{
				Name:            anchor.Name,
				Description:     anchor.Notes,
				DurationMinutes: anchorDuration(anchor),
				Place: types.Place{
					Name: anchor.Name,
				},
				Source: "anchor",
			},
			MatchReasons: []string{"pre-booked by traveler"},
		}},
	}
}

func anchorTimeRange(anchor types.Anchor) types.TimeRange {
	start := parseClock(anchor.StartTime)
	end := parseClock(anchor.EndTime)

	switch {
	case start >= 0 && end >= 0:
		// both given
	case start >= 0 && anchor.DurationMinutes > 0:
		end = start + anchor.DurationMinutes
	case start >= 0:
		end = start + 120
	default:
		start, end = parseClock("09:00"), parseClock("11:00")
	}
	return types.TimeRange{Start: formatClock(start), End: formatClock(end)}
}

func anchorDuration(anchor types.Anchor) int {
	if anchor.DurationMinutes > 0 {
		return anchor.DurationMinutes
	}
	return rangeMinutes(anchorTimeRange(anchor))
}
