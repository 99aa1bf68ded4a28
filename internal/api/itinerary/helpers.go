package itinerary

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/munishbansal2000/layla-sub001/internal/types"
)

const dateLayout = "2006-01-02"

// parseClock converts a 24h "HH:MM" string to minutes since midnight.
// Malformed values report -1 so callers can treat them as unset.
func parseClock(s string) int {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return -1
	}
	return t.Hour()*60 + t.Minute()
}

// formatClock renders minutes since midnight back to "HH:MM", clamped to the
// same day.
func formatClock(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	if minutes > 23*60+59 {
		minutes = 23*60 + 59
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// rangeMinutes returns the duration of a time range in minutes, or 0 when
// either bound is unset.
func rangeMinutes(tr types.TimeRange) int {
	start, end := parseClock(tr.Start), parseClock(tr.End)
	if start < 0 || end < 0 || end < start {
		return 0
	}
	return end - start
}

// slotTypeForHour derives the canonical slot type for an anchor or transfer
// starting at the given hour.
func slotTypeForHour(hour int) types.SlotType {
	switch {
	case hour >= 18:
		return types.SlotEvening
	case hour >= 14:
		return types.SlotAfternoon
	case hour >= 12:
		return types.SlotLunch
	case hour >= 9:
		return types.SlotMorning
	default:
		return types.SlotBreakfast
	}
}

// defaultTimeRange is the synthesized range for a canonical slot type.
func defaultTimeRange(st types.SlotType) types.TimeRange {
	switch st {
	case types.SlotBreakfast:
		return types.TimeRange{Start: "08:00", End: "09:00"}
	case types.SlotMorning:
		return types.TimeRange{Start: "09:00", End: "12:00"}
	case types.SlotLunch:
		return types.TimeRange{Start: "12:00", End: "13:30"}
	case types.SlotAfternoon:
		return types.TimeRange{Start: "14:00", End: "17:30"}
	case types.SlotDinner:
		return types.TimeRange{Start: "19:00", End: "21:00"}
	case types.SlotEvening:
		return types.TimeRange{Start: "21:00", End: "23:00"}
	}
	return types.TimeRange{Start: "09:00", End: "11:00"}
}

// insertSlotOrdered inserts the slot at the position preserving ascending
// start-time order. Slots without a parseable start sort last.
func insertSlotOrdered(slots []types.Slot, slot types.Slot) []types.Slot {
	out := append(slots, slot)
	sort.SliceStable(out, func(i, j int) bool {
		si, sj := parseClock(out[i].TimeRange.Start), parseClock(out[j].TimeRange.Start)
		if si < 0 {
			return false
		}
		if sj < 0 {
			return true
		}
		return si < sj
	})
	return out
}

// stopWords are generic words and venue-type nouns ignored when matching an
// anchor name against generated option names.
var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "from": true,
	"tour": true, "visit": true, "ticket": true, "tickets": true,
	"entry": true, "experience": true, "guided": true,
	"museum": true, "temple": true, "shrine": true, "palace": true,
	"castle": true, "park": true, "garden": true, "gardens": true,
	"market": true, "tower": true, "center": true, "centre": true,
	"hall": true, "house": true, "gallery": true, "bridge": true,
}

// significantKeywords extracts the match-relevant words of a venue name:
// case-folded, punctuation stripped, stop words and venue-type nouns
// removed, length >= 3.
func significantKeywords(name string) []string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return ' '
		}
	}, strings.ToLower(name))

	var kws []string
	for _, w := range strings.Fields(cleaned) {
		if len(w) >= 3 && !stopWords[w] {
			kws = append(kws, w)
		}
	}
	return kws
}
