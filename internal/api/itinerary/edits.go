package itinerary

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/munishbansal2000/layla-sub001/internal/types"
)

// Structural edit operations. Each returns a new Itinerary and fails only
// for structural reasons (a referenced day/slot not existing); constraint
// feasibility is the validation service's concern and never blocks an edit.

// SwapOption moves the given option to the top of the slot's ranking,
// superseding (never deleting) the current selection.
func (s *ServiceImpl) SwapOption(itin types.Itinerary, slotID string, option types.ActivityOption) (types.Itinerary, error) {
	out := itin.Clone()
	_, slot := out.FindSlot(slotID)
	if slot == nil {
		return types.Itinerary{}, types.NewStructuralError("slot", slotID)
	}

	if option.ID == "" {
		option.ID = uuid.New().String()
	}

	reordered := []types.ActivityOption{option}
	for _, o := range slot.Options {
		if o.ID != option.ID {
			reordered = append(reordered, o)
		}
	}
	for i := range reordered {
		reordered[i].Rank = i + 1
		reordered[i].Selected = i == 0
	}
	slot.Options = reordered
	return out, nil
}

// FillSlot replaces an empty slot's option sequence.
func (s *ServiceImpl) FillSlot(itin types.Itinerary, slotID string, options []types.ActivityOption) (types.Itinerary, error) {
	out := itin.Clone()
	_, slot := out.FindSlot(slotID)
	if slot == nil {
		return types.Itinerary{}, types.NewStructuralError("slot", slotID)
	}

	filled := make([]types.ActivityOption, len(options))
	for i, o := range options {
		if o.ID == "" {
			o.ID = uuid.New().String()
		}
		o.Rank = i + 1
		o.Selected = i == 0
		filled[i] = o
	}
	slot.Options = filled
	return out, nil
}

// ReorderDays rearranges days into the given order of current day numbers.
// Day numbers stay contiguous afterward; dates stay attached to positions,
// not to the moved content, so the calendar remains monotonic.
func (s *ServiceImpl) ReorderDays(itin types.Itinerary, order []int) (types.Itinerary, error) {
	if len(order) != len(itin.Days) {
		return types.Itinerary{}, types.NewStructuralError("day order", fmt.Sprintf("%v", order))
	}
	out := itin.Clone()

	dates := make([]string, len(out.Days))
	for i, d := range out.Days {
		dates[i] = d.Date
	}

	rearranged := make([]types.Day, 0, len(order))
	seen := make(map[int]bool, len(order))
	for _, n := range order {
		day := out.DayByNumber(n)
		if day == nil || seen[n] {
			return types.Itinerary{}, types.NewStructuralError("day", fmt.Sprintf("%d", n))
		}
		seen[n] = true
		rearranged = append(rearranged, *day)
	}
	for i := range rearranged {
		rearranged[i].DayNumber = i + 1
		rearranged[i].Date = dates[i]
	}
	out.Days = rearranged
	return out, nil
}

// ReorderSlots rearranges a day's slots into the given order of slot IDs.
func (s *ServiceImpl) ReorderSlots(itin types.Itinerary, dayNumber int, order []string) (types.Itinerary, error) {
	out := itin.Clone()
	day := out.DayByNumber(dayNumber)
	if day == nil {
		return types.Itinerary{}, types.NewStructuralError("day", fmt.Sprintf("%d", dayNumber))
	}
	if len(order) != len(day.Slots) {
		return types.Itinerary{}, types.NewStructuralError("slot order", fmt.Sprintf("%v", order))
	}

	rearranged := make([]types.Slot, 0, len(order))
	seen := make(map[string]bool, len(order))
	for _, id := range order {
		slot := day.FindSlot(id)
		if slot == nil || seen[id] {
			return types.Itinerary{}, types.NewStructuralError("slot", id)
		}
		seen[id] = true
		rearranged = append(rearranged, *slot)
	}
	day.Slots = rearranged
	return out, nil
}

// AddSlot inserts a slot into the day, keeping ascending start-time order.
func (s *ServiceImpl) AddSlot(itin types.Itinerary, dayNumber int, slot types.Slot) (types.Itinerary, error) {
	out := itin.Clone()
	day := out.DayByNumber(dayNumber)
	if day == nil {
		return types.Itinerary{}, types.NewStructuralError("day", fmt.Sprintf("%d", dayNumber))
	}
	slot = normalizeSlot(slot)
	day.Slots = insertSlotOrdered(day.Slots, slot)
	return out, nil
}

// RemoveSlot deletes a slot anywhere in the itinerary. Removing a locked
// slot is still performed, since user edits are never refused; the
// validation service flags it afterward.
func (s *ServiceImpl) RemoveSlot(itin types.Itinerary, slotID string) (types.Itinerary, error) {
	out := itin.Clone()
	day, slot := out.FindSlot(slotID)
	if slot == nil {
		return types.Itinerary{}, types.NewStructuralError("slot", slotID)
	}
	idx := -1
	for i := range day.Slots {
		if day.Slots[i].ID == slotID {
			idx = i
			break
		}
	}
	day.Slots = append(day.Slots[:idx], day.Slots[idx+1:]...)
	return out, nil
}
