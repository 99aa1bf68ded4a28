package itinerary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/munishbansal2000/layla-sub001/internal/types"
)

func TestNormalizeItinerary_FillsDaysAndDates(t *testing.T) {
	trip := types.TripContext{
		Destination: "Japan",
		Cities:      []string{"Tokyo", "Kyoto"},
		StartDate:   "2025-04-10",
		NumDays:     2,
	}

	out := normalizeItinerary(types.Itinerary{}, trip)

	require.Len(t, out.Days, 2)
	assert.NotEmpty(t, out.ID)
	assert.Equal(t, "Japan", out.Destination)

	assert.Equal(t, 1, out.Days[0].DayNumber)
	assert.Equal(t, "2025-04-10", out.Days[0].Date)
	assert.Equal(t, "Tokyo", out.Days[0].City)

	assert.Equal(t, 2, out.Days[1].DayNumber)
	assert.Equal(t, "2025-04-11", out.Days[1].Date)
	assert.Equal(t, "Kyoto", out.Days[1].City)
}

func TestNormalizeItinerary_SynthesizesCanonicalSlots(t *testing.T) {
	candidate := types.Itinerary{
		Days: []types.Day{{
			Slots: []types.Slot{{
				Type:      types.SlotMorning,
				TimeRange: types.TimeRange{Start: "09:00", End: "12:00"},
				Options:   []types.ActivityOption{{Activity: types.Activity{Name: "Kinkaku-ji"}}},
			}},
		}},
	}
	trip := types.TripContext{Destination: "Kyoto", StartDate: "2025-05-01", NumDays: 1}

	out := normalizeItinerary(candidate, trip)

	require.Len(t, out.Days, 1)
	slots := out.Days[0].Slots
	require.Len(t, slots, 4)

	// synthesized slots carry IDs, defaults, and sort into schedule order
	wantOrder := []types.SlotType{types.SlotMorning, types.SlotLunch, types.SlotAfternoon, types.SlotDinner}
	for i, st := range wantOrder {
		assert.Equal(t, st, slots[i].Type)
		assert.NotEmpty(t, slots[i].ID)
	}
	assert.Equal(t, types.BehaviorMeal, slots[1].Behavior)
	assert.Equal(t, types.BehaviorFlex, slots[2].Behavior)
	assert.Equal(t, "12:00", slots[1].TimeRange.Start)
	assert.Empty(t, slots[1].Options)
}

func TestNormalizeItinerary_OptionDefaults(t *testing.T) {
	candidate := types.Itinerary{
		Days: []types.Day{{
			Slots: []types.Slot{{
				Type:      types.SlotMorning,
				TimeRange: types.TimeRange{Start: "09:00", End: "12:00"},
				Options: []types.ActivityOption{
					{Activity: types.Activity{Name: "Arashiyama Bamboo Grove"}},
					{Activity: types.Activity{Name: "Tenryu-ji"}},
					{Activity: types.Activity{Name: "Monkey Park"}},
				},
			}},
		}},
	}
	trip := types.TripContext{Destination: "Kyoto", StartDate: "2025-05-01", NumDays: 1}

	out := normalizeItinerary(candidate, trip)

	opts := out.Days[0].Slots[0].Options
	require.Len(t, opts, 3)
	for i, opt := range opts {
		assert.Equal(t, i+1, opt.Rank)
		assert.Equal(t, float64(80-10*i), opt.Score)
		assert.NotEmpty(t, opt.ID)
	}
	assert.True(t, opts[0].Selected)
	assert.False(t, opts[1].Selected)
}

func TestNormalizeItinerary_KeepsExistingSelection(t *testing.T) {
	candidate := types.Itinerary{
		Days: []types.Day{{
			Slots: []types.Slot{{
				Type:      types.SlotAfternoon,
				TimeRange: types.TimeRange{Start: "14:00", End: "17:30"},
				Options: []types.ActivityOption{
					{Activity: types.Activity{Name: "Nijo Castle"}},
					{Selected: true, Activity: types.Activity{Name: "Philosopher's Path"}},
				},
			}},
		}},
	}
	trip := types.TripContext{Destination: "Kyoto", StartDate: "2025-05-01", NumDays: 1}

	out := normalizeItinerary(candidate, trip)

	var afternoon *types.Slot
	for i := range out.Days[0].Slots {
		if out.Days[0].Slots[i].Type == types.SlotAfternoon {
			afternoon = &out.Days[0].Slots[i]
		}
	}
	require.NotNil(t, afternoon)
	assert.False(t, afternoon.Options[0].Selected)
	assert.True(t, afternoon.Options[1].Selected)
}

func TestCityForDay_EvenDistribution(t *testing.T) {
	trip := types.TripContext{Destination: "Japan", Cities: []string{"Tokyo", "Kyoto", "Osaka"}}

	cities := make([]string, 6)
	for i := range cities {
		cities[i] = cityForDay(trip, i, 6)
	}
	assert.Equal(t, []string{"Tokyo", "Tokyo", "Kyoto", "Kyoto", "Osaka", "Osaka"}, cities)
}

func TestNormalizeItinerary_InputNotMutated(t *testing.T) {
	candidate := types.Itinerary{
		Days: []types.Day{{
			Slots: []types.Slot{{
				Type:    types.SlotMorning,
				Options: []types.ActivityOption{{Activity: types.Activity{Name: "Ueno Park"}}},
			}},
		}},
	}
	trip := types.TripContext{Destination: "Tokyo", StartDate: "2025-04-10", NumDays: 1}

	_ = normalizeItinerary(candidate, trip)

	assert.Empty(t, candidate.ID)
	assert.Len(t, candidate.Days[0].Slots, 1)
	assert.Equal(t, 0, candidate.Days[0].Slots[0].Options[0].Rank)
	assert.Empty(t, candidate.Days[0].Slots[0].ID)
}
