package itinerary

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/munishbansal2000/layla-sub001/internal/api/places"
	"github.com/munishbansal2000/layla-sub001/internal/types"
)

func restaurantFixture() types.Itinerary {
	return types.Itinerary{
		Days: []types.Day{{
			DayNumber: 1,
			Date:      "2025-04-10",
			Slots: []types.Slot{
				{
					ID:        "morning",
					Type:      types.SlotMorning,
					TimeRange: types.TimeRange{Start: "09:00", End: "12:00"},
					Options: []types.ActivityOption{{
						Activity: types.Activity{
							Name:  "Senso-ji Temple",
							Place: types.Place{Name: "Senso-ji", Coordinates: types.Coordinates{Latitude: 35.7148, Longitude: 139.7967}},
						},
					}},
				},
				{
					ID:        "lunch",
					Type:      types.SlotLunch,
					TimeRange: types.TimeRange{Start: "12:00", End: "13:30"},
					Behavior:  types.BehaviorMeal,
					Options:   []types.ActivityOption{},
				},
				{
					ID:        "afternoon",
					Type:      types.SlotAfternoon,
					TimeRange: types.TimeRange{Start: "14:00", End: "17:30"},
					Options: []types.ActivityOption{{
						Activity: types.Activity{
							Name:  "Nakamise Shopping Street",
							Place: types.Place{Name: "Nakamise", Coordinates: types.Coordinates{Latitude: 35.7118, Longitude: 139.7964}},
						},
					}},
				},
			},
		}},
	}
}

func TestFillRestaurantSlots_FillsEmptyMeal(t *testing.T) {
	mockSearch := new(MockSearchClient)
	service, cfg := setupItineraryServiceTest(nil, nil, mockSearch)

	// the empty lunch clusters around the next non-meal activity
	nakamise := types.Coordinates{Latitude: 35.7118, Longitude: 139.7964}
	venues := []places.Venue{
		{Name: "Asakusa Unagi", Coordinates: types.Coordinates{Latitude: 35.7120, Longitude: 139.7960}, Cuisine: "Japanese"},
	}
	mockSearch.On("SearchNearby", mock.Anything, nakamise, cfg.Pipeline.SearchRadiusMeters,
		cfg.Pipeline.MaxReplacementOptions, places.SortByRating).
		Return(venues, nil).Once()

	out := service.fillRestaurantSlots(context.Background(), restaurantFixture())

	lunch := out.Days[0].Slots[1]
	require.Len(t, lunch.Options, 1)
	assert.Equal(t, "Asakusa Unagi", lunch.Options[0].Activity.Name)
	assert.Equal(t, "place_search", lunch.Options[0].Activity.Source)
	assert.True(t, lunch.Options[0].Selected)
	mockSearch.AssertExpectations(t)
}

func TestFillRestaurantSlots_TrustsUngeolocatedPick(t *testing.T) {
	mockSearch := new(MockSearchClient)
	service, _ := setupItineraryServiceTest(nil, nil, mockSearch)

	itin := restaurantFixture()
	itin.Days[0].Slots[1].Options = []types.ActivityOption{{
		Activity: types.Activity{Name: "Local Izakaya the Generator Liked"},
	}}

	out := service.fillRestaurantSlots(context.Background(), itin)

	assert.Equal(t, "Local Izakaya the Generator Liked", out.Days[0].Slots[1].Options[0].Activity.Name)
	mockSearch.AssertNotCalled(t, "SearchNearby", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFillRestaurantSlots_KeepsWalkablePick(t *testing.T) {
	mockSearch := new(MockSearchClient)
	service, _ := setupItineraryServiceTest(nil, nil, mockSearch)

	itin := restaurantFixture()
	itin.Days[0].Slots[1].Options = []types.ActivityOption{{
		Activity: types.Activity{
			Name:  "Tempura Daikokuya",
			Place: types.Place{Name: "Daikokuya", Coordinates: types.Coordinates{Latitude: 35.7125, Longitude: 139.7955}},
		},
	}}

	out := service.fillRestaurantSlots(context.Background(), itin)

	assert.Equal(t, "Tempura Daikokuya", out.Days[0].Slots[1].Options[0].Activity.Name)
	mockSearch.AssertNotCalled(t, "SearchNearby", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFillRestaurantSlots_SearchFailureLeavesEmpty(t *testing.T) {
	mockSearch := new(MockSearchClient)
	service, _ := setupItineraryServiceTest(nil, nil, mockSearch)

	mockSearch.On("SearchNearby", mock.Anything, mock.Anything, mock.Anything, mock.Anything, places.SortByRating).
		Return(nil, errors.New("collaborator down")).Once()

	out := service.fillRestaurantSlots(context.Background(), restaurantFixture())
	assert.Empty(t, out.Days[0].Slots[1].Options)
	mockSearch.AssertExpectations(t)
}

func TestNearestActivityCoords(t *testing.T) {
	itin := restaurantFixture()
	day := &itin.Days[0]

	// next non-meal activity wins over the previous one
	coords, ok := nearestActivityCoords(day, 1)
	require.True(t, ok)
	assert.InDelta(t, 35.7118, coords.Latitude, 1e-6)

	// meal at the end of the day falls back to the previous activity
	day.Slots = day.Slots[:2]
	coords, ok = nearestActivityCoords(day, 1)
	require.True(t, ok)
	assert.InDelta(t, 35.7148, coords.Latitude, 1e-6)
}
