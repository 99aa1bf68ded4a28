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

var (
	tokyoTower  = types.Coordinates{Latitude: 35.6586, Longitude: 139.7454}
	osakaCastle = types.Coordinates{Latitude: 34.6873, Longitude: 135.5262}
)

func clusteringFixture() types.Itinerary {
	return types.Itinerary{
		ID: "itin-1",
		Days: []types.Day{{
			DayNumber: 1,
			Date:      "2025-04-10",
			City:      "Tokyo",
			Slots: []types.Slot{
				{
					ID:        "morning",
					Type:      types.SlotMorning,
					TimeRange: types.TimeRange{Start: "09:00", End: "12:00"},
					Options: []types.ActivityOption{{
						Activity: types.Activity{
							Name:  "Tokyo Tower",
							Place: types.Place{Name: "Tokyo Tower", Coordinates: tokyoTower},
						},
					}},
				},
				{
					ID:        "lunch",
					Type:      types.SlotLunch,
					TimeRange: types.TimeRange{Start: "12:00", End: "13:30"},
					Behavior:  types.BehaviorMeal,
					Options: []types.ActivityOption{{
						Activity: types.Activity{
							Name:  "Dotonbori Street Food",
							Place: types.Place{Name: "Dotonbori", Coordinates: osakaCastle},
						},
					}},
				},
			},
		}},
	}
}

func TestRepairClustering_ReplacesFarMeal(t *testing.T) {
	mockSearch := new(MockSearchClient)
	service, cfg := setupItineraryServiceTest(nil, nil, mockSearch)
	ctx := context.Background()

	venues := []places.Venue{
		{Name: "Tower Grill", Coordinates: types.Coordinates{Latitude: 35.6590, Longitude: 139.7460}, Cuisine: "Yakitori", Rating: 4.7, ReviewCount: 250},
		{Name: "Shiba Soba", Coordinates: types.Coordinates{Latitude: 35.6570, Longitude: 139.7440}},
	}
	mockSearch.On("SearchNearby", mock.Anything, tokyoTower, cfg.Pipeline.SearchRadiusMeters,
		cfg.Pipeline.MaxReplacementOptions, places.SortByDistance).
		Return(venues, nil).Once()

	out, report := service.repairClustering(ctx, clusteringFixture(), true)

	require.Len(t, report, 1)
	assert.Equal(t, types.LayerClustering, report[0].Layer)
	assert.Equal(t, types.SeverityWarning, report[0].Severity)
	assert.Equal(t, "lunch", report[0].SlotID)
	assert.Contains(t, report[0].Resolution, "Tower Grill")

	lunch := out.Days[0].Slots[1]
	require.Len(t, lunch.Options, 2)
	assert.Equal(t, "Tower Grill", lunch.Options[0].Activity.Name)
	assert.Equal(t, 1, lunch.Options[0].Rank)
	assert.True(t, lunch.Options[0].Selected)
	assert.Contains(t, lunch.Options[0].Activity.Tags, "highly rated")
	mockSearch.AssertExpectations(t)
}

func TestRepairClustering_SearchFailureLeavesSlot(t *testing.T) {
	mockSearch := new(MockSearchClient)
	service, _ := setupItineraryServiceTest(nil, nil, mockSearch)

	mockSearch.On("SearchNearby", mock.Anything, mock.Anything, mock.Anything, mock.Anything, places.SortByDistance).
		Return(nil, errors.New("rate limited")).Once()

	out, report := service.repairClustering(context.Background(), clusteringFixture(), true)

	// violation still reported, slot untouched
	require.Len(t, report, 1)
	assert.Empty(t, report[0].Resolution)
	assert.Equal(t, "Dotonbori Street Food", out.Days[0].Slots[1].Options[0].Activity.Name)
	mockSearch.AssertExpectations(t)
}

func TestRepairClustering_DetectOnly(t *testing.T) {
	service, _ := setupItineraryServiceTest(nil, nil, nil)

	out, report := service.repairClustering(context.Background(), clusteringFixture(), false)

	require.Len(t, report, 1)
	assert.Equal(t, "Dotonbori Street Food", out.Days[0].Slots[1].Options[0].Activity.Name)
}

func TestRepairClustering_WalkableMealPasses(t *testing.T) {
	service, _ := setupItineraryServiceTest(nil, nil, nil)

	itin := clusteringFixture()
	itin.Days[0].Slots[1].Options[0].Activity.Place.Coordinates = types.Coordinates{Latitude: 35.6590, Longitude: 139.7460}

	_, report := service.repairClustering(context.Background(), itin, true)
	assert.Empty(t, report)
}

func TestPriceLevelCost(t *testing.T) {
	assert.Equal(t, "", priceLevelCost(0))
	assert.Equal(t, "$$", priceLevelCost(2))
	assert.Equal(t, "$$$$", priceLevelCost(9))
}
