package itinerary

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/munishbansal2000/layla-sub001/config"
	"github.com/munishbansal2000/layla-sub001/internal/api/places"
	"github.com/munishbansal2000/layla-sub001/internal/types"
)

// MockGenerator is a mock implementation of Generator
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, trip types.TripContext) (types.GenerationResult, error) {
	args := m.Called(ctx, trip)
	return args.Get(0).(types.GenerationResult), args.Error(1)
}

// MockSearchClient is a mock implementation of places.SearchClient
type MockSearchClient struct {
	mock.Mock
}

func (m *MockSearchClient) SearchNearby(ctx context.Context, center types.Coordinates, radiusMeters float64, limit int, sortBy places.SortBy) ([]places.Venue, error) {
	args := m.Called(ctx, center, radiusMeters, limit, sortBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]places.Venue), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Helper to set up the service without collaborators; tests that need the
// search client or generators pass their own.
func setupItineraryServiceTest(generator, fallback Generator, search places.SearchClient) (*ServiceImpl, *config.Config) {
	cfg := config.Default()
	commutes := places.NewCommuteEstimator(nil, cfg.Constraints.CommuteMinutesPerFiveKm)
	service := NewServiceImpl(&cfg, generator, fallback, search, commutes, nil, testLogger())
	return service, &cfg
}

func TestServiceImpl_BuildItinerary_Structured(t *testing.T) {
	mockSearch := new(MockSearchClient)
	service, _ := setupItineraryServiceTest(nil, nil, mockSearch)
	ctx := context.Background()

	trip := types.TripContext{
		Destination: "Tokyo",
		StartDate:   "2025-04-10",
		NumDays:     1,
	}
	candidate := types.Itinerary{
		Days: []types.Day{{
			Slots: []types.Slot{
				{
					Type:      types.SlotMorning,
					TimeRange: types.TimeRange{Start: "09:00", End: "12:00"},
					Options: []types.ActivityOption{{
						Activity: types.Activity{
							Name:            "Meiji Shrine",
							Category:        "culture",
							DurationMinutes: 120,
							Place:           types.Place{Name: "Meiji Shrine", Coordinates: types.Coordinates{Latitude: 35.6764, Longitude: 139.6993}},
						},
					}},
				},
				{
					Type:      types.SlotAfternoon,
					TimeRange: types.TimeRange{Start: "14:00", End: "17:30"},
					Options: []types.ActivityOption{{
						Activity: types.Activity{
							Name:            "Shibuya Crossing",
							Category:        "sightseeing",
							DurationMinutes: 60,
							Place:           types.Place{Name: "Shibuya Crossing", Coordinates: types.Coordinates{Latitude: 35.6595, Longitude: 139.7005}},
						},
					}},
				},
			},
		}},
	}

	venues := []places.Venue{
		{Name: "Harajuku Ramen", Coordinates: types.Coordinates{Latitude: 35.6767, Longitude: 139.7003}, Category: "restaurant", Cuisine: "Japanese", Rating: 4.6, ReviewCount: 300},
		{Name: "Omotesando Coffee", Coordinates: types.Coordinates{Latitude: 35.6659, Longitude: 139.7109}, Category: "restaurant"},
	}
	mockSearch.On("SearchNearby", mock.Anything, mock.Anything, mock.Anything, mock.Anything, places.SortByRating).
		Return(venues, nil)

	itin, report, err := service.BuildItinerary(ctx, types.GenerationResult{Itinerary: &candidate}, trip)
	require.NoError(t, err)
	require.Len(t, itin.Days, 1)

	day := itin.Days[0]
	assert.Equal(t, 1, day.DayNumber)
	assert.Equal(t, "2025-04-10", day.Date)
	assert.Equal(t, "Tokyo", day.City)
	assert.NotEmpty(t, itin.ID)
	require.Len(t, day.Slots, 4) // morning, lunch, afternoon, dinner

	// synthesized meal slots got filled from the search collaborator
	var lunch *types.Slot
	for i := range day.Slots {
		if day.Slots[i].Type == types.SlotLunch {
			lunch = &day.Slots[i]
		}
	}
	require.NotNil(t, lunch)
	require.NotEmpty(t, lunch.Options)
	assert.Equal(t, "Harajuku Ramen", lunch.Options[0].Activity.Name)
	assert.Equal(t, "place_search", lunch.Options[0].Activity.Source)
	assert.True(t, lunch.Options[0].Selected)

	// commute annotation between located slots
	var commutes int
	for _, slot := range day.Slots {
		if slot.CommuteFromPrev != nil {
			commutes++
		}
	}
	assert.Greater(t, commutes, 0)

	assert.Empty(t, filterSevere(report))
	mockSearch.AssertExpectations(t)
}

func TestServiceImpl_BuildItinerary_RawText(t *testing.T) {
	service, _ := setupItineraryServiceTest(nil, nil, nil)
	ctx := context.Background()

	raw := "Here is your itinerary:\n```json\n{\"destination\": \"Tokyo\", \"days\": [{\"day_number\": 1, \"city\": \"Tokyo\"}]}\n```\nEnjoy your trip!"
	trip := types.TripContext{Destination: "Tokyo", StartDate: "2025-04-10", NumDays: 1}

	itin, _, err := service.BuildItinerary(ctx, types.GenerationResult{RawText: raw}, trip)
	require.NoError(t, err)
	require.Len(t, itin.Days, 1)
	assert.Equal(t, "Tokyo", itin.Destination)
	assert.Len(t, itin.Days[0].Slots, 4)
}

func TestServiceImpl_BuildItinerary_UnparseableText(t *testing.T) {
	service, _ := setupItineraryServiceTest(nil, nil, nil)

	_, _, err := service.BuildItinerary(context.Background(), types.GenerationResult{RawText: "sorry, I could not produce a plan"}, types.TripContext{NumDays: 1})
	require.Error(t, err)

	var parseErr *types.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestServiceImpl_GenerateItinerary_FallsBackOnParseError(t *testing.T) {
	primary := new(MockGenerator)
	fallback := new(MockGenerator)
	service, _ := setupItineraryServiceTest(primary, fallback, nil)
	ctx := context.Background()

	trip := types.TripContext{Destination: "Kyoto", StartDate: "2025-05-01", NumDays: 1}
	structured := types.Itinerary{Destination: "Kyoto", Days: []types.Day{{DayNumber: 1}}}

	primary.On("Generate", mock.Anything, trip).
		Return(types.GenerationResult{RawText: "the model rambled and produced no JSON"}, nil).Once()
	fallback.On("Generate", mock.Anything, trip).
		Return(types.GenerationResult{Itinerary: &structured}, nil).Once()

	itin, _, err := service.GenerateItinerary(ctx, trip)
	require.NoError(t, err)
	assert.Equal(t, "Kyoto", itin.Destination)
	primary.AssertExpectations(t)
	fallback.AssertExpectations(t)
}

func TestServiceImpl_BuildItinerary_InputNotMutated(t *testing.T) {
	service, _ := setupItineraryServiceTest(nil, nil, nil)

	candidate := types.Itinerary{
		Days: []types.Day{{
			Slots: []types.Slot{{
				Type:      types.SlotMorning,
				TimeRange: types.TimeRange{Start: "09:00", End: "12:00"},
				Options:   []types.ActivityOption{{Activity: types.Activity{Name: "Fushimi Inari"}}},
			}},
		}},
	}
	trip := types.TripContext{Destination: "Kyoto", StartDate: "2025-05-01", NumDays: 1}

	_, _, err := service.BuildItinerary(context.Background(), types.GenerationResult{Itinerary: &candidate}, trip)
	require.NoError(t, err)

	// the pipeline works on clones; the caller's value stays as supplied
	assert.Empty(t, candidate.ID)
	assert.Len(t, candidate.Days[0].Slots, 1)
	assert.Equal(t, 0, candidate.Days[0].Slots[0].Options[0].Rank)
}

func filterSevere(report []types.ConstraintViolation) []types.ConstraintViolation {
	var out []types.ConstraintViolation
	for _, v := range report {
		if v.Severity == types.SeverityError {
			out = append(out, v)
		}
	}
	return out
}
