package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/munishbansal2000/layla-sub001/internal/types"
)

func actionFixture() types.Itinerary {
	itin := types.Itinerary{
		ID: "itin-act",
		Days: []types.Day{
			{
				DayNumber: 1,
				City:      "Tokyo",
				Slots: []types.Slot{
					activitySlot("s1", types.SlotMorning, "09:00", "12:00", "Senso-ji Temple", sensoJi, 90),
					activitySlot("s2", types.SlotAfternoon, "14:00", "17:30", "Tokyo Tower", tokyoTower, 120),
				},
			},
			{
				DayNumber: 2,
				City:      "Kyoto",
				Slots: []types.Slot{
					activitySlot("s3", types.SlotMorning, "09:00", "12:00", "Kinkaku-ji", types.Coordinates{Latitude: 35.0394, Longitude: 135.7292}, 90),
				},
			},
		},
	}
	itin.Days[0].Slots[0].Locked = true
	return itin
}

func TestEngine_ValidateAction_AlwaysAllowed(t *testing.T) {
	engine := newTestEngine()
	itin := actionFixture()

	actions := []types.UserAction{
		{Type: types.ActionRemove, SlotID: "s1"},
		{Type: types.ActionMove, SlotID: "s2", ToDay: 2},
		{Type: types.ActionRetime, SlotID: "s2", NewTimeRange: &types.TimeRange{Start: "10:00", End: "13:00"}},
		{Type: types.ActionAdd, Activity: &types.Activity{Name: "Senso-ji Temple"}},
	}
	for _, action := range actions {
		result := engine.ValidateAction(itin, action)
		assert.True(t, result.Allowed, "action %s must never be refused", action.Type)
	}
}

func TestEngine_ValidateAction_RemoveLocked(t *testing.T) {
	engine := newTestEngine()

	result := engine.ValidateAction(actionFixture(), types.UserAction{Type: types.ActionRemove, SlotID: "s1"})

	assert.True(t, result.Allowed)
	require.NotEmpty(t, result.Violations)
	assert.Equal(t, types.SeverityError, result.MaxSeverity)
	assert.Equal(t, types.LayerFragility, result.Violations[0].Layer)
	assert.Empty(t, result.Warnings) // errors are not echoed into warnings
}

func TestEngine_ValidateAction_CrossCityMove(t *testing.T) {
	engine := newTestEngine()

	result := engine.ValidateAction(actionFixture(), types.UserAction{Type: types.ActionMove, SlotID: "s2", ToDay: 2})

	assert.True(t, result.Allowed)
	require.NotEmpty(t, result.Violations)
	assert.Equal(t, types.SeverityWarning, result.MaxSeverity)
	assert.Equal(t, types.LayerCrossDay, result.Violations[0].Layer)
	assert.Contains(t, result.Violations[0].Message, "Kyoto")
}

func TestEngine_ValidateAction_RetimeOverlap(t *testing.T) {
	engine := newTestEngine()

	result := engine.ValidateAction(actionFixture(), types.UserAction{
		Type:         types.ActionRetime,
		SlotID:       "s2",
		NewTimeRange: &types.TimeRange{Start: "10:00", End: "15:00"},
	})

	assert.True(t, result.Allowed)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, types.LayerTemporal, result.Violations[0].Layer)
	assert.Equal(t, types.SeverityWarning, result.Violations[0].Severity)
	assert.Contains(t, result.Violations[0].Message, "morning")
}

func TestEngine_ValidateAction_RetimeBookedSlot(t *testing.T) {
	engine := newTestEngine()
	itin := actionFixture()
	itin.Days[0].Slots[1].Fragility = &types.Fragility{BookingRequired: true, TicketType: "timed"}

	result := engine.ValidateAction(itin, types.UserAction{
		Type:         types.ActionRetime,
		SlotID:       "s2",
		NewTimeRange: &types.TimeRange{Start: "18:00", End: "20:00"},
	})

	assert.True(t, result.Allowed)
	require.NotEmpty(t, result.Violations)
	assert.Contains(t, result.Violations[0].Message, "timed")
	assert.NotEmpty(t, result.Violations[0].Resolution)
}

func TestEngine_ValidateAction_AddDuplicate(t *testing.T) {
	engine := newTestEngine()

	result := engine.ValidateAction(actionFixture(), types.UserAction{
		Type:     types.ActionAdd,
		Activity: &types.Activity{Name: "Senso-ji Temple"},
	})

	// the same fact that rejects a suggestion only annotates a user add
	assert.True(t, result.Allowed)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, types.SeverityWarning, result.Violations[0].Severity)
	assert.Contains(t, result.Violations[0].Message, "already in the itinerary")
}

func TestEngine_ValidateAction_CleanMove(t *testing.T) {
	engine := newTestEngine()
	itin := actionFixture()
	itin.Days[1].City = "Tokyo"

	result := engine.ValidateAction(itin, types.UserAction{Type: types.ActionMove, SlotID: "s2", ToDay: 2})

	assert.True(t, result.Allowed)
	assert.Empty(t, result.Violations)
	assert.Equal(t, types.Severity(""), result.MaxSeverity)
}
