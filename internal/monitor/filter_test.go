package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/glazeddonut/Tennis-Monitor/internal/models"
)

func slot(name, timeSlot string) models.Slot {
	return models.Slot{Name: name, TimeSlot: timeSlot, Date: "2025-12-06"}
}

func TestMatchesPreferences(t *testing.T) {
	s := slot("Court11", "18:00-19:00")

	// Empty preferences match everything.
	assert.True(t, MatchesPreferences(s, nil, nil))

	assert.True(t, MatchesPreferences(s, []string{"Court11"}, nil))
	assert.False(t, MatchesPreferences(s, []string{"Court12"}, nil))

	// Times compare against the start component only.
	assert.True(t, MatchesPreferences(s, nil, []string{"18:00"}))
	assert.False(t, MatchesPreferences(s, nil, []string{"19:00"}))

	assert.True(t, MatchesPreferences(s, []string{"Court11"}, []string{"18:00"}))
	assert.False(t, MatchesPreferences(s, []string{"Court11"}, []string{"17:00"}))
}

func TestFilterSlotsPreservesOrder(t *testing.T) {
	slots := []models.Slot{
		slot("Court11", "18:00-19:00"),
		slot("Court12", "18:00-19:00"),
		slot("Court11", "19:00-20:00"),
	}

	matched := FilterSlots(slots, []string{"Court11"}, nil)
	assert.Equal(t, []models.Slot{slots[0], slots[2]}, matched)

	assert.Empty(t, FilterSlots(slots, []string{"Court99"}, nil))
	assert.Len(t, FilterSlots(slots, nil, nil), 3)
}

func TestDedupTracker(t *testing.T) {
	d := NewDedupTracker()
	d.Rollover("2025-12-06")

	assert.True(t, d.ShouldNotify("Court11:18:00-19:00:2025-12-06"))
	assert.False(t, d.ShouldNotify("Court11:18:00-19:00:2025-12-06"))
	assert.True(t, d.ShouldNotify("Court12:18:00-19:00:2025-12-06"))

	// Same day: no reset.
	assert.False(t, d.Rollover("2025-12-06"))
	assert.False(t, d.ShouldNotify("Court11:18:00-19:00:2025-12-06"))

	// Day change clears the set.
	assert.True(t, d.Rollover("2025-12-07"))
	assert.True(t, d.ShouldNotify("Court11:18:00-19:00:2025-12-06"))
}
