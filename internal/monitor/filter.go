package monitor

import (
	"slices"

	"github.com/glazeddonut/Tennis-Monitor/internal/models"
)

// MatchesPreferences reports whether a slot matches the user's
// preferences. An empty court list matches every court and an empty
// time list matches every start time; only the start component of the
// slot's time range is compared.
func MatchesPreferences(slot models.Slot, courts, times []string) bool {
	if len(courts) > 0 && !slices.Contains(courts, slot.Name) {
		return false
	}
	if len(times) > 0 && !slices.Contains(times, slot.StartTime()) {
		return false
	}
	return true
}

// FilterSlots returns the slots matching the given preferences,
// preserving order.
func FilterSlots(slots []models.Slot, courts, times []string) []models.Slot {
	var matched []models.Slot
	for _, slot := range slots {
		if MatchesPreferences(slot, courts, times) {
			matched = append(matched, slot)
		}
	}
	return matched
}
