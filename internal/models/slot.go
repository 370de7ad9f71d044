package models

import "strings"

// Slot is one bookable court+date+time-range unit as surfaced by the site.
// Slots live for a single poll cycle and are never persisted.
type Slot struct {
	// ID is unique per court+date+start time, e.g. "9:2025-12-06:18:00".
	ID       string `json:"id"`
	CourtNum string `json:"court_num"` // raw site court number, may be empty for generic slots
	Name     string `json:"name"`      // resolved display name or synthesized "court-<num>"
	Date     string `json:"date"`      // ISO 8601 (YYYY-MM-DD)
	TimeSlot string `json:"time_slot"` // "HH:MM-HH:MM"
	OnClick  string `json:"onclick"`   // original click-handler payload, kept for diagnostics
	Title    string `json:"title"`
	Text     string `json:"text"`
}

// DedupKey identifies a slot for notification dedup purposes,
// e.g. "Court11:18:00-19:00:2025-12-06".
func (s Slot) DedupKey() string {
	return s.Name + ":" + s.TimeSlot + ":" + s.Date
}

// StartTime returns the start component of the time range,
// e.g. "18:00" for "18:00-19:00".
func (s Slot) StartTime() string {
	start, _, _ := strings.Cut(s.TimeSlot, "-")
	return start
}

// BookingRequest is a user-requested reservation queued through the API
// and consumed by the monitor loop.
type BookingRequest struct {
	CourtName string `json:"court_name"`
	TimeSlot  string `json:"time_slot"`
}

// Status is a read-only snapshot of the monitor state.
type Status struct {
	IsRunning            bool   `json:"is_running"`
	ChecksPerformedToday int    `json:"checks_performed_today"`
	SlotsFoundToday      int    `json:"slots_found_today"`
	LastFoundSlots       []Slot `json:"available_slots"`
}
