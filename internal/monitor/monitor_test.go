package monitor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glazeddonut/Tennis-Monitor/internal/config"
	"github.com/glazeddonut/Tennis-Monitor/internal/models"
	"github.com/glazeddonut/Tennis-Monitor/internal/scraper"
)

// fakeClient returns one scripted result per call and records bookings.
type fakeClient struct {
	results []fetchResult
	calls   int

	booked      []string
	bookSuccess bool
}

type fetchResult struct {
	slots []models.Slot
	err   error
}

func (c *fakeClient) GetAvailableSlots(date string) ([]models.Slot, error) {
	if c.calls >= len(c.results) {
		return nil, nil
	}
	r := c.results[c.calls]
	c.calls++
	return r.slots, r.err
}

func (c *fakeClient) BookSlot(courtName, timeSlot string) bool {
	c.booked = append(c.booked, courtName+" "+timeSlot)
	return c.bookSuccess
}

// fakeNotifier records every notification.
type fakeNotifier struct {
	available []models.Slot
	booked    []models.Slot
	alerts    []string // titles
	alive     int
}

func (n *fakeNotifier) NotifyAvailable(s models.Slot) { n.available = append(n.available, s) }
func (n *fakeNotifier) NotifyBooked(s models.Slot)    { n.booked = append(n.booked, s) }
func (n *fakeNotifier) NotifyAlert(title, msg string) { n.alerts = append(n.alerts, title) }
func (n *fakeNotifier) NotifyAlive(checks, slots int) { n.alive++ }

func testConfig() *config.Config {
	return &config.Config{
		Monitor: config.MonitorConfig{IntervalSeconds: 1},
	}
}

func newTestMonitor(client *fakeClient, n *fakeNotifier) *Monitor {
	m := New(testConfig(), client, n)
	m.now = func() time.Time { return time.Date(2025, 12, 6, 12, 0, 0, 0, time.UTC) }
	return m
}

func TestRunCycleNotifiesOncePerSlot(t *testing.T) {
	slotA := models.Slot{Name: "Court11", TimeSlot: "18:00-19:00", Date: "2025-12-06"}
	slotB := models.Slot{Name: "Court12", TimeSlot: "19:00-20:00", Date: "2025-12-06"}

	client := &fakeClient{results: []fetchResult{
		{slots: []models.Slot{slotA}},
		{slots: []models.Slot{slotA}},
		{slots: []models.Slot{slotA, slotB}},
	}}
	n := &fakeNotifier{}
	m := newTestMonitor(client, n)

	for i := 0; i < 3; i++ {
		require.NoError(t, m.runCycle())
	}

	// slotA persisted across three polls but is announced only once.
	require.Len(t, n.available, 2)
	assert.Equal(t, "Court11", n.available[0].Name)
	assert.Equal(t, "Court12", n.available[1].Name)
	assert.Empty(t, client.booked)
}

func TestRunCycleDailyReset(t *testing.T) {
	slotA := models.Slot{Name: "Court11", TimeSlot: "18:00-19:00", Date: "2025-12-06"}

	client := &fakeClient{results: []fetchResult{
		{slots: []models.Slot{slotA}},
		{slots: []models.Slot{slotA}},
	}}
	n := &fakeNotifier{}
	m := newTestMonitor(client, n)

	day := time.Date(2025, 12, 6, 23, 59, 0, 0, time.UTC)
	m.now = func() time.Time { return day }
	require.NoError(t, m.runCycle())

	day = day.Add(2 * time.Minute) // midnight crossed
	require.NoError(t, m.runCycle())

	// The same slot is announced again after the day boundary, and the
	// daily counters restart.
	assert.Len(t, n.available, 2)
	assert.Equal(t, 1, m.Status().ChecksPerformedToday)
}

func TestRunCycleFiltersByPreferences(t *testing.T) {
	client := &fakeClient{results: []fetchResult{{slots: []models.Slot{
		{Name: "Court11", TimeSlot: "18:00-19:00", Date: "2025-12-06"},
		{Name: "Court12", TimeSlot: "18:00-19:00", Date: "2025-12-06"},
	}}}}
	n := &fakeNotifier{}
	m := newTestMonitor(client, n)
	m.cfg.Preferences.Courts = []string{"Court12"}

	require.NoError(t, m.runCycle())
	require.Len(t, n.available, 1)
	assert.Equal(t, "Court12", n.available[0].Name)
}

func TestRunCycleAutoBook(t *testing.T) {
	client := &fakeClient{
		results: []fetchResult{{slots: []models.Slot{
			{Name: "Court11", TimeSlot: "18:00-19:00", Date: "2025-12-06"},
		}}},
		bookSuccess: true,
	}
	n := &fakeNotifier{}
	m := newTestMonitor(client, n)
	m.cfg.Monitor.AutoBook = true

	require.NoError(t, m.runCycle())
	assert.Equal(t, []string{"Court11 18:00-19:00"}, client.booked)
	require.Len(t, n.booked, 1)
	assert.Equal(t, "Court11", n.booked[0].Name)
}

func TestPendingBookingsDrainFIFO(t *testing.T) {
	client := &fakeClient{bookSuccess: true}
	n := &fakeNotifier{}
	m := newTestMonitor(client, n)

	m.EnqueueBooking(models.BookingRequest{CourtName: "Court11", TimeSlot: "18:00-19:00"})
	m.EnqueueBooking(models.BookingRequest{CourtName: "Court12", TimeSlot: "19:00-20:00"})

	require.NoError(t, m.runCycle())
	assert.Equal(t, []string{"Court11 18:00-19:00", "Court12 19:00-20:00"}, client.booked)
	assert.Len(t, n.booked, 2)

	// The queue is consumed; a second cycle books nothing more.
	require.NoError(t, m.runCycle())
	assert.Len(t, client.booked, 2)
}

func TestPendingBookingFailureAlerts(t *testing.T) {
	client := &fakeClient{bookSuccess: false}
	n := &fakeNotifier{}
	m := newTestMonitor(client, n)

	m.EnqueueBooking(models.BookingRequest{CourtName: "Court11", TimeSlot: "18:00-19:00"})
	require.NoError(t, m.runCycle())

	assert.Empty(t, n.booked)
	assert.Equal(t, []string{"Booking Failed"}, n.alerts)
}

func TestRunStopsOnStructureError(t *testing.T) {
	client := &fakeClient{results: []fetchResult{
		{err: &scraper.StructureValidationError{UnknownCourts: []string{"13"}}},
	}}
	n := &fakeNotifier{}
	m := newTestMonitor(client, n)

	done := make(chan struct{})
	go func() {
		m.Run()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("monitor did not stop on fatal error")
	}

	require.Len(t, n.alerts, 1)
	assert.Equal(t, "Booking System Structure Changed", n.alerts[0])
	assert.False(t, m.Status().IsRunning)
}

func TestStatusSnapshot(t *testing.T) {
	client := &fakeClient{results: []fetchResult{{slots: []models.Slot{
		{Name: "Court11", TimeSlot: "18:00-19:00", Date: "2025-12-06"},
	}}}}
	n := &fakeNotifier{}
	m := newTestMonitor(client, n)

	require.NoError(t, m.runCycle())
	st := m.Status()
	assert.Equal(t, 1, st.ChecksPerformedToday)
	assert.Equal(t, 1, st.SlotsFoundToday)
	require.Len(t, st.LastFoundSlots, 1)
	assert.Equal(t, "Court11", st.LastFoundSlots[0].Name)
}
