package monitor

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/glazeddonut/Tennis-Monitor/internal/config"
	"github.com/glazeddonut/Tennis-Monitor/internal/models"
	"github.com/glazeddonut/Tennis-Monitor/internal/notifier"
	"github.com/glazeddonut/Tennis-Monitor/internal/scraper"
)

// AvailabilityClient is the read/book surface the monitor drives. It is
// only ever called from the monitor's own goroutine, which keeps the
// underlying browser single-owner.
type AvailabilityClient interface {
	// GetAvailableSlots returns an error only for fatal conditions
	// (structure validation, navigation contract break); transient
	// failures come back as an empty result.
	GetAvailableSlots(date string) ([]models.Slot, error)
	BookSlot(courtName, timeSlot string) bool
}

// Monitor runs the perpetual check-notify-book cycle.
type Monitor struct {
	cfg      *config.Config
	client   AvailabilityClient
	notifier notifier.Notifier

	running     atomic.Bool
	checksToday atomic.Int64
	slotsToday  atomic.Int64

	mu        sync.Mutex
	pending   []models.BookingRequest
	lastFound []models.Slot

	dedup    *DedupTracker
	cron     *cron.Cron
	stop     chan struct{}
	stopOnce sync.Once

	now func() time.Time
}

// New creates a monitor.
func New(cfg *config.Config, client AvailabilityClient, n notifier.Notifier) *Monitor {
	return &Monitor{
		cfg:      cfg,
		client:   client,
		notifier: n,
		dedup:    NewDedupTracker(),
		stop:     make(chan struct{}),
		now:      time.Now,
	}
}

// EnqueueBooking appends a booking request to the FIFO command queue.
// Safe to call from any goroutine; the booking itself is executed by the
// monitor loop, which owns the browser.
func (m *Monitor) EnqueueBooking(req models.BookingRequest) {
	m.mu.Lock()
	m.pending = append(m.pending, req)
	m.mu.Unlock()
	log.Printf("queued booking request: %s at %s", req.CourtName, req.TimeSlot)
}

// Status returns a read-only snapshot. Stats are read without holding
// the cycle; slightly stale values are acceptable.
func (m *Monitor) Status() models.Status {
	m.mu.Lock()
	last := append([]models.Slot(nil), m.lastFound...)
	m.mu.Unlock()
	return models.Status{
		IsRunning:            m.running.Load(),
		ChecksPerformedToday: int(m.checksToday.Load()),
		SlotsFoundToday:      int(m.slotsToday.Load()),
		LastFoundSlots:       last,
	}
}

// Run executes the monitoring loop until Stop is called or a fatal
// error terminates it. Blocking; call from a dedicated goroutine when
// combined with the API server.
func (m *Monitor) Run() {
	m.running.Store(true)
	defer m.running.Store(false)

	m.startHeartbeat()
	defer m.stopHeartbeat()

	interval := time.Duration(m.cfg.Monitor.IntervalSeconds) * time.Second
	log.Printf("monitor started (interval %s, auto-book=%v)", interval, m.cfg.Monitor.AutoBook)

	for m.running.Load() {
		if fatal := m.runCycle(); fatal != nil {
			// Exactly one alert goes out before the loop dies: polling
			// a site whose identifiers no longer match risks notifying
			// about, or auto-booking, the wrong court.
			title := "Tennis Monitor Error"
			var sve *scraper.StructureValidationError
			if errors.As(fatal, &sve) {
				title = "Booking System Structure Changed"
			}
			m.notifier.NotifyAlert(title, fatal.Error())
			log.Printf("🚨 fatal monitor error, stopping: %v", fatal)
			return
		}

		select {
		case <-time.After(interval):
		case <-m.stop:
		}
	}
	log.Println("monitor stopped")
}

// Stop asks the loop to exit. It takes effect at the top of the next
// cycle; a booking transaction in flight is never aborted.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() {
		m.running.Store(false)
		close(m.stop)
	})
}

// runCycle performs one full iteration. Only fatal errors are returned;
// everything else is logged and the next cycle retries.
func (m *Monitor) runCycle() error {
	m.drainPendingBookings()
	m.rolloverDay()

	slots, err := m.client.GetAvailableSlots("")
	if err != nil {
		return err
	}

	matches := FilterSlots(slots, m.cfg.Preferences.Courts, m.cfg.Preferences.Times)
	log.Printf("found %d slots, %d matching preferences", len(slots), len(matches))

	m.mu.Lock()
	if len(matches) > 3 {
		m.lastFound = append([]models.Slot(nil), matches[:3]...)
	} else {
		m.lastFound = append([]models.Slot(nil), matches...)
	}
	m.mu.Unlock()

	m.checksToday.Add(1)
	m.slotsToday.Add(int64(len(matches)))

	for _, slot := range matches {
		if !m.dedup.ShouldNotify(slot.DedupKey()) {
			log.Printf("already notified about %s at %s", slot.Name, slot.TimeSlot)
			continue
		}
		m.notifier.NotifyAvailable(slot)

		if m.cfg.Monitor.AutoBook {
			if m.client.BookSlot(slot.Name, slot.TimeSlot) {
				m.notifier.NotifyBooked(slot)
			}
		}
	}
	return nil
}

// drainPendingBookings executes queued booking requests FIFO, at most
// once each.
func (m *Monitor) drainPendingBookings() {
	for {
		m.mu.Lock()
		if len(m.pending) == 0 {
			m.mu.Unlock()
			return
		}
		req := m.pending[0]
		m.pending = m.pending[1:]
		m.mu.Unlock()

		log.Printf("processing pending booking: %s at %s", req.CourtName, req.TimeSlot)
		if m.client.BookSlot(req.CourtName, req.TimeSlot) {
			m.notifier.NotifyBooked(models.Slot{Name: req.CourtName, TimeSlot: req.TimeSlot})
		} else {
			m.notifier.NotifyAlert(
				"Booking Failed",
				fmt.Sprintf("Could not book %s at %s", req.CourtName, req.TimeSlot),
			)
		}
	}
}

// rolloverDay clears the notified-slot set and the daily stats exactly
// once per calendar-day crossing.
func (m *Monitor) rolloverDay() {
	today := m.now().Format("2006-01-02")
	if m.dedup.Rollover(today) {
		m.checksToday.Store(0)
		m.slotsToday.Store(0)
		log.Printf("daily notification tracking reset (date changed to %s)", today)
	}
}

func (m *Monitor) startHeartbeat() {
	if !m.cfg.Monitor.HeartbeatEnabled {
		return
	}
	m.cron = cron.New()
	spec := fmt.Sprintf("0 %d * * *", m.cfg.Monitor.HeartbeatHour)
	if _, err := m.cron.AddFunc(spec, m.sendHeartbeat); err != nil {
		log.Printf("⚠️ failed to schedule heartbeat: %v", err)
		m.cron = nil
		return
	}
	m.cron.Start()
	log.Printf("heartbeat scheduler started (daily at %02d:00)", m.cfg.Monitor.HeartbeatHour)
}

func (m *Monitor) stopHeartbeat() {
	if m.cron != nil {
		m.cron.Stop()
	}
}

// sendHeartbeat only talks to the notifier, never to the browser, so it
// needs no synchronization with the main loop beyond the atomic stats.
func (m *Monitor) sendHeartbeat() {
	m.notifier.NotifyAlive(int(m.checksToday.Load()), int(m.slotsToday.Load()))
}
