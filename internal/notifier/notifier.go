package notifier

import (
	"fmt"
	"log"

	"github.com/glazeddonut/Tennis-Monitor/internal/config"
	"github.com/glazeddonut/Tennis-Monitor/internal/models"
)

// Notifier is the narrow notification surface the monitor depends on.
// Delivery is best-effort: implementations log transport failures and
// never propagate them to the caller.
type Notifier interface {
	NotifyAvailable(slot models.Slot)
	NotifyBooked(slot models.Slot)
	NotifyAlert(title, message string)
	NotifyAlive(checksToday, slotsToday int)
}

// sender is one delivery channel (push service, email).
type sender interface {
	send(title, message string, alert bool) error
	name() string
}

// Manager fans notifications out to every configured channel.
type Manager struct {
	senders []sender
}

// NewManager wires up the channels enabled in the configuration. With
// nothing configured notifications still show up in the log.
func NewManager(cfg config.NotifyConfig) *Manager {
	m := &Manager{}
	if push := newPushSender(cfg); push != nil {
		m.senders = append(m.senders, push)
	}
	if cfg.Email.Enabled {
		m.senders = append(m.senders, newEmailSender(cfg.Email))
	}
	if len(m.senders) == 0 {
		log.Println("⚠️ no notification channel configured, notifications will only be logged")
	}
	return m
}

func (m *Manager) dispatch(title, message string, alert bool) {
	for _, s := range m.senders {
		if err := s.send(title, message, alert); err != nil {
			log.Printf("⚠️ %s notification failed: %v", s.name(), err)
		}
	}
}

// NotifyAvailable announces a newly seen open slot.
func (m *Manager) NotifyAvailable(slot models.Slot) {
	message := formatSlot(slot, "Available")
	m.dispatch("Court Available", message, false)
	log.Printf("availability alert: %s", message)
}

// NotifyBooked announces a successful reservation.
func (m *Manager) NotifyBooked(slot models.Slot) {
	message := formatSlot(slot, "Booked")
	m.dispatch("Court Booked", message, false)
	log.Printf("booking success: %s", message)
}

// NotifyAlert sends a high-priority alert, e.g. on a structure change.
func (m *Manager) NotifyAlert(title, message string) {
	m.dispatch(title, message, true)
	log.Printf("🚨 alert sent: %s: %s", title, message)
}

// NotifyAlive is the daily heartbeat summarizing the day so far.
func (m *Manager) NotifyAlive(checksToday, slotsToday int) {
	message := fmt.Sprintf(
		"Monitor is alive: %d checks performed, %d matching slots found today",
		checksToday, slotsToday,
	)
	m.dispatch("Tennis Monitor Alive", message, false)
	log.Printf("heartbeat: %s", message)
}

func formatSlot(slot models.Slot, status string) string {
	return fmt.Sprintf("Court %s - %s: %s", slot.Name, slot.TimeSlot, status)
}
