package scraper

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/glazeddonut/Tennis-Monitor/internal/browser"
	"github.com/glazeddonut/Tennis-Monitor/internal/models"
)

// SessionDriver is what the availability read path needs from the
// browser session.
type SessionDriver interface {
	OpenAvailability() error
	AvailableSlotElements() ([]browser.SlotElement, error)
}

// BookingDriver is what the booking transaction needs from the browser
// session, one method per step.
type BookingDriver interface {
	ClickSlot(courtID, timeSlot string) error
	ChooseCoPlayer(name string) error
	AddToCart() error
	AcceptTerms() error
	ConfirmBooking() error
	VerifyReceipt() bool
}

// Driver is the full browser surface the client drives.
type Driver interface {
	SessionDriver
	BookingDriver
}

// Client turns raw slot elements into normalized slots and runs the
// booking transaction. All browser access goes through the single
// driver; the client itself holds no page state.
type Client struct {
	driver   Driver
	courts   CourtMap
	coPlayer string
}

// New creates an availability client.
func New(driver Driver, courts CourtMap, coPlayer string) *Client {
	if courts == nil {
		courts = CourtMap{}
	}
	return &Client{driver: driver, courts: courts, coPlayer: coPlayer}
}

// GetAvailableSlots returns the normalized list of available slots for
// the given date (today when empty).
//
// Error contract: only a StructureValidationError or a fatal navigation
// contract break from the session layer comes back as an error. Every
// transient failure (network, timeouts, missing elements) degrades to an
// empty result and is retried on the next poll.
func (c *Client) GetAvailableSlots(date string) ([]models.Slot, error) {
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	if err := c.driver.OpenAvailability(); err != nil {
		if isFatal(err) {
			return nil, err
		}
		log.Printf("availability navigation failed (will retry next poll): %v", err)
		return nil, nil
	}

	elements, err := c.driver.AvailableSlotElements()
	if err != nil {
		log.Printf("slot discovery failed (will retry next poll): %v", err)
		return nil, nil
	}

	slots := make([]models.Slot, 0, len(elements))
	unknown := map[string]struct{}{}
	for idx, el := range elements {
		payload, ok := ParseSlotPayload(el.OnClick)
		if !ok {
			// Non-standard element: keep a best-effort generic record
			// rather than dropping it.
			name := el.Title
			if name == "" {
				name = fmt.Sprintf("slot-%d", idx)
			}
			slots = append(slots, models.Slot{
				ID:       fmt.Sprintf("slot-%d", idx),
				Name:     name,
				Date:     date,
				TimeSlot: el.Text,
				OnClick:  el.OnClick,
				Title:    el.Title,
				Text:     el.Text,
			})
			continue
		}

		if !c.courts.Bootstrap() {
			if _, known := c.courts[payload.CourtNum]; !known {
				unknown[payload.CourtNum] = struct{}{}
			}
		}

		slots = append(slots, models.Slot{
			ID:       payload.CourtNum + ":" + payload.Date + ":" + payload.Start,
			CourtNum: payload.CourtNum,
			Name:     c.courts.Resolve(payload.CourtNum),
			Date:     payload.Date,
			TimeSlot: payload.Start + "-" + payload.End,
			OnClick:  el.OnClick,
			Title:    el.Title,
			Text:     el.Text,
		})
	}

	// Unknown court numbers poison the whole poll, even when other slots
	// resolved fine: a renamed or relocated court must never be silently
	// ignored or auto-booked.
	if len(unknown) > 0 {
		ids := make([]string, 0, len(unknown))
		for id := range unknown {
			ids = append(ids, id)
		}
		return nil, &StructureValidationError{UnknownCourts: ids, CourtMap: c.courts}
	}

	log.Printf("returning %d availability entries", len(slots))
	return slots, nil
}

func isFatal(err error) bool {
	return errors.Is(err, browser.ErrNavigationContract)
}

// BookSlot runs the five-step booking transaction. Any step whose target
// element cannot be located aborts the transaction; this operation never
// panics or returns an error, only success/failure.
//
// After the confirm step the receipt page is checked; a failed check
// returns false even though the booking may actually have landed. That
// limitation is deliberate and surfaced to the operator via the failed-
// booking notification rather than hidden.
func (c *Client) BookSlot(courtName, timeSlot string) bool {
	steps := []struct {
		name string
		run  func() error
	}{
		{"select slot", func() error { return c.driver.ClickSlot(courtName, timeSlot) }},
		{"choose co-player", func() error { return c.driver.ChooseCoPlayer(c.coPlayer) }},
		{"add to cart", c.driver.AddToCart},
		{"accept terms", c.driver.AcceptTerms},
		{"confirm booking", c.driver.ConfirmBooking},
	}
	for i, step := range steps {
		log.Printf("booking step %d/5: %s", i+1, step.name)
		if err := step.run(); err != nil {
			log.Printf("⚠️ booking step %d (%s) failed: %v", i+1, step.name, err)
			return false
		}
	}

	if !c.driver.VerifyReceipt() {
		log.Println("⚠️ could not verify booking receipt")
		return false
	}
	log.Printf("🎉 booking receipt found: %s at %s", courtName, timeSlot)
	return true
}
