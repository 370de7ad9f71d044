package scraper

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glazeddonut/Tennis-Monitor/internal/browser"
)

// fakeDriver scripts the browser surface and records which booking steps
// ran, in order.
type fakeDriver struct {
	elements []browser.SlotElement
	openErr  error
	elemErr  error

	steps    []string
	failStep string
	receipt  bool
}

func (d *fakeDriver) OpenAvailability() error { return d.openErr }

func (d *fakeDriver) AvailableSlotElements() ([]browser.SlotElement, error) {
	return d.elements, d.elemErr
}

func (d *fakeDriver) step(name string) error {
	d.steps = append(d.steps, name)
	if name == d.failStep {
		return fmt.Errorf("%s: element not found", name)
	}
	return nil
}

func (d *fakeDriver) ClickSlot(courtID, timeSlot string) error { return d.step("click") }
func (d *fakeDriver) ChooseCoPlayer(name string) error         { return d.step("coplayer") }
func (d *fakeDriver) AddToCart() error                         { return d.step("cart") }
func (d *fakeDriver) AcceptTerms() error                       { return d.step("terms") }
func (d *fakeDriver) ConfirmBooking() error                    { return d.step("confirm") }
func (d *fakeDriver) VerifyReceipt() bool                      { return d.receipt }

func slotElement(payload string) browser.SlotElement {
	return browser.SlotElement{
		OnClick: fmt.Sprintf("mdsende('a','b','%s')", payload),
		Title:   "Ledig",
		Text:    "18:00",
	}
}

func TestGetAvailableSlotsResolvesCourts(t *testing.T) {
	driver := &fakeDriver{elements: []browser.SlotElement{
		slotElement("06-12-2025;2;9;18:00;19:00"),
	}}
	client := New(driver, CourtMap{"9": "Court11"}, "Partner")

	slots, err := client.GetAvailableSlots("")
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, "9:2025-12-06:18:00", slots[0].ID)
	assert.Equal(t, "Court11", slots[0].Name)
	assert.Equal(t, "2025-12-06", slots[0].Date)
	assert.Equal(t, "18:00-19:00", slots[0].TimeSlot)
}

func TestGetAvailableSlotsUnknownCourt(t *testing.T) {
	driver := &fakeDriver{elements: []browser.SlotElement{
		slotElement("06-12-2025;2;9;18:00;19:00"),
		slotElement("06-12-2025;2;10;18:00;19:00"),
	}}
	client := New(driver, CourtMap{"9": "Court11"}, "Partner")

	slots, err := client.GetAvailableSlots("")
	require.Error(t, err)
	assert.Nil(t, slots)

	var sve *StructureValidationError
	require.ErrorAs(t, err, &sve)
	// Only the unmapped number is reported, not the known one.
	assert.Equal(t, []string{"10"}, sve.UnknownCourts)
}

func TestGetAvailableSlotsBootstrapSkipsValidation(t *testing.T) {
	driver := &fakeDriver{elements: []browser.SlotElement{
		slotElement("06-12-2025;2;42;18:00;19:00"),
	}}
	client := New(driver, CourtMap{}, "Partner")

	slots, err := client.GetAvailableSlots("")
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, "court-42", slots[0].Name)
}

func TestGetAvailableSlotsGenericFallback(t *testing.T) {
	driver := &fakeDriver{elements: []browser.SlotElement{
		{OnClick: "showinfo()", Title: "Tilbud", Text: "Se mere"},
	}}
	client := New(driver, CourtMap{"9": "Court11"}, "Partner")

	slots, err := client.GetAvailableSlots("2025-12-06")
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, "slot-0", slots[0].ID)
	assert.Equal(t, "Tilbud", slots[0].Name)
	assert.Equal(t, "2025-12-06", slots[0].Date)
}

func TestGetAvailableSlotsTransientNavigationFailure(t *testing.T) {
	driver := &fakeDriver{openErr: errors.New("net::ERR_CONNECTION_RESET")}
	client := New(driver, CourtMap{"9": "Court11"}, "Partner")

	slots, err := client.GetAvailableSlots("")
	assert.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGetAvailableSlotsFatalNavigationFailure(t *testing.T) {
	driver := &fakeDriver{openErr: fmt.Errorf("login: %w", browser.ErrNavigationContract)}
	client := New(driver, CourtMap{"9": "Court11"}, "Partner")

	_, err := client.GetAvailableSlots("")
	require.Error(t, err)
	assert.ErrorIs(t, err, browser.ErrNavigationContract)
}

func TestBookSlotHappyPath(t *testing.T) {
	driver := &fakeDriver{receipt: true}
	client := New(driver, CourtMap{"9": "Court11"}, "Partner")

	assert.True(t, client.BookSlot("Court11", "18:00-19:00"))
	assert.Equal(t, []string{"click", "coplayer", "cart", "terms", "confirm"}, driver.steps)
}

func TestBookSlotAbortsOnFailedStep(t *testing.T) {
	driver := &fakeDriver{failStep: "coplayer", receipt: true}
	client := New(driver, CourtMap{"9": "Court11"}, "Partner")

	assert.False(t, client.BookSlot("Court11", "18:00-19:00"))
	// Steps after the failure never run.
	assert.Equal(t, []string{"click", "coplayer"}, driver.steps)
}

func TestBookSlotMissingReceipt(t *testing.T) {
	driver := &fakeDriver{receipt: false}
	client := New(driver, CourtMap{"9": "Court11"}, "Partner")

	assert.False(t, client.BookSlot("Court11", "18:00-19:00"))
	assert.Equal(t, []string{"click", "coplayer", "cart", "terms", "confirm"}, driver.steps)
}
