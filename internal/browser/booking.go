package browser

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

// The methods below implement the five booking transaction steps plus
// receipt verification. Each returns an error when its target element
// cannot be located; the transaction orchestration in the scraper layer
// aborts on the first failed step.

// ClickSlot locates the available slot whose visible text mentions the
// requested court and time range and activates it.
func (c *Client) ClickSlot(courtID, timeSlot string) error {
	if !strings.Contains(c.page.URL(), c.sel.BannerPath) {
		if _, err := c.page.Goto(c.baseURL, playwright.PageGotoOptions{
			Timeout: playwright.Float(15000),
		}); err != nil {
			return fmt.Errorf("failed to reach booking page: %w", err)
		}
		if err := c.Login(); err != nil {
			return err
		}
		if c.count(c.sel.BookBanner) > 0 {
			if err := c.page.Locator(c.sel.BookBanner).First().Click(); err == nil {
				c.waitSettled(5000)
			}
		}
	}

	// The display name and the raw number both appear in slot text on
	// different site skins; try either form.
	bareID := strings.TrimPrefix(courtID, "Court")
	slots := c.page.Locator(c.sel.AvailableSlot)
	n, err := slots.Count()
	if err != nil {
		return fmt.Errorf("failed to enumerate slot elements: %w", err)
	}
	for i := 0; i < n; i++ {
		text, err := slots.Nth(i).InnerText()
		if err != nil {
			continue
		}
		if !(strings.Contains(text, courtID) || strings.Contains(text, bareID)) {
			continue
		}
		if !strings.Contains(text, timeSlot) {
			continue
		}
		log.Printf("found matching slot, clicking...")
		if err := slots.Nth(i).Click(); err != nil {
			return fmt.Errorf("slot click failed: %w", err)
		}
		c.waitSettled(5000)
		return nil
	}
	return fmt.Errorf("no available slot element matching %s at %s", courtID, timeSlot)
}

// ChooseCoPlayer locates the row carrying the co-player's name on the
// selection view and activates its choose control.
func (c *Client) ChooseCoPlayer(name string) error {
	if name == "" {
		return fmt.Errorf("no co-player configured")
	}
	rows := c.page.Locator(c.sel.CoPlayerRow)
	n, err := rows.Count()
	if err != nil {
		return fmt.Errorf("failed to enumerate co-player rows: %w", err)
	}
	for i := 0; i < n; i++ {
		row := rows.Nth(i)
		text, err := row.InnerText()
		if err != nil || !strings.Contains(text, name) {
			continue
		}
		choose := row.Locator(c.sel.CoPlayerChoose)
		if cnt, err := choose.Count(); err != nil || cnt == 0 {
			continue
		}
		if err := choose.First().Click(); err != nil {
			return fmt.Errorf("co-player choose click failed: %w", err)
		}
		c.waitSettled(5000)
		return nil
	}
	return fmt.Errorf("could not find co-player row for %q", name)
}

// AddToCart activates the add-to-cart control, matching by visible label
// first, then by scanning button click-handlers for the cart-adding
// function name. First match wins.
func (c *Client) AddToCart() error {
	return c.clickLabeledButton(c.sel.CartButton, c.sel.CartOnClick, "add to cart")
}

// AcceptTerms checks the terms-acceptance checkbox if not already checked.
func (c *Client) AcceptTerms() error {
	checkbox := c.page.Locator(c.sel.TermsCheckbox)
	if cnt, err := checkbox.Count(); err != nil || cnt == 0 {
		return fmt.Errorf("could not find terms checkbox (selector %q)", c.sel.TermsCheckbox)
	}
	checked, err := checkbox.First().IsChecked()
	if err == nil && checked {
		return nil
	}
	if err := checkbox.First().Click(); err != nil {
		return fmt.Errorf("terms checkbox click failed: %w", err)
	}
	time.Sleep(500 * time.Millisecond)
	return nil
}

// ConfirmBooking activates the confirm-booking control, matched like
// AddToCart.
func (c *Client) ConfirmBooking() error {
	return c.clickLabeledButton(c.sel.ConfirmButton, c.sel.ConfirmOnClick, "confirm booking")
}

func (c *Client) clickLabeledButton(labelSelector, onclickSubstr, what string) error {
	target := c.page.Locator(labelSelector)
	if cnt, err := target.Count(); err == nil && cnt > 0 {
		if err := target.First().Click(); err != nil {
			return fmt.Errorf("%s click failed: %w", what, err)
		}
		c.waitSettled(5000)
		return nil
	}

	// Label not found; inspect each candidate button's click-handler.
	buttons := c.page.Locator(".btn")
	n, err := buttons.Count()
	if err != nil {
		return fmt.Errorf("failed to enumerate buttons for %s: %w", what, err)
	}
	for i := 0; i < n; i++ {
		onclick, err := buttons.Nth(i).GetAttribute("onclick")
		if err != nil || !strings.Contains(onclick, onclickSubstr) {
			continue
		}
		if err := buttons.Nth(i).Click(); err != nil {
			return fmt.Errorf("%s click failed: %w", what, err)
		}
		c.waitSettled(5000)
		return nil
	}
	return fmt.Errorf("could not find %s control", what)
}

// VerifyReceipt reports whether the page shows a booking confirmation.
// A false result does not guarantee the booking failed; the receipt page
// may simply have rendered differently.
func (c *Client) VerifyReceipt() bool {
	if c.count(c.sel.ReceiptMarker) > 0 {
		return true
	}
	text, err := c.bodyText()
	if err != nil {
		log.Printf("⚠️ could not read page text for receipt check: %v", err)
		return false
	}
	for _, keyword := range c.sel.ReceiptKeywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

func (c *Client) waitSettled(timeoutMs float64) {
	if err := c.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: playwright.Float(timeoutMs),
	}); err != nil {
		log.Printf("network idle timeout (tolerated)")
	}
}
