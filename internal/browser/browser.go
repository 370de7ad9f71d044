package browser

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/glazeddonut/Tennis-Monitor/internal/config"
)

// SessionState is the explicit authentication state of the browser
// session. Transitions only happen inside the login protocol.
type SessionState int

const (
	StateUnauthenticated SessionState = iota
	StateAuthInFlight
	StateAuthenticated
	// StateUnknown means login could not be confirmed but monitoring
	// proceeds anyway; a true failure surfaces later as an empty poll.
	StateUnknown
)

func (s SessionState) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthInFlight:
		return "authentication-in-flight"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// ErrNavigationContract is returned when neither a login nor a logout
// affordance can be found on the page. This is never retried: continuing
// would silently scrape a login wall.
var ErrNavigationContract = errors.New("neither login nor logout affordance found on page")

// SlotElement is the raw material of one candidate slot element on the
// availability page.
type SlotElement struct {
	OnClick string
	Title   string
	Text    string
}

// Client owns one long-lived browser page and makes the booking site
// believe there is one continuous human session. It must only ever be
// driven from a single goroutine.
type Client struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page

	baseURL  string
	username string
	password string
	sel      config.SelectorConfig
	stateDir string

	state     SessionState
	closeOnce sync.Once
}

// New creates a browser client. Browsers must be installed beforehand:
// go run github.com/playwright-community/playwright-go/cmd/playwright@latest install chromium
func New(cfg *config.Config) (*Client, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	homeDir, _ := os.UserHomeDir()
	stateDir := filepath.Join(homeDir, ".tennis-monitor", "browser-state")
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		log.Printf("⚠️ could not create session state dir: %v", err)
	}

	return &Client{
		pw:       pw,
		baseURL:  cfg.Booking.BaseURL,
		username: cfg.Booking.Username,
		password: cfg.Booking.Password,
		sel:      cfg.Selectors,
		stateDir: stateDir,
		state:    StateUnauthenticated,
	}, nil
}

// Start launches the browser and creates the persistent page.
func (c *Client) Start(headless bool) error {
	browser, err := c.pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(headless),
		Args: []string{
			"--disable-blink-features=AutomationControlled",
			"--disable-dev-shm-usage",
			"--no-sandbox",
		},
	})
	if err != nil {
		return fmt.Errorf("failed to launch browser: %w", err)
	}
	c.browser = browser

	stateFile := filepath.Join(c.stateDir, "state.json")
	if _, err := os.Stat(stateFile); err == nil {
		log.Println("💾 found saved session, restoring...")
		context, err := browser.NewContext(playwright.BrowserNewContextOptions{
			StorageStatePath: playwright.String(stateFile),
			UserAgent:        playwright.String(userAgent),
			Viewport:         &playwright.Size{Width: 1280, Height: 720},
		})
		if err != nil {
			log.Printf("⚠️ session restore failed, creating fresh context: %v", err)
			context, err = c.newContext(browser)
			if err != nil {
				return err
			}
		}
		c.context = context
	} else {
		context, err := c.newContext(browser)
		if err != nil {
			return err
		}
		c.context = context
	}

	page, err := c.context.NewPage()
	if err != nil {
		return fmt.Errorf("failed to create page: %w", err)
	}
	page.SetDefaultTimeout(30000)
	page.SetDefaultNavigationTimeout(30000)
	c.page = page

	return nil
}

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func (c *Client) newContext(browser playwright.Browser) (playwright.BrowserContext, error) {
	context, err := browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(userAgent),
		Viewport:  &playwright.Size{Width: 1280, Height: 720},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}
	return context, nil
}

// SaveSession persists cookies and storage so the next start can reuse
// the authenticated session.
func (c *Client) SaveSession() error {
	if c.context == nil {
		return fmt.Errorf("no browser context")
	}
	stateFile := filepath.Join(c.stateDir, "state.json")
	if _, err := c.context.StorageState(stateFile); err != nil {
		return fmt.Errorf("failed to save session state: %w", err)
	}
	return nil
}

// State returns the current session state.
func (c *Client) State() SessionState {
	return c.state
}

// Close releases the browser resources. Safe to call from any exit path;
// the release happens exactly once.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		if c.page != nil {
			c.page.Close()
		}
		if c.context != nil {
			c.context.Close()
		}
		if c.browser != nil {
			c.browser.Close()
		}
		if c.pw != nil {
			c.pw.Stop()
		}
	})
	return nil
}

func (c *Client) count(selector string) int {
	n, err := c.page.Locator(selector).Count()
	if err != nil {
		return 0
	}
	return n
}

// Login performs the Halbooking modal login. When no login trigger is
// visible it falls back to the logout indicator ("already logged in");
// absence of both is the sole fatal condition in this layer and wraps
// ErrNavigationContract.
func (c *Client) Login() error {
	if c.username == "" || c.password == "" {
		return nil
	}

	clicked := false
	for _, selector := range c.sel.LoginTriggers {
		if c.count(selector) == 0 {
			continue
		}
		if err := c.page.Locator(selector).First().Click(); err != nil {
			log.Printf("login trigger %q click failed: %v", selector, err)
			continue
		}
		clicked = true
		break
	}

	if !clicked {
		if c.count(c.sel.LogoutIndicator) > 0 {
			log.Println("no login link found but logout link detected, already logged in")
			c.state = StateAuthenticated
			return nil
		}
		c.state = StateUnknown
		return fmt.Errorf("page structure mismatch on %s: %w", c.page.URL(), ErrNavigationContract)
	}

	c.state = StateAuthInFlight

	usernameField := c.page.Locator(c.sel.LoginUsername).First()
	if err := usernameField.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(5000),
	}); err != nil {
		log.Printf("⚠️ login modal did not appear in time (selector %q)", c.sel.LoginUsername)
		c.state = StateUnknown
		return nil
	}

	if err := usernameField.Fill(c.username); err != nil {
		log.Printf("⚠️ failed to fill username: %v", err)
	}
	if err := c.page.Locator(c.sel.LoginPassword).First().Fill(c.password); err != nil {
		log.Printf("⚠️ failed to fill password: %v", err)
	}

	if c.count(c.sel.LoginSubmit) > 0 {
		if err := c.page.Locator(c.sel.LoginSubmit).First().Click(); err != nil {
			log.Printf("⚠️ login submit click failed: %v", err)
		}
	} else {
		log.Printf("⚠️ could not find login submit element with selector %q", c.sel.LoginSubmit)
	}

	// Some sites never reach network idle; a timeout here is tolerated.
	if err := c.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: playwright.Float(10000),
	}); err != nil {
		log.Printf("network idle timeout after login submit (tolerated)")
	}

	// Dismiss the modal if it stayed open.
	if err := c.page.Keyboard().Press("Escape"); err == nil {
		time.Sleep(500 * time.Millisecond)
	}
	time.Sleep(1 * time.Second)

	if c.confirmLogin() {
		c.state = StateAuthenticated
		log.Println("✅ login confirmed")
		if err := c.SaveSession(); err != nil {
			log.Printf("⚠️ session save failed: %v", err)
		}
	} else {
		// Headless and headful rendering differ; a false "login failed"
		// would stop monitoring unnecessarily, so proceed anyway. A true
		// failure surfaces later as "no bookable elements found".
		c.state = StateUnknown
		log.Println("⚠️ could not confirm login success, proceeding anyway")
	}
	return nil
}

// confirmLogin applies the confirmation heuristics in priority order:
// logout indicator, hidden/absent username field, alternate indicators.
func (c *Client) confirmLogin() bool {
	if c.count(c.sel.LogoutIndicator) > 0 {
		return true
	}

	if c.count(c.sel.LoginUsername) == 0 {
		return true
	}
	visible, err := c.page.Locator(c.sel.LoginUsername).First().IsVisible()
	if err == nil && !visible {
		// Give the page a moment and recheck the logout link; assume
		// logged in either way since the form is gone.
		time.Sleep(1 * time.Second)
		if c.count(c.sel.LogoutIndicator) > 0 {
			log.Println("logout link found on recheck")
		}
		return true
	}

	for _, selector := range c.sel.LoggedInFallbacks {
		if c.count(selector) > 0 {
			log.Printf("detected logged-in indicator: %s", selector)
			return true
		}
	}
	return false
}

// OpenAvailability navigates to the availability view, logging in on the
// way if needed. When a logged-out landing banner is present it navigates
// directly; otherwise it invokes the booking menu action the site binds
// to a click. A fatal login error propagates; everything else degrades.
func (c *Client) OpenAvailability() error {
	if _, err := c.page.Goto(c.baseURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(15000),
	}); err != nil {
		return fmt.Errorf("failed to open %s: %w", c.baseURL, err)
	}

	if err := c.Login(); err != nil {
		return err
	}

	bannerURL := c.baseURL + c.sel.BannerPath
	if c.count(c.sel.BookBanner) > 0 {
		// Logged-out landing page: the banner page carries the slots.
		if _, err := c.page.Goto(bannerURL, playwright.PageGotoOptions{
			Timeout: playwright.Float(10000),
		}); err != nil {
			log.Printf("⚠️ direct navigation to booking page failed (%v), continuing to search for slots", err)
		}
		time.Sleep(1500 * time.Millisecond)
	} else if !c.invokeBookingMenu() {
		log.Println("no booking menu item found, trying direct navigation")
		if _, err := c.page.Goto(bannerURL, playwright.PageGotoOptions{
			Timeout: playwright.Float(10000),
		}); err != nil {
			log.Printf("⚠️ direct navigation failed: %v", err)
		}
		time.Sleep(1500 * time.Millisecond)
	}

	// Wait briefly for slot elements; their absence is not fatal, the
	// poll just comes back empty and the next cycle retries.
	if err := c.page.Locator(c.sel.AvailableSlot).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(2500),
	}); err != nil {
		log.Printf("⚠️ no slot elements appeared within 2.5s (selector %q)", c.sel.AvailableSlot)
		c.inspectPage("after waiting for slots (none found)")
	}
	return nil
}

// invokeBookingMenu hovers the dropdown menu and executes the booking
// menu item's own onclick handler, which loads the availability page
// with all slots ready.
func (c *Client) invokeBookingMenu() bool {
	if c.count(c.sel.MenuToggle) > 0 {
		if err := c.page.Locator(c.sel.MenuToggle).First().Hover(); err != nil {
			log.Printf("⚠️ failed to hover menu toggle: %v", err)
		}
		time.Sleep(500 * time.Millisecond)
	}

	items := c.page.Locator(c.sel.MenuItems)
	n, err := items.Count()
	if err != nil || n == 0 {
		return false
	}
	for i := 0; i < n; i++ {
		item := items.Nth(i)
		text, err := item.InnerText()
		if err != nil {
			continue
		}
		if !strings.Contains(strings.ToUpper(strings.TrimSpace(text)), c.sel.MenuItemText) {
			continue
		}
		onclick, _ := item.GetAttribute("onclick")
		if onclick == "" {
			log.Println("⚠️ booking menu item has no onclick attribute")
			return false
		}
		if _, err := c.page.Evaluate(onclick); err != nil {
			log.Printf("⚠️ failed to execute booking menu onclick: %v", err)
			return false
		}
		time.Sleep(2 * time.Second)
		return true
	}
	return false
}

// AvailableSlotElements collects the raw attributes of every candidate
// slot element currently on the page. Per-element errors skip that
// element only.
func (c *Client) AvailableSlotElements() ([]SlotElement, error) {
	slots := c.page.Locator(c.sel.AvailableSlot)
	n, err := slots.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count slot elements: %w", err)
	}
	log.Printf("🔍 found %d candidate slot elements", n)

	elements := make([]SlotElement, 0, n)
	for i := 0; i < n; i++ {
		el := slots.Nth(i)
		onclick, err := el.GetAttribute("onclick")
		if err != nil {
			log.Printf("error reading slot element %d: %v", i, err)
			continue
		}
		title, _ := el.GetAttribute("title")
		text, _ := el.InnerText()
		elements = append(elements, SlotElement{
			OnClick: onclick,
			Title:   title,
			Text:    strings.TrimSpace(text),
		})
	}
	return elements, nil
}
