package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Booking     BookingConfig     `yaml:"booking"`
	Preferences PreferencesConfig `yaml:"preferences"`
	Monitor     MonitorConfig     `yaml:"monitor"`
	Notify      NotifyConfig      `yaml:"notify"`
	API         APIConfig         `yaml:"api"`
	Selectors   SelectorConfig    `yaml:"selectors"`
}

// BookingConfig represents booking site connection settings
type BookingConfig struct {
	BaseURL  string `yaml:"base_url"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	// CoPlayer is the second participant the site requires before a
	// reservation can be finalized.
	CoPlayer string `yaml:"co_player"`
	// Courts maps the site's raw court numbers to display names,
	// e.g. "9" -> "Court11". An empty map disables structure validation
	// (bootstrap mode, used by -map-courts).
	Courts map[string]string `yaml:"courts"`
}

// PreferencesConfig represents which slots the user cares about
type PreferencesConfig struct {
	Courts []string `yaml:"courts"` // empty = all courts
	Times  []string `yaml:"times"`  // start times, e.g. "18:00"; empty = all times
}

// MonitorConfig represents monitoring behavior
type MonitorConfig struct {
	IntervalSeconds  int  `yaml:"interval_seconds"`
	AutoBook         bool `yaml:"auto_book"`
	HeartbeatEnabled bool `yaml:"heartbeat_enabled"`
	HeartbeatHour    int  `yaml:"heartbeat_hour"`
	Headless         bool `yaml:"headless"`
}

// NotifyConfig represents notification delivery settings
type NotifyConfig struct {
	// Service selects the push transport: "ntfy" or "pushbullet".
	Service       string      `yaml:"service"`
	NtfyTopic     string      `yaml:"ntfy_topic"`
	PushbulletKey string      `yaml:"pushbullet_key"`
	Email         EmailConfig `yaml:"email"`
}

// EmailConfig represents email notification settings
type EmailConfig struct {
	Enabled bool       `yaml:"enabled"`
	SMTP    SMTPConfig `yaml:"smtp"`
	From    string     `yaml:"from"`
	To      []string   `yaml:"to"`
}

// SMTPConfig represents SMTP server settings
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// APIConfig represents the dashboard API server settings
type APIConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Token   string `yaml:"token"`
}

// SelectorConfig enumerates every page locator the session layer uses.
// The defaults target Halbooking sites; any of them can be overridden
// in the config file when the site markup drifts.
type SelectorConfig struct {
	// LoginTriggers are tried in order, most specific first.
	LoginTriggers   []string `yaml:"login_triggers"`
	LoginUsername   string   `yaml:"login_username"`
	LoginPassword   string   `yaml:"login_password"`
	LoginSubmit     string   `yaml:"login_submit"`
	LogoutIndicator string   `yaml:"logout_indicator"`
	// LoggedInFallbacks confirm login when the logout indicator is absent.
	LoggedInFallbacks []string `yaml:"logged_in_fallbacks"`

	BookBanner    string `yaml:"book_banner"`
	BannerPath    string `yaml:"banner_path"`
	MenuToggle    string `yaml:"menu_toggle"`
	MenuItems     string `yaml:"menu_items"`
	MenuItemText  string `yaml:"menu_item_text"`
	AvailableSlot string `yaml:"available_slot"`

	CoPlayerRow     string   `yaml:"co_player_row"`
	CoPlayerChoose  string   `yaml:"co_player_choose"`
	CartButton      string   `yaml:"cart_button"`
	CartOnClick     string   `yaml:"cart_onclick"`
	TermsCheckbox   string   `yaml:"terms_checkbox"`
	ConfirmButton   string   `yaml:"confirm_button"`
	ConfirmOnClick  string   `yaml:"confirm_onclick"`
	ReceiptMarker   string   `yaml:"receipt_marker"`
	ReceiptKeywords []string `yaml:"receipt_keywords"`
}

func defaultSelectors() SelectorConfig {
	return SelectorConfig{
		LoginTriggers: []string{
			`a[data-toggle="modal"][data-target="#loginModal"]`,
			`a[data-toggle="modal"]`,
			`a:has-text('Login')`,
			`button:has-text('Login')`,
		},
		LoginUsername:   "input#loginname",
		LoginPassword:   "input#password",
		LoginSubmit:     "span#sub",
		LogoutIndicator: "span[onclick*='logud']",
		LoggedInFallbacks: []string{
			"a:has-text('Log out')",
			"a:has-text('Logout')",
			"a#logout",
			"button:has-text('Logout')",
		},
		BookBanner:    "div[title='Book baner']",
		BannerPath:    "/newlook/proc_baner.asp",
		MenuToggle:    "a.dropdown-toggle",
		MenuItems:     "li.nobr.menu_ny_li a.menu_ny",
		MenuItemText:  "BANEBOOKING",
		AvailableSlot: "span.banefelt.btn_ledig",

		CoPlayerRow:     "tr",
		CoPlayerChoose:  ".senmedbtn",
		CartButton:      ".btn:has-text('Læg i kurv')",
		CartOnClick:     "add_booking",
		TermsCheckbox:   "input#acc_beting",
		ConfirmButton:   ".btn:has-text('Bekræft booking')",
		ConfirmOnClick:  "checkud",
		ReceiptMarker:   ".strong:has-text('Booking')",
		ReceiptKeywords: []string{"Din kvittering", "Booking:"},
	}
}

// GetConfigPath finds the configuration file path
func GetConfigPath() string {
	// 1. configs/config.yaml next to the executable
	execPath, _ := os.Executable()
	configPath := filepath.Join(filepath.Dir(execPath), "configs", "config.yaml")
	if _, err := os.Stat(configPath); err == nil {
		return configPath
	}

	// 2. configs/config.yaml in the working directory
	configPath = filepath.Join("configs", "config.yaml")
	if _, err := os.Stat(configPath); err == nil {
		return configPath
	}

	// 3. ~/.tennis-monitor/config.yaml
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".tennis-monitor", "config.yaml")
}

// Load reads the configuration file, fills in defaults and applies
// environment overrides for secrets. A missing config file is not an
// error; everything can come from the environment.
func Load(path string) (*Config, error) {
	// .env in the working directory, if present
	_ = godotenv.Load()

	if path == "" {
		path = GetConfigPath()
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()
	cfg.normalize()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Monitor.IntervalSeconds <= 0 {
		c.Monitor.IntervalSeconds = 300
	}
	if c.Monitor.HeartbeatHour < 0 || c.Monitor.HeartbeatHour > 23 {
		c.Monitor.HeartbeatHour = 10
	}
	if c.API.Addr == "" {
		c.API.Addr = ":8000"
	}
	if c.Notify.Service == "" {
		c.Notify.Service = "ntfy"
	}

	def := defaultSelectors()
	s := &c.Selectors
	if len(s.LoginTriggers) == 0 {
		s.LoginTriggers = def.LoginTriggers
	}
	setDefault(&s.LoginUsername, def.LoginUsername)
	setDefault(&s.LoginPassword, def.LoginPassword)
	setDefault(&s.LoginSubmit, def.LoginSubmit)
	setDefault(&s.LogoutIndicator, def.LogoutIndicator)
	if len(s.LoggedInFallbacks) == 0 {
		s.LoggedInFallbacks = def.LoggedInFallbacks
	}
	setDefault(&s.BookBanner, def.BookBanner)
	setDefault(&s.BannerPath, def.BannerPath)
	setDefault(&s.MenuToggle, def.MenuToggle)
	setDefault(&s.MenuItems, def.MenuItems)
	setDefault(&s.MenuItemText, def.MenuItemText)
	setDefault(&s.AvailableSlot, def.AvailableSlot)
	setDefault(&s.CoPlayerRow, def.CoPlayerRow)
	setDefault(&s.CoPlayerChoose, def.CoPlayerChoose)
	setDefault(&s.CartButton, def.CartButton)
	setDefault(&s.CartOnClick, def.CartOnClick)
	setDefault(&s.TermsCheckbox, def.TermsCheckbox)
	setDefault(&s.ConfirmButton, def.ConfirmButton)
	setDefault(&s.ConfirmOnClick, def.ConfirmOnClick)
	setDefault(&s.ReceiptMarker, def.ReceiptMarker)
	if len(s.ReceiptKeywords) == 0 {
		s.ReceiptKeywords = def.ReceiptKeywords
	}
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

func (c *Config) applyEnv() {
	overrideEnv(&c.Booking.BaseURL, "BOOKING_SYSTEM_URL")
	overrideEnv(&c.Booking.Username, "BOOKING_USERNAME")
	overrideEnv(&c.Booking.Password, "BOOKING_PASSWORD")
	overrideEnv(&c.Booking.CoPlayer, "BOOKING_CO_PLAYER")
	overrideEnv(&c.Notify.NtfyTopic, "NTFY_TOPIC")
	overrideEnv(&c.Notify.PushbulletKey, "PUSHBULLET_API_KEY")
	overrideEnv(&c.API.Token, "API_TOKEN")

	// COURT_MAP uses the "9:Court11,10:Court12" pair syntax
	if raw := os.Getenv("COURT_MAP"); raw != "" {
		if c.Booking.Courts == nil {
			c.Booking.Courts = make(map[string]string)
		}
		for _, pair := range strings.Split(raw, ",") {
			k, v, ok := strings.Cut(strings.TrimSpace(pair), ":")
			if ok && strings.TrimSpace(k) != "" {
				c.Booking.Courts[strings.TrimSpace(k)] = strings.TrimSpace(v)
			}
		}
	}
}

func overrideEnv(field *string, key string) {
	if v := os.Getenv(key); v != "" {
		*field = v
	}
}

// normalize drops empty strings from preference lists so an empty or
// comma-only value means "match everything" rather than "match nothing".
func (c *Config) normalize() {
	c.Booking.BaseURL = strings.TrimRight(c.Booking.BaseURL, "/")
	c.Preferences.Courts = dropEmpty(c.Preferences.Courts)
	c.Preferences.Times = dropEmpty(c.Preferences.Times)
}

func dropEmpty(values []string) []string {
	out := values[:0]
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
