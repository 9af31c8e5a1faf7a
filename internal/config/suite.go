package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Browsers accepted by BROWSER / --browser
var Browsers = []string{"chrome", "firefox", "safari", "chrome-cdp"}

// SuiteConfig holds configuration for a test run
type SuiteConfig struct {
	BaseURL        string
	MediaDir       string
	ReportDir      string
	DataFile       string
	Browser        string
	Headless       bool
	FirefoxProfile string
	WaitTimeout    time.Duration
	PollInterval   time.Duration
	WindowWidth    int
	WindowHeight   int
}

// LoadSuiteConfig loads test run configuration from environment variables
func LoadSuiteConfig(getenv func(string) string) (*SuiteConfig, error) {
	config := &SuiteConfig{
		// An empty BASE_URL is allowed and means relative navigation
		BaseURL:        strings.TrimSuffix(getenv("BASE_URL"), "/"),
		MediaDir:       getenv("MEDIA_FOLDER"),
		ReportDir:      getenv("REPORT_DIR"),
		DataFile:       getenv("DATA_FILE"),
		Browser:        strings.ToLower(getenv("BROWSER")),
		FirefoxProfile: getenv("FIREFOX_PROFILE"),
		WaitTimeout:    20 * time.Second,
		PollInterval:   250 * time.Millisecond,
		WindowWidth:    1920,
		WindowHeight:   1080,
	}

	if config.MediaDir == "" {
		config.MediaDir = "media"
	}
	if config.ReportDir == "" {
		config.ReportDir = "allure-results"
	}
	if config.DataFile == "" {
		config.DataFile = "data/filter_data.xlsx"
	}
	if config.Browser == "" {
		config.Browser = "chrome"
	}
	if err := ValidateBrowser(config.Browser); err != nil {
		return nil, err
	}

	if v := getenv("HEADLESS"); v != "" {
		headless, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("HEADLESS must be a boolean, got %q", v)
		}
		config.Headless = headless
	}

	var err error
	if config.WaitTimeout, err = durationOr(getenv, "WAIT_TIMEOUT", config.WaitTimeout); err != nil {
		return nil, err
	}
	if config.PollInterval, err = durationOr(getenv, "POLL_INTERVAL", config.PollInterval); err != nil {
		return nil, err
	}

	if v := getenv("WINDOW_SIZE"); v != "" {
		w, h, err := parseWindowSize(v)
		if err != nil {
			return nil, err
		}
		config.WindowWidth, config.WindowHeight = w, h
	}

	return config, nil
}

// ValidateBrowser rejects browser names no engine can launch
func ValidateBrowser(name string) error {
	for _, b := range Browsers {
		if b == name {
			return nil
		}
	}
	return fmt.Errorf("invalid browser selected: %q (expected one of %s)", name, strings.Join(Browsers, ", "))
}

func durationOr(getenv func(string) string, key string, def time.Duration) (time.Duration, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", key, v)
	}
	return d, nil
}

func parseWindowSize(v string) (int, int, error) {
	parts := strings.SplitN(strings.ToLower(v), "x", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("WINDOW_SIZE must look like 1920x1080, got %q", v)
	}
	w, errW := strconv.Atoi(strings.TrimSpace(parts[0]))
	h, errH := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("WINDOW_SIZE must look like 1920x1080, got %q", v)
	}
	return w, h, nil
}
