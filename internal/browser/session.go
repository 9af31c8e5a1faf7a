// Package browser opens the browser session shared by every test of a run.
package browser

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/themizzi/shopcheck/internal/config"
	"github.com/themizzi/shopcheck/internal/driver"
	"github.com/themizzi/shopcheck/internal/driver/cdpdriver"
	"github.com/themizzi/shopcheck/internal/driver/pwdriver"
)

// Default wait settings
const (
	DefaultTimeout      = 20 * time.Second
	DefaultPollInterval = 250 * time.Millisecond
)

// Session is a live browser plus the settings page objects need to drive it.
// Page objects borrow a Session and never close it.
type Session struct {
	Driver       driver.Driver
	BaseURL      string
	Timeout      time.Duration
	PollInterval time.Duration
	Browser      string
	Logger       *zap.Logger

	closeOnce sync.Once
	closeErr  error
}

// Launcher starts a driver for the given configuration
type Launcher func(ctx context.Context, cfg *config.SuiteConfig) (driver.Driver, error)

// Open launches the browser selected by cfg.Browser
func Open(ctx context.Context, cfg *config.SuiteConfig, logger *zap.Logger) (*Session, error) {
	return OpenWith(ctx, cfg, logger, Launch)
}

// OpenWith is Open with an explicit launcher
func OpenWith(ctx context.Context, cfg *config.SuiteConfig, logger *zap.Logger, launch Launcher) (*Session, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := config.ValidateBrowser(cfg.Browser); err != nil {
		return nil, err
	}

	logger.Info("Opening browser session",
		zap.String("browser", cfg.Browser),
		zap.Bool("headless", cfg.Headless),
		zap.String("base_url", cfg.BaseURL))

	d, err := launch(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s session: %w", cfg.Browser, err)
	}
	return NewSession(d, cfg, logger), nil
}

// NewSession wraps an already running driver
func NewSession(d driver.Driver, cfg *config.SuiteConfig, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Session{
		Driver:       d,
		BaseURL:      strings.TrimSuffix(cfg.BaseURL, "/"),
		Timeout:      cfg.WaitTimeout,
		PollInterval: cfg.PollInterval,
		Browser:      cfg.Browser,
		Logger:       logger,
	}
	if s.Timeout <= 0 {
		s.Timeout = DefaultTimeout
	}
	if s.PollInterval <= 0 {
		s.PollInterval = DefaultPollInterval
	}
	return s
}

// Launch starts the engine matching cfg.Browser
func Launch(ctx context.Context, cfg *config.SuiteConfig) (driver.Driver, error) {
	if cfg.Browser == cdpdriver.BrowserName {
		return cdpdriver.Launch(ctx, cdpdriver.Options{
			Headless: cfg.Headless,
			Width:    cfg.WindowWidth,
			Height:   cfg.WindowHeight,
		})
	}
	return pwdriver.Launch(pwdriver.Options{
		Browser:  cfg.Browser,
		Headless: cfg.Headless,
		Profile:  cfg.FirefoxProfile,
		Width:    cfg.WindowWidth,
		Height:   cfg.WindowHeight,
	})
}

// URL joins the base URL and path
func (s *Session) URL(path string) string {
	return s.BaseURL + path
}

// DisplayBrowser returns the browser name as shown in reports, e.g. "Chrome"
func (s *Session) DisplayBrowser() string {
	return Capitalize(s.Browser)
}

// Capitalize upper-cases the first letter of name
func Capitalize(name string) string {
	if name == "" {
		return ""
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// Close releases the browser. Later calls return the first result.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.Logger.Info("Closing browser session", zap.String("browser", s.Browser))
		if s.Driver != nil {
			s.closeErr = s.Driver.Close()
		}
	})
	return s.closeErr
}
