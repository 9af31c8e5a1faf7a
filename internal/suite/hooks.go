// Package suite runs test cases against one browser session: it prepares the media
// folder, accepts cookies once per session and captures a screenshot for every test
// that fails while running.
package suite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/themizzi/shopcheck/internal/browser"
	"github.com/themizzi/shopcheck/internal/report"
	"github.com/themizzi/shopcheck/internal/view"
)

// Phase is the part of a test an outcome belongs to
type Phase string

// Phases
const (
	PhaseSetup Phase = "setup"
	PhaseCall  Phase = "call"
)

// Outcome is what AfterTest needs to know about a finished test
type Outcome struct {
	NodeID string
	Phase  Phase
	Failed bool
}

// PrepareMediaDir creates the screenshot folder
func PrepareMediaDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create media folder %s: %w", dir, err)
	}
	return nil
}

// ScreenshotName builds the file name of a failure screenshot
func ScreenshotName(nodeID, browserName string, at time.Time) string {
	id := strings.ReplaceAll(nodeID, "::", "__")
	id = strings.ReplaceAll(id, "/", "_")
	return fmt.Sprintf("%s_%s_%s.png", id, browserName, at.Format("2006-01-02_15:04"))
}

// Hooks are the per-session and per-test lifecycle actions
type Hooks struct {
	session  *browser.Session
	mediaDir string
	logger   *zap.Logger
	now      func() time.Time

	cookiesOnce sync.Once
	cookiesErr  error
}

// NewHooks creates the hooks for session, writing screenshots to mediaDir
func NewHooks(session *browser.Session, mediaDir string, logger *zap.Logger) *Hooks {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hooks{
		session:  session,
		mediaDir: mediaDir,
		logger:   logger.Named("hooks"),
		now:      time.Now,
	}
}

// AcceptCookiesOnce visits the main page and accepts the consent banner. Only the
// first call does any work; later calls return its result.
func (h *Hooks) AcceptCookiesOnce(ctx context.Context, reporter report.Reporter) error {
	h.cookiesOnce.Do(func() {
		page := view.NewMainPage(h.session, reporter)
		if err := page.Visit(ctx, ""); err != nil {
			h.cookiesErr = err
			return
		}
		h.cookiesErr = page.AcceptCookies(ctx)
	})
	return h.cookiesErr
}

// AfterTest tags the report with the browser and, for a test that failed while running,
// saves a screenshot and attaches it. It returns the screenshot path, if any.
func (h *Hooks) AfterTest(ctx context.Context, reporter report.Reporter, outcome Outcome) (string, error) {
	reporter.Parameter("browser", h.session.DisplayBrowser())

	if !outcome.Failed {
		return "", nil
	}
	if outcome.Phase == PhaseSetup {
		h.logger.Warn("Test setup failed", zap.String("test", outcome.NodeID))
		return "", nil
	}

	png, err := h.session.Driver.CaptureScreenshot(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to capture failure screenshot: %w", err)
	}

	path := filepath.Join(h.mediaDir, ScreenshotName(outcome.NodeID, h.session.Browser, h.now()))
	if err := os.WriteFile(path, png, 0o644); err != nil {
		return "", fmt.Errorf("failed to save screenshot: %w", err)
	}
	h.logger.Info("Saved failure screenshot", zap.String("test", outcome.NodeID), zap.String("path", path))

	if err := reporter.Attach("Screenshot", report.MimePNG, png); err != nil {
		return path, err
	}
	return path, nil
}
