// Package pwdriver implements the automation driver on top of Playwright.
package pwdriver

import (
	"context"
	"errors"
	"fmt"

	"github.com/playwright-community/playwright-go"

	"github.com/themizzi/shopcheck/internal/driver"
	"github.com/themizzi/shopcheck/internal/locator"
)

// Browser names understood by Launch
const (
	BrowserChrome  = "chrome"
	BrowserFirefox = "firefox"
	BrowserSafari  = "safari"
)

// Options configures the launched browser
type Options struct {
	Browser  string
	Headless bool
	// Profile is a user data directory, honoured for firefox so consent cookies persist
	Profile string
	Width   int
	Height  int
	// ActionTimeoutMs bounds single element actions such as Click
	ActionTimeoutMs float64
}

// Driver drives a single Playwright page
type Driver struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
}

// Launch starts Playwright and opens a page in the selected browser
func Launch(opts Options) (*Driver, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	d := &Driver{pw: pw}
	if err := d.open(opts); err != nil {
		_ = pw.Stop()
		return nil, err
	}

	if opts.ActionTimeoutMs > 0 {
		d.page.SetDefaultTimeout(opts.ActionTimeoutMs)
	}
	return d, nil
}

func (d *Driver) open(opts Options) error {
	viewport := &playwright.Size{Width: opts.Width, Height: opts.Height}
	if opts.Width == 0 || opts.Height == 0 {
		viewport = &playwright.Size{Width: 1920, Height: 1080}
	}

	var browserType playwright.BrowserType
	switch opts.Browser {
	case BrowserChrome, "":
		browserType = d.pw.Chromium
	case BrowserFirefox:
		browserType = d.pw.Firefox
	case BrowserSafari:
		browserType = d.pw.WebKit
	default:
		return fmt.Errorf("invalid browser selected: %q", opts.Browser)
	}

	if opts.Browser == BrowserFirefox && opts.Profile != "" {
		bctx, err := browserType.LaunchPersistentContext(opts.Profile, playwright.BrowserTypeLaunchPersistentContextOptions{
			Headless: playwright.Bool(opts.Headless),
			Viewport: viewport,
		})
		if err != nil {
			return fmt.Errorf("failed to launch %s with profile: %w", opts.Browser, err)
		}
		d.context = bctx
	} else {
		browser, err := browserType.Launch(playwright.BrowserTypeLaunchOptions{
			Headless: playwright.Bool(opts.Headless),
		})
		if err != nil {
			return fmt.Errorf("failed to launch %s: %w", opts.Browser, err)
		}
		d.browser = browser

		bctx, err := browser.NewContext(playwright.BrowserNewContextOptions{
			Viewport: viewport,
		})
		if err != nil {
			_ = browser.Close()
			return fmt.Errorf("failed to create browser context: %w", err)
		}
		d.context = bctx
	}

	page, err := d.context.NewPage()
	if err != nil {
		d.closeBrowser()
		return fmt.Errorf("failed to open page: %w", err)
	}
	d.page = page
	return nil
}

// NewFromPage wraps an already open page; Close then only closes that page
func NewFromPage(page playwright.Page) *Driver {
	return &Driver{page: page}
}

// Navigate implements driver.Driver
func (d *Driver) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := d.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	}); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, translate(err))
	}
	return nil
}

// WaitForLoad implements driver.Driver
func (d *Driver) WaitForLoad(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := d.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State: playwright.LoadStateLoad,
	}); err != nil {
		return fmt.Errorf("page did not finish loading: %w", translate(err))
	}
	return nil
}

// FindElement implements driver.Driver
func (d *Driver) FindElement(ctx context.Context, sel locator.Selector) (driver.Element, error) {
	loc := d.page.Locator(sel.String())
	count, err := loc.Count()
	if err != nil {
		return nil, translate(err)
	}
	if count == 0 {
		return nil, driver.NotFound(sel)
	}
	return &element{loc: loc.First()}, nil
}

// FindElements implements driver.Driver
func (d *Driver) FindElements(ctx context.Context, sel locator.Selector) ([]driver.Element, error) {
	loc := d.page.Locator(sel.String())
	count, err := loc.Count()
	if err != nil {
		return nil, translate(err)
	}
	elements := make([]driver.Element, 0, count)
	for i := 0; i < count; i++ {
		elements = append(elements, &element{loc: loc.Nth(i)})
	}
	return elements, nil
}

// CurrentURL implements driver.Driver
func (d *Driver) CurrentURL(ctx context.Context) (string, error) {
	return d.page.URL(), nil
}

// CaptureScreenshot implements driver.Driver
func (d *Driver) CaptureScreenshot(ctx context.Context) ([]byte, error) {
	png, err := d.page.Screenshot(playwright.PageScreenshotOptions{
		Type: playwright.ScreenshotTypePng,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to capture screenshot: %w", translate(err))
	}
	return png, nil
}

// Page exposes the underlying page for callers that need Playwright directly
func (d *Driver) Page() playwright.Page {
	return d.page
}

// Close releases the page, context, browser and Playwright in that order
func (d *Driver) Close() error {
	var errs []error
	if d.page != nil {
		if err := d.page.Close(); err != nil && !errors.Is(err, playwright.ErrTargetClosed) {
			errs = append(errs, err)
		}
	}
	errs = append(errs, d.closeBrowser()...)
	return errors.Join(errs...)
}

func (d *Driver) closeBrowser() []error {
	var errs []error
	if d.context != nil {
		if err := d.context.Close(); err != nil && !errors.Is(err, playwright.ErrTargetClosed) {
			errs = append(errs, err)
		}
		d.context = nil
	}
	if d.browser != nil {
		if err := d.browser.Close(); err != nil && !errors.Is(err, playwright.ErrTargetClosed) {
			errs = append(errs, err)
		}
		d.browser = nil
	}
	if d.pw != nil {
		if err := d.pw.Stop(); err != nil {
			errs = append(errs, err)
		}
		d.pw = nil
	}
	return errs
}

type element struct {
	loc playwright.Locator
}

func (e *element) Click(ctx context.Context) error {
	return translate(e.loc.Click())
}

func (e *element) Type(ctx context.Context, text string) error {
	return translate(e.loc.PressSequentially(text))
}

func (e *element) Clear(ctx context.Context) error {
	return translate(e.loc.Clear())
}

func (e *element) Text(ctx context.Context) (string, error) {
	text, err := e.loc.InnerText()
	return text, translate(err)
}

func (e *element) Visible(ctx context.Context) (bool, error) {
	visible, err := e.loc.IsVisible()
	return visible, translate(err)
}

func (e *element) Enabled(ctx context.Context) (bool, error) {
	enabled, err := e.loc.IsEnabled()
	return enabled, translate(err)
}

// translate maps Playwright's timeout onto driver.ErrTimeout
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, playwright.ErrTimeout) {
		return fmt.Errorf("%w: %v", driver.ErrTimeout, err)
	}
	return err
}
