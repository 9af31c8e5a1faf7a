// Package drivertest provides a scripted in-memory driver for unit tests of page objects
// and lifecycle hooks.
package drivertest

import (
	"context"
	"sync"

	"github.com/themizzi/shopcheck/internal/driver"
	"github.com/themizzi/shopcheck/internal/locator"
)

// PNG is the screenshot payload returned by Fake
var PNG = []byte("\x89PNG\r\n\x1a\nfake")

// Element is a fake page element
type Element struct {
	TextValue string
	Hidden    bool
	Disabled  bool
	// OnClick runs after the click has been recorded
	OnClick func()
	// ClickErr is returned by Click when set
	ClickErr error

	mu     sync.Mutex
	clicks int
	typed  string
}

// Click implements driver.Element
func (e *Element) Click(ctx context.Context) error {
	e.mu.Lock()
	if e.ClickErr != nil {
		e.mu.Unlock()
		return e.ClickErr
	}
	e.clicks++
	onClick := e.OnClick
	e.mu.Unlock()
	if onClick != nil {
		onClick()
	}
	return nil
}

// Type implements driver.Element
func (e *Element) Type(ctx context.Context, text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.typed += text
	return nil
}

// Clear implements driver.Element
func (e *Element) Clear(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.typed = ""
	return nil
}

// Text implements driver.Element
func (e *Element) Text(ctx context.Context) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.TextValue, nil
}

// Visible implements driver.Element
func (e *Element) Visible(ctx context.Context) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.Hidden, nil
}

// Enabled implements driver.Element
func (e *Element) Enabled(ctx context.Context) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.Disabled, nil
}

// Clicks returns how often the element was clicked
func (e *Element) Clicks() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clicks
}

// Typed returns the text currently typed into the element
func (e *Element) Typed() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.typed
}

// SetHidden toggles visibility
func (e *Element) SetHidden(hidden bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Hidden = hidden
}

// Fake is an in-memory driver.Driver. Elements are registered per resolved selector.
type Fake struct {
	mu            sync.Mutex
	elements      map[string][]*Element
	url           string
	visited       []string
	screenshots   int
	ScreenshotErr error
	// OnNavigate runs after every navigation with the new URL
	OnNavigate func(url string)
	closed     bool
}

// New creates an empty fake page
func New() *Fake {
	return &Fake{elements: make(map[string][]*Element)}
}

// Set registers the elements matched by target, replacing previous ones
func (f *Fake) Set(target locator.Target, elements ...*Element) {
	key := mustKey(target)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.elements[key] = elements
}

// Remove drops every element matched by target
func (f *Fake) Remove(target locator.Target) {
	key := mustKey(target)
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.elements, key)
}

// Visited returns the navigated URLs in order
func (f *Fake) Visited() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.visited...)
}

// Screenshots returns how many screenshots were captured
func (f *Fake) Screenshots() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.screenshots
}

// Closed reports whether Close was called
func (f *Fake) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// SetURL changes the current URL without recording a navigation
func (f *Fake) SetURL(url string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.url = url
}

// Navigate implements driver.Driver
func (f *Fake) Navigate(ctx context.Context, url string) error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return driver.ErrClosed
	}
	f.url = url
	f.visited = append(f.visited, url)
	hook := f.OnNavigate
	f.mu.Unlock()
	if hook != nil {
		hook(url)
	}
	return nil
}

// WaitForLoad implements driver.Driver
func (f *Fake) WaitForLoad(ctx context.Context) error {
	return ctx.Err()
}

// FindElement implements driver.Driver
func (f *Fake) FindElement(ctx context.Context, sel locator.Selector) (driver.Element, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	matches := f.elements[sel.String()]
	if len(matches) == 0 {
		return nil, driver.NotFound(sel)
	}
	return matches[0], nil
}

// FindElements implements driver.Driver
func (f *Fake) FindElements(ctx context.Context, sel locator.Selector) ([]driver.Element, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	matches := f.elements[sel.String()]
	out := make([]driver.Element, 0, len(matches))
	for _, m := range matches {
		out = append(out, m)
	}
	return out, nil
}

// CurrentURL implements driver.Driver
func (f *Fake) CurrentURL(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.url, nil
}

// CaptureScreenshot implements driver.Driver
func (f *Fake) CaptureScreenshot(ctx context.Context) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ScreenshotErr != nil {
		return nil, f.ScreenshotErr
	}
	f.screenshots++
	return PNG, nil
}

// Close implements driver.Driver
func (f *Fake) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func mustKey(target locator.Target) string {
	sel, err := target.Selector()
	if err != nil {
		panic(err)
	}
	return sel.String()
}
