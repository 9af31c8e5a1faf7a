// Package driver defines the automation-driver contract the page objects depend on.
// Concrete engines live in sub-packages and are picked by internal/browser.
package driver

import (
	"context"
	"errors"

	"github.com/themizzi/shopcheck/internal/locator"
)

// Driver errors
var (
	ErrElementNotFound = errors.New("element not found")
	ErrTimeout         = errors.New("timed out waiting for condition")
	ErrClosed          = errors.New("driver is closed")
)

// Element is a handle to one element on the current page
type Element interface {
	Click(ctx context.Context) error
	Type(ctx context.Context, text string) error
	Clear(ctx context.Context) error
	Text(ctx context.Context) (string, error)
	Visible(ctx context.Context) (bool, error)
	Enabled(ctx context.Context) (bool, error)
}

// Driver is a live browser page
type Driver interface {
	// Navigate loads url in the current page
	Navigate(ctx context.Context, url string) error
	// WaitForLoad blocks until the document reports that loading has finished
	WaitForLoad(ctx context.Context) error
	// FindElement returns the first match without waiting, or ErrElementNotFound
	FindElement(ctx context.Context, sel locator.Selector) (Element, error)
	// FindElements returns every match without waiting; the slice may be empty
	FindElements(ctx context.Context, sel locator.Selector) ([]Element, error)
	CurrentURL(ctx context.Context) (string, error)
	// CaptureScreenshot returns a PNG of the viewport
	CaptureScreenshot(ctx context.Context) ([]byte, error)
	Close() error
}

// NotFound wraps ErrElementNotFound with the selector that matched nothing
func NotFound(sel locator.Selector) error {
	return &notFoundError{sel: sel}
}

type notFoundError struct {
	sel locator.Selector
}

func (e *notFoundError) Error() string {
	return "element not found: " + e.sel.String()
}

func (e *notFoundError) Unwrap() error {
	return ErrElementNotFound
}
