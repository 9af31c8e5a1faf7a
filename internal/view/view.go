// Package view holds the page objects. BaseView owns every find and wait policy;
// MainPage and ProductPage build their flows from it.
package view

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/themizzi/shopcheck/internal/browser"
	"github.com/themizzi/shopcheck/internal/driver"
	"github.com/themizzi/shopcheck/internal/locator"
	"github.com/themizzi/shopcheck/internal/report"
)

// BaseView wraps a borrowed session with the primitives every page object needs
type BaseView struct {
	session  *browser.Session
	pageURL  string
	reporter report.Reporter
	logger   *zap.Logger
}

// NewBaseView creates a view for the page at session.BaseURL + path.
// A nil reporter records nothing.
func NewBaseView(session *browser.Session, path string, reporter report.Reporter) *BaseView {
	if reporter == nil {
		reporter = report.Nop{}
	}
	logger := session.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BaseView{
		session:  session,
		pageURL:  session.URL(path),
		reporter: reporter,
		logger:   logger.Named("view"),
	}
}

// PageURL returns the address of the page without extra path
func (v *BaseView) PageURL() string {
	return v.pageURL
}

// Reporter returns the reporter steps are recorded on
func (v *BaseView) Reporter() report.Reporter {
	return v.reporter
}

// Visit navigates to the page URL plus extraPath and waits for the document to load
func (v *BaseView) Visit(ctx context.Context, extraPath string) error {
	target := v.pageURL + extraPath
	return v.reporter.Step("Visiting "+target, func() error {
		v.logger.Debug("Visiting page", zap.String("url", target))
		if err := v.session.Driver.Navigate(ctx, target); err != nil {
			return err
		}
		return v.session.Driver.WaitForLoad(ctx)
	})
}

// Find returns the first match without waiting
func (v *BaseView) Find(ctx context.Context, target locator.Target) (driver.Element, error) {
	sel, err := target.Selector()
	if err != nil {
		return nil, err
	}
	return v.session.Driver.FindElement(ctx, sel)
}

// FindIfPresent is Find without the not-found error
func (v *BaseView) FindIfPresent(ctx context.Context, target locator.Target) (driver.Element, bool, error) {
	sel, err := target.Selector()
	if err != nil {
		return nil, false, err
	}
	elements, err := v.session.Driver.FindElements(ctx, sel)
	if err != nil {
		return nil, false, err
	}
	if len(elements) == 0 {
		return nil, false, nil
	}
	return elements[0], true, nil
}

// FindMultiple returns every match, possibly none
func (v *BaseView) FindMultiple(ctx context.Context, target locator.Target) ([]driver.Element, error) {
	sel, err := target.Selector()
	if err != nil {
		return nil, err
	}
	return v.session.Driver.FindElements(ctx, sel)
}

// WaitFor polls until target is present, up to the session timeout
func (v *BaseView) WaitFor(ctx context.Context, target locator.Target) (driver.Element, error) {
	return v.WaitForWithin(ctx, target, v.session.Timeout)
}

// WaitForWithin is WaitFor with an explicit timeout
func (v *BaseView) WaitForWithin(ctx context.Context, target locator.Target, timeout time.Duration) (driver.Element, error) {
	sel, err := target.Selector()
	if err != nil {
		return nil, err
	}
	el, err := driver.PollUntil(ctx, timeout, v.session.PollInterval, func(ctx context.Context) (driver.Element, bool, error) {
		el, err := v.session.Driver.FindElement(ctx, sel)
		if err != nil {
			return nil, false, err
		}
		return el, true, nil
	})
	if err != nil {
		return nil, fmt.Errorf("waiting for %s: %w", sel, err)
	}
	return el, nil
}

// WaitForClickable polls until target is present, visible and enabled
func (v *BaseView) WaitForClickable(ctx context.Context, target locator.Target) (driver.Element, error) {
	sel, err := target.Selector()
	if err != nil {
		return nil, err
	}
	el, err := driver.PollUntil(ctx, v.session.Timeout, v.session.PollInterval, func(ctx context.Context) (driver.Element, bool, error) {
		el, err := v.session.Driver.FindElement(ctx, sel)
		if err != nil {
			return nil, false, err
		}
		visible, err := el.Visible(ctx)
		if err != nil || !visible {
			return nil, false, err
		}
		enabled, err := el.Enabled(ctx)
		if err != nil || !enabled {
			return nil, false, err
		}
		return el, true, nil
	})
	if err != nil {
		return nil, fmt.Errorf("waiting for %s to be clickable: %w", sel, err)
	}
	return el, nil
}

// WaitNotPresent polls until no visible element matches target
func (v *BaseView) WaitNotPresent(ctx context.Context, target locator.Target) error {
	sel, err := target.Selector()
	if err != nil {
		return err
	}
	_, err = driver.PollUntil(ctx, v.session.Timeout, v.session.PollInterval, func(ctx context.Context) (struct{}, bool, error) {
		elements, err := v.session.Driver.FindElements(ctx, sel)
		if err != nil {
			return struct{}{}, false, err
		}
		for _, el := range elements {
			visible, err := el.Visible(ctx)
			if err != nil {
				return struct{}{}, false, err
			}
			if visible {
				return struct{}{}, false, nil
			}
		}
		return struct{}{}, true, nil
	})
	if err != nil {
		return fmt.Errorf("waiting for %s to disappear: %w", sel, err)
	}
	return nil
}

// IsCurrentPage reports whether the browser is on this page. Query and fragment are
// ignored and deeper paths count as the same page.
func (v *BaseView) IsCurrentPage(ctx context.Context) (bool, error) {
	current, err := v.session.Driver.CurrentURL(ctx)
	if err != nil {
		return false, err
	}
	ok := samePage(current, v.pageURL)
	if !ok {
		v.logger.Debug("Not on expected page", zap.String("current", current), zap.String("expected", v.pageURL))
	}
	return ok, nil
}

func samePage(current, expected string) bool {
	cur, err := url.Parse(current)
	if err != nil {
		return false
	}
	exp, err := url.Parse(expected)
	if err != nil {
		return false
	}
	// relative expectations only compare paths
	if exp.Host != "" && !strings.EqualFold(cur.Host, exp.Host) {
		return false
	}
	want := strings.TrimSuffix(exp.Path, "/")
	got := strings.TrimSuffix(cur.Path, "/")
	return got == want || strings.HasPrefix(got, want+"/")
}
