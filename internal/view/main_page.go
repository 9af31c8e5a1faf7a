package view

import (
	"context"
	"fmt"

	"github.com/themizzi/shopcheck/internal/browser"
	"github.com/themizzi/shopcheck/internal/report"
)

// MainPage is the shop landing page and its header navigation
type MainPage struct {
	*BaseView
}

// NewMainPage creates the landing page object
func NewMainPage(session *browser.Session, reporter report.Reporter) *MainPage {
	return &MainPage{BaseView: NewBaseView(session, "", reporter)}
}

// AcceptCookies dismisses the consent banner and waits until the page is usable again
func (p *MainPage) AcceptCookies(ctx context.Context) error {
	return p.reporter.Step("Accept the cookies", func() error {
		accept, err := p.WaitFor(ctx, MainLocators.AcceptCookies)
		if err != nil {
			return err
		}
		if err := accept.Click(ctx); err != nil {
			return fmt.Errorf("failed to accept cookies: %w", err)
		}
		// an empty name matches the first header link
		if _, err := p.WaitForClickable(ctx, MainLocators.Section.Named("")); err != nil {
			return err
		}
		return p.WaitNotPresent(ctx, MainLocators.AcceptCookies)
	})
}

// OpenSection clicks the header link whose text contains name
func (p *MainPage) OpenSection(ctx context.Context, name string) error {
	return p.reporter.Step(fmt.Sprintf("Opening the %s section", name), func() error {
		link, err := p.WaitFor(ctx, MainLocators.Section.Named(name))
		if err != nil {
			return err
		}
		if err := link.Click(ctx); err != nil {
			return fmt.Errorf("failed to open section %s: %w", name, err)
		}
		return nil
	})
}
