package view

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/themizzi/shopcheck/internal/browser"
	"github.com/themizzi/shopcheck/internal/driver"
	"github.com/themizzi/shopcheck/internal/report"
)

// ProductPath is the perfume listing
const ProductPath = "/c/parfum/01"

// FilterGrace is how long FilterFor waits for a filter panel before clicking again
const FilterGrace = time.Second

// Product is one tile of the listing
type Product struct {
	Name  string
	Price string
}

// ProductPage is the product listing. Header navigation is reached through Nav.
type ProductPage struct {
	*BaseView
	nav   *MainPage
	grace time.Duration
}

// NewProductPage creates the listing page object
func NewProductPage(session *browser.Session, reporter report.Reporter) *ProductPage {
	return &ProductPage{
		BaseView: NewBaseView(session, ProductPath, reporter),
		nav:      NewMainPage(session, reporter),
		grace:    FilterGrace,
	}
}

// Nav returns the header navigation of the page
func (p *ProductPage) Nav() *MainPage {
	return p.nav
}

// Visit loads the listing and waits for the pagination control
func (p *ProductPage) Visit(ctx context.Context, extraPath string) error {
	if err := p.BaseView.Visit(ctx, extraPath); err != nil {
		return err
	}
	_, err := p.WaitFor(ctx, ProductLocators.SearchPage)
	return err
}

// FilterFor selects fields in the filter called name and confirms the selection.
// Fields are applied in order; each must show as selected before the next one.
func (p *ProductPage) FilterFor(ctx context.Context, name string, fields []string) error {
	return p.reporter.Step(fmt.Sprintf("Select %s in %s", strings.Join(fields, ", "), name), func() error {
		if err := p.reporter.Step("Selecting "+name, func() error {
			return p.openFilter(ctx, name)
		}); err != nil {
			return err
		}

		for _, field := range fields {
			if err := p.reporter.Step(fmt.Sprintf("Selecting %s field", field), func() error {
				return p.selectField(ctx, field)
			}); err != nil {
				return err
			}
		}

		return p.reporter.Step("Confirming the filter selection", func() error {
			confirm, err := p.WaitForClickable(ctx, ProductLocators.ConfirmSearch)
			if err != nil {
				return err
			}
			if err := confirm.Click(ctx); err != nil {
				return fmt.Errorf("failed to confirm filter %s: %w", name, err)
			}
			return p.WaitNotPresent(ctx, ProductLocators.FilterMenu)
		})
	})
}

func (p *ProductPage) openFilter(ctx context.Context, name string) error {
	if err := p.clickFilter(ctx, name); err != nil {
		return err
	}
	if _, err := p.WaitForWithin(ctx, ProductLocators.FilterMenu, p.grace); err != nil {
		if !errors.Is(err, driver.ErrTimeout) {
			return err
		}
		p.logger.Warn("Filter did not open, clicking again", zap.String("filter", name))
		if err := p.clickFilter(ctx, name); err != nil {
			return err
		}
	}
	_, err := p.WaitFor(ctx, ProductLocators.ConfirmSearch)
	return err
}

func (p *ProductPage) clickFilter(ctx context.Context, name string) error {
	filter, err := p.WaitForClickable(ctx, ProductLocators.Filter.Named(name))
	if err != nil {
		return err
	}
	if err := filter.Click(ctx); err != nil {
		return fmt.Errorf("failed to open filter %s: %w", name, err)
	}
	return nil
}

func (p *ProductPage) selectField(ctx context.Context, field string) error {
	_, hasSearch, err := p.FindIfPresent(ctx, ProductLocators.SearchField)
	if err != nil {
		return err
	}

	var search driver.Element
	if hasSearch {
		if search, err = p.WaitForClickable(ctx, ProductLocators.SearchField); err != nil {
			return err
		}
		if err := search.Type(ctx, field); err != nil {
			return fmt.Errorf("failed to search for %s: %w", field, err)
		}
	}

	option, err := p.WaitForClickable(ctx, ProductLocators.SelectSearchOption.Named(field))
	if err != nil {
		return err
	}
	if err := option.Click(ctx); err != nil {
		return fmt.Errorf("failed to select %s: %w", field, err)
	}
	if _, err := p.WaitFor(ctx, ProductLocators.SearchOptionSelected.Named(field)); err != nil {
		return err
	}

	if hasSearch {
		if err := search.Clear(ctx); err != nil {
			return fmt.Errorf("failed to clear search: %w", err)
		}
	}
	return nil
}

// ProductCount returns the number shown in the results headline, as written on the page
func (p *ProductPage) ProductCount(ctx context.Context) (string, error) {
	headline, err := p.Find(ctx, ProductLocators.TotalProducts)
	if err != nil {
		return "", err
	}
	text, err := headline.Text(ctx)
	if err != nil {
		return "", err
	}
	return ExtractCount(text)
}

// Count is ProductCount as an integer
func (p *ProductPage) Count(ctx context.Context) (int, error) {
	raw, err := p.ProductCount(ctx)
	if err != nil {
		return 0, err
	}
	return ParseCount(raw)
}

// Products returns the name and price of every product tile on the current page
func (p *ProductPage) Products(ctx context.Context) ([]Product, error) {
	names, err := p.FindMultiple(ctx, ProductLocators.ProductName)
	if err != nil {
		return nil, err
	}
	prices, err := p.FindMultiple(ctx, ProductLocators.ProductPrice)
	if err != nil {
		return nil, err
	}
	if len(prices) != len(names) {
		return nil, fmt.Errorf("found %d product names but %d prices", len(names), len(prices))
	}

	products := make([]Product, 0, len(names))
	for i := range names {
		name, err := names[i].Text(ctx)
		if err != nil {
			return nil, err
		}
		price, err := prices[i].Text(ctx)
		if err != nil {
			return nil, err
		}
		products = append(products, Product{Name: strings.TrimSpace(name), Price: strings.TrimSpace(price)})
	}
	return products, nil
}
