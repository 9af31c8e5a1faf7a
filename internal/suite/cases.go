package suite

import (
	"context"
	"fmt"

	"github.com/themizzi/shopcheck/internal/browser"
	"github.com/themizzi/shopcheck/internal/report"
	"github.com/themizzi/shopcheck/internal/scenario"
	"github.com/themizzi/shopcheck/internal/view"
)

// PerfumeSection is the header link of the perfume listing
const PerfumeSection = "PARFUM"

// VisitPerfumes opens the perfume section from the main page
func VisitPerfumes() Case {
	return Case{
		NodeID:      "product::visit_perfumes",
		Title:       "Visit Perfumes section",
		Description: "The user can visit the perfumes search page by opening the PARFUM section",
		Run: func(ctx context.Context, session *browser.Session, reporter report.Reporter) error {
			main := view.NewMainPage(session, reporter)
			products := view.NewProductPage(session, reporter)

			if err := main.Visit(ctx, ""); err != nil {
				return err
			}
			if err := main.OpenSection(ctx, PerfumeSection); err != nil {
				return err
			}
			return reporter.Step("Check the product page is open", func() error {
				if _, err := products.WaitFor(ctx, view.ProductLocators.SearchPage); err != nil {
					return err
				}
				ok, err := products.IsCurrentPage(ctx)
				if err != nil {
					return err
				}
				if !ok {
					current, _ := session.Driver.CurrentURL(ctx)
					return Assertf("expected to be on %s, got %s", products.PageURL(), current)
				}
				return nil
			})
		},
	}
}

// FilterPerfumes applies the filters of s and checks the product count
func FilterPerfumes(s scenario.FilterScenario) Case {
	return Case{
		NodeID:      fmt.Sprintf("product::filter_perfumes[%s]", s.ID),
		Title:       "Filter the available perfumes",
		Description: "The user can select different filters to narrow the showed products",
		Run: func(ctx context.Context, session *browser.Session, reporter report.Reporter) error {
			for _, f := range s.Filters {
				reporter.Parameter(f.Name, fmt.Sprint(f.Values))
			}
			reporter.Parameter("expected", fmt.Sprint(s.ExpectedCount))

			page := view.NewProductPage(session, reporter)
			if err := page.Visit(ctx, ""); err != nil {
				return err
			}
			for _, f := range s.Filters {
				if err := page.FilterFor(ctx, f.Name, f.Values); err != nil {
					return err
				}
			}
			count, err := page.Count(ctx)
			if err != nil {
				return err
			}
			return reporter.Step("Check filter is applied", func() error {
				if count != s.ExpectedCount {
					return Assertf("expected %d products, got %d", s.ExpectedCount, count)
				}
				return nil
			})
		},
	}
}

// FailExample always fails, to show the screenshot attached to a failed test
func FailExample() Case {
	return Case{
		NodeID:      "product::fail_example",
		Title:       "Failing test",
		Description: "Test that fails to show the screenshot in the report",
		Run: func(ctx context.Context, session *browser.Session, reporter report.Reporter) error {
			if err := view.NewMainPage(session, reporter).Visit(ctx, ""); err != nil {
				return err
			}
			return Assertf("Fail the test")
		},
	}
}

// ProductCases are the listing tests: the section visit, then one filter test per scenario
func ProductCases(scenarios []scenario.FilterScenario, withFailure bool) []Case {
	cases := []Case{VisitPerfumes()}
	for _, s := range scenarios {
		cases = append(cases, FilterPerfumes(s))
	}
	if withFailure {
		cases = append(cases, FailExample())
	}
	return cases
}
