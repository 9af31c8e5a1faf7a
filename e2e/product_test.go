//go:build e2e

package e2e

import (
	"os"
	"testing"

	"github.com/themizzi/shopcheck/internal/suite"
)

// TestVisitPerfumes tests the perfume section navigation
// Feature: Product listing
//
//	As a customer
//	I want to open the perfume section from the header
//	So that I can browse the perfumes
func TestVisitPerfumes(t *testing.T) {
	// Scenario: Open the PARFUM section
	//   Given I am on the homepage
	//   When I click the "PARFUM" header link
	//   Then I should be on the perfume listing
	runCase(t, suite.VisitPerfumes())
}

// TestFilterPerfumes tests the listing filters, one subtest per data file row
func TestFilterPerfumes(t *testing.T) {
	// Scenario Outline: Narrow the listing
	//   Given I am on the perfume listing
	//   When I select <values> in each <filter>
	//   Then the headline should show <expected> products
	if len(scenarios) == 0 {
		t.Skip("no scenarios in the data file")
	}
	for _, s := range scenarios {
		t.Run(s.ID, func(t *testing.T) {
			runCase(t, suite.FilterPerfumes(s))
		})
	}
}

// TestFailExample always fails, to show the screenshot attached to the report.
// Set SHOPCHECK_DEMO_FAILURE=1 to run it.
func TestFailExample(t *testing.T) {
	if os.Getenv("SHOPCHECK_DEMO_FAILURE") != "1" {
		t.Skip("set SHOPCHECK_DEMO_FAILURE=1 to run the failing example")
	}
	runCase(t, suite.FailExample())
}
