// Package scenario turns a filter table into the parametrised inputs of the listing tests.
//
// Row 1 holds the filter names. In every later row each non-empty cell except the last
// selects comma separated values of its column's filter; the last cell is the number of
// products expected once all filters are applied.
package scenario

import (
	"errors"
	"fmt"
	"strings"

	"github.com/themizzi/shopcheck/internal/view"
)

// ErrInvalidData is matched by every DataError
var ErrInvalidData = errors.New("invalid scenario data")

// DataError points at the cell that could not be used
type DataError struct {
	Row    int
	Column int
	Msg    string
}

func (e *DataError) Error() string {
	if e.Column > 0 {
		return fmt.Sprintf("row %d, column %d: %s", e.Row, e.Column, e.Msg)
	}
	return fmt.Sprintf("row %d: %s", e.Row, e.Msg)
}

// Is makes errors.Is(err, ErrInvalidData) true for DataError values
func (e *DataError) Is(target error) bool {
	return target == ErrInvalidData
}

// Filter is one filter with the values to select in it, in order
type Filter struct {
	Name   string
	Values []string
}

// FilterScenario is one listing test input
type FilterScenario struct {
	// ID is stable across runs and used as the test name
	ID            string
	Row           int
	Filters       []Filter
	ExpectedCount int
}

// Values returns the values for the named filter, or nil
func (s FilterScenario) Values(name string) []string {
	for _, f := range s.Filters {
		if f.Name == name {
			return f.Values
		}
	}
	return nil
}

// DescribeFilters renders the filters as "Brand=Chanel|Dior Gender=Women", or "" without filters
func (s FilterScenario) DescribeFilters() string {
	parts := make([]string, 0, len(s.Filters))
	for _, f := range s.Filters {
		parts = append(parts, f.Name+"="+strings.Join(f.Values, "|"))
	}
	return strings.Join(parts, " ")
}

func (s FilterScenario) String() string {
	if len(s.Filters) == 0 {
		return fmt.Sprintf("%s: no filters -> %d", s.ID, s.ExpectedCount)
	}
	return fmt.Sprintf("%s: %s -> %d", s.ID, s.DescribeFilters(), s.ExpectedCount)
}

// SplitValues splits a cell on commas, trimming whitespace and dropping empty pieces
func SplitValues(cell string) []string {
	var values []string
	for _, v := range strings.Split(cell, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}

// ParseHeader validates the header row and returns the trimmed names
func ParseHeader(cells []string) ([]string, error) {
	if len(cells) < 2 {
		return nil, &DataError{Row: 1, Msg: "header needs at least one filter column and the expected count column"}
	}
	headers := make([]string, len(cells))
	seen := make(map[string]int)
	for i, c := range cells {
		name := strings.TrimSpace(c)
		headers[i] = name
		if name == "" || i == len(cells)-1 {
			continue
		}
		if first, ok := seen[name]; ok {
			return nil, &DataError{Row: 1, Column: i + 1, Msg: fmt.Sprintf("duplicate filter %q (first in column %d)", name, first)}
		}
		seen[name] = i + 1
	}
	return headers, nil
}

// ParseRow builds the scenario for one table row. row is the 1-based row number.
// ok is false for a wholly empty row.
func ParseRow(headers []string, row int, cells []string) (s FilterScenario, ok bool, err error) {
	if isBlank(cells) {
		return FilterScenario{}, false, nil
	}
	if len(cells) > len(headers) {
		return FilterScenario{}, false, &DataError{Row: row, Msg: fmt.Sprintf("%d cells but only %d columns", len(cells), len(headers))}
	}
	padded := make([]string, len(headers))
	copy(padded, cells)

	s = FilterScenario{ID: fmt.Sprintf("row-%d", row), Row: row}
	last := len(headers) - 1
	for col := 0; col < last; col++ {
		values := SplitValues(padded[col])
		if len(values) == 0 {
			continue
		}
		if headers[col] == "" {
			return FilterScenario{}, false, &DataError{Row: row, Column: col + 1, Msg: "value in a column without filter name"}
		}
		s.Filters = append(s.Filters, Filter{Name: headers[col], Values: values})
	}

	expected := strings.TrimSpace(padded[last])
	if expected == "" {
		return FilterScenario{}, false, &DataError{Row: row, Column: last + 1, Msg: "missing expected count"}
	}
	count, err := view.ParseCount(strings.TrimSuffix(expected, ".0"))
	if err != nil {
		return FilterScenario{}, false, &DataError{Row: row, Column: last + 1, Msg: fmt.Sprintf("expected count %q is not an integer", expected)}
	}
	s.ExpectedCount = count
	return s, true, nil
}

// FromTable converts a whole table, header row included
func FromTable(rows [][]string) ([]FilterScenario, error) {
	if len(rows) == 0 {
		return nil, &DataError{Row: 1, Msg: "table is empty"}
	}
	headers, err := ParseHeader(rows[0])
	if err != nil {
		return nil, err
	}

	var scenarios []FilterScenario
	for i, cells := range rows[1:] {
		s, ok, err := ParseRow(headers, i+2, cells)
		if err != nil {
			return nil, err
		}
		if ok {
			scenarios = append(scenarios, s)
		}
	}
	return scenarios, nil
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
