package scenario

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var table = [][]string{
	{"Marke", "Für Wen", "Produktart", "Expected"},
	{"Chanel, Dior", "", "", "12"},
	{"", "Damen", "Eau de Parfum", "7"},
	{},
	{"Dior", "Herren", "", "1.234"},
}

var tableScenarios = []FilterScenario{
	{ID: "row-2", Row: 2, Filters: []Filter{{Name: "Marke", Values: []string{"Chanel", "Dior"}}}, ExpectedCount: 12},
	{ID: "row-3", Row: 3, Filters: []Filter{
		{Name: "Für Wen", Values: []string{"Damen"}},
		{Name: "Produktart", Values: []string{"Eau de Parfum"}},
	}, ExpectedCount: 7},
	{ID: "row-5", Row: 5, Filters: []Filter{
		{Name: "Marke", Values: []string{"Dior"}},
		{Name: "Für Wen", Values: []string{"Herren"}},
	}, ExpectedCount: 1234},
}

func TestFromTable(t *testing.T) {
	got, err := FromTable(table)
	require.NoError(t, err)

	if diff := cmp.Diff(tableScenarios, got); diff != "" {
		t.Errorf("scenarios mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRow(t *testing.T) {
	headers := []string{"Brand", "Gender", "Expected"}

	tests := []struct {
		name     string
		cells    []string
		expected FilterScenario
		ok       bool
		wantErr  string
	}{
		{
			name:     "non-empty columns only",
			cells:    []string{"Chanel,Dior", "", "12"},
			expected: FilterScenario{ID: "row-2", Row: 2, Filters: []Filter{{Name: "Brand", Values: []string{"Chanel", "Dior"}}}, ExpectedCount: 12},
			ok:       true,
		},
		{
			name:     "no filters",
			cells:    []string{"", "", "48"},
			expected: FilterScenario{ID: "row-2", Row: 2, ExpectedCount: 48},
			ok:       true,
		},
		{
			name:     "blank pieces dropped",
			cells:    []string{" , Dior ,", " ", "3"},
			expected: FilterScenario{ID: "row-2", Row: 2, Filters: []Filter{{Name: "Brand", Values: []string{"Dior"}}}, ExpectedCount: 3},
			ok:       true,
		},
		{
			name:  "wholly empty row",
			cells: []string{"", " ", ""},
		},
		{
			name:    "missing expected",
			cells:   []string{"Dior"},
			wantErr: "row 2, column 3: missing expected count",
		},
		{
			name:    "expected not an integer",
			cells:   []string{"Dior", "", "many"},
			wantErr: `expected count "many" is not an integer`,
		},
		{
			name:     "grouped thousands",
			cells:    []string{"", "", "1.234"},
			expected: FilterScenario{ID: "row-2", Row: 2, ExpectedCount: 1234},
			ok:       true,
		},
		{
			name:    "decimal count",
			cells:   []string{"Dior", "", "12.5"},
			wantErr: `expected count "12.5" is not an integer`,
		},
		{
			name:    "badly grouped count",
			cells:   []string{"Dior", "", "1,2,3"},
			wantErr: `expected count "1,2,3" is not an integer`,
		},
		{
			name:    "negative count",
			cells:   []string{"Dior", "", "-5"},
			wantErr: `expected count "-5" is not an integer`,
		},
		{
			name:    "too many cells",
			cells:   []string{"Dior", "", "1", "x"},
			wantErr: "4 cells but only 3 columns",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := ParseRow(headers, 2, tt.cells)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidData)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.ok, ok)
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("scenario mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseRow_FilterCountMatchesNonEmptyCells(t *testing.T) {
	headers := []string{"A", "B", "C", "D", "Expected"}
	rows := [][]string{
		{"x", "", "y", "", "1"},
		{"", "", "", "z", "2"},
		{"x,y", "a", "b", "c", "3"},
	}
	for i, cells := range rows {
		s, ok, err := ParseRow(headers, i+2, cells)
		require.NoError(t, err)
		require.True(t, ok)

		nonEmpty := 0
		for _, c := range cells[:len(cells)-1] {
			if strings.TrimSpace(c) != "" {
				nonEmpty++
			}
		}
		assert.Len(t, s.Filters, nonEmpty)
		assert.Equal(t, i+1, s.ExpectedCount)
		for _, f := range s.Filters {
			assert.NotEmpty(t, f.Values)
		}
	}
}

func TestParseHeader(t *testing.T) {
	_, err := ParseHeader([]string{"Brand", "Gender", "Brand", "Expected"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidData)
	assert.Contains(t, err.Error(), `duplicate filter "Brand" (first in column 1)`)

	_, err = ParseHeader([]string{"Expected"})
	assert.ErrorIs(t, err, ErrInvalidData)

	headers, err := ParseHeader([]string{" Brand ", "Expected"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Brand", "Expected"}, headers)
}

func TestParseRow_ValueWithoutHeader(t *testing.T) {
	_, _, err := ParseRow([]string{"Brand", "", "Expected"}, 4, []string{"", "Dior", "1"})
	require.Error(t, err)
	assert.Equal(t, "row 4, column 2: value in a column without filter name", err.Error())
}

func TestFilterScenario_Values(t *testing.T) {
	s := tableScenarios[1]
	assert.Equal(t, []string{"Damen"}, s.Values("Für Wen"))
	assert.Nil(t, s.Values("Marke"))
	assert.Equal(t, "row-3: Für Wen=Damen Produktart=Eau de Parfum -> 7", s.String())
	assert.Equal(t, "Für Wen=Damen Produktart=Eau de Parfum", s.DescribeFilters())
	assert.Empty(t, FilterScenario{ID: "row-9"}.DescribeFilters())
}

func writeWorkbook(t *testing.T, rows [][]string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &values))
	}

	path := filepath.Join(t.TempDir(), "filter_data.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestLoad_XLSX(t *testing.T) {
	path := writeWorkbook(t, table)

	got, err := Load(path)
	require.NoError(t, err)

	if diff := cmp.Diff(tableScenarios, got); diff != "" {
		t.Errorf("scenarios mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_XLSXNumericCount(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Marke", "Expected"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"Chanel", 5}))
	path := filepath.Join(t.TempDir(), "numeric.xlsx")
	require.NoError(t, f.SaveAs(path))

	got, err := Load(path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 5, got[0].ExpectedCount)
}

func TestLoad_CSV(t *testing.T) {
	data := "Marke,Für Wen,Produktart,Expected\n" +
		"\"Chanel, Dior\",,,12\n" +
		",Damen,Eau de Parfum,7\n" +
		"\n" +
		"Dior,Herren,,\"1.234\"\n"
	path := filepath.Join(t.TempDir(), "filter_data.csv")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	got, err := Load(path)
	require.NoError(t, err)

	// encoding/csv skips empty lines, so the last record is row 4
	want := append([]FilterScenario(nil), tableScenarios...)
	want[2].ID, want[2].Row = "row-4", 4
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("scenarios mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_YAML(t *testing.T) {
	data := `
- filters:
    Marke: [Chanel, Dior]
  expected: 12
- filters:
    Für Wen: Damen
    Produktart: "Eau de Parfum"
  expected: 7
- expected: 48
`
	path := filepath.Join(t.TempDir(), "filter_data.yaml")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	got, err := Load(path)
	require.NoError(t, err)

	want := []FilterScenario{
		{ID: "row-1", Row: 1, Filters: []Filter{{Name: "Marke", Values: []string{"Chanel", "Dior"}}}, ExpectedCount: 12},
		{ID: "row-2", Row: 2, Filters: []Filter{
			{Name: "Für Wen", Values: []string{"Damen"}},
			{Name: "Produktart", Values: []string{"Eau de Parfum"}},
		}, ExpectedCount: 7},
		{ID: "row-3", Row: 3, ExpectedCount: 48},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("scenarios mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_YAMLErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{name: "missing expected", data: "- filters: {Marke: Dior}\n", wantErr: "row 1: missing expected count"},
		{name: "duplicate filter", data: "- filters:\n    Marke: Dior\n    Marke: Chanel\n  expected: 1\n", wantErr: "Marke"},
		{name: "nested filter", data: "- filters:\n    Marke: {a: b}\n  expected: 1\n", wantErr: "must be a string or a list"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadYAML(strings.NewReader(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_Unsupported(t *testing.T) {
	_, err := Load("data/filter_data.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported scenario data format ".json"`)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
