package scenario

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// Load reads the scenarios in path, choosing the reader by file extension
func Load(path string) ([]FilterScenario, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx", ".xlsm":
		return ReadXLSX(path)
	case ".csv", ".yaml", ".yml":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open scenario data: %w", err)
		}
		defer f.Close()
		if ext == ".csv" {
			return ReadCSV(f)
		}
		return ReadYAML(f)
	default:
		return nil, fmt.Errorf("unsupported scenario data format %q", ext)
	}
}

// ReadXLSX reads the active sheet of a workbook
func ReadXLSX(path string) ([]FilterScenario, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return FromTable(rows)
}

// ReadCSV reads a comma separated table; filter cells with several values must be quoted
func ReadCSV(r io.Reader) ([]FilterScenario, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	return FromTable(rows)
}

// yamlScenario is one document entry:
//
//	- filters:
//	    Brand: [Chanel, Dior]
//	  expected: 12
type yamlScenario struct {
	Filters  yamlFilters `yaml:"filters"`
	Expected *int        `yaml:"expected"`
}

// yamlFilters keeps the mapping order of the document
type yamlFilters []Filter

func (f *yamlFilters) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: filters must be a mapping", node.Line)
	}
	seen := make(map[string]bool)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		name := strings.TrimSpace(key.Value)
		if seen[name] {
			return fmt.Errorf("line %d: duplicate filter %q", key.Line, name)
		}
		seen[name] = true

		var values []string
		switch value.Kind {
		case yaml.ScalarNode:
			values = SplitValues(value.Value)
		case yaml.SequenceNode:
			var items []string
			if err := value.Decode(&items); err != nil {
				return err
			}
			for _, item := range items {
				values = append(values, SplitValues(item)...)
			}
		default:
			return fmt.Errorf("line %d: filter %q must be a string or a list", value.Line, name)
		}
		if len(values) > 0 {
			*f = append(*f, Filter{Name: name, Values: values})
		}
	}
	return nil
}

// ReadYAML reads a list of scenarios. Entry N gets the ID row-N.
func ReadYAML(r io.Reader) ([]FilterScenario, error) {
	var docs []yamlScenario
	if err := yaml.NewDecoder(r).Decode(&docs); err != nil && err != io.EOF {
		return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}

	scenarios := make([]FilterScenario, 0, len(docs))
	for i, d := range docs {
		row := i + 1
		if d.Expected == nil {
			return nil, &DataError{Row: row, Msg: "missing expected count"}
		}
		scenarios = append(scenarios, FilterScenario{
			ID:            fmt.Sprintf("row-%d", row),
			Row:           row,
			Filters:       d.Filters,
			ExpectedCount: *d.Expected,
		})
	}
	return scenarios, nil
}
