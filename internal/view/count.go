package view

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrParse is matched by every ParseError
var ErrParse = errors.New("parse error")

// ParseError reports text that did not contain a product count
type ParseError struct {
	Text string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("no product count in %q", e.Text)
}

// Is makes errors.Is(err, ErrParse) true for ParseError values
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

var (
	countPattern = regexp.MustCompile(`\((\d[\d.,]*)\)`)
	// plain digits, or groups of three after a single kind of separator
	integerPattern = regexp.MustCompile(`^(?:\d+|\d{1,3}(?:\.\d{3})+|\d{1,3}(?:,\d{3})+)$`)
)

// ExtractCount returns the first parenthesised number in text, as written
func ExtractCount(text string) (string, error) {
	m := countPattern.FindStringSubmatch(text)
	if m == nil {
		return "", &ParseError{Text: text}
	}
	return m[1], nil
}

// ParseCount converts a count such as "1.234" or "1,234" to an integer.
// Anything but a non-negative whole number with well-formed grouping is a ParseError.
func ParseCount(raw string) (int, error) {
	trimmed := strings.TrimSpace(raw)
	if !integerPattern.MatchString(trimmed) {
		return 0, &ParseError{Text: raw}
	}
	n, err := strconv.Atoi(strings.NewReplacer(".", "", ",", "").Replace(trimmed))
	if err != nil {
		return 0, &ParseError{Text: raw}
	}
	return n, nil
}
