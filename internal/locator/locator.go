package locator

import (
	"errors"
	"fmt"
	"regexp"
)

// Strategy identifies how a selector value is interpreted by the driver
type Strategy string

// Supported strategies
const (
	StrategyCSS   Strategy = "css"
	StrategyXPath Strategy = "xpath"
	StrategyID    Strategy = "id"
	StrategyText  Strategy = "text"
)

// ErrFormat is matched by every FormatError
var ErrFormat = errors.New("locator format error")

// FormatError reports a placeholder that had no substitution value
type FormatError struct {
	Template string
	Key      string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("locator template %q: missing value for {%s}", e.Template, e.Key)
}

// Is makes errors.Is(err, ErrFormat) true for FormatError values
func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

// Args are the named substitution values for a template
type Args map[string]string

// placeholder matches escaped braces or a {name} placeholder
var placeholder = regexp.MustCompile(`\{\{|\}\}|\{([A-Za-z_][A-Za-z0-9_]*)\}`)

var unresolved = regexp.MustCompile(`\{[A-Za-z_][A-Za-z0-9_]*\}`)

// Locator is an immutable (strategy, template) pair describing how to find an element
type Locator struct {
	strategy Strategy
	template string
}

// New creates a locator
func New(strategy Strategy, template string) Locator {
	return Locator{strategy: strategy, template: template}
}

// CSS creates a CSS selector locator
func CSS(template string) Locator { return New(StrategyCSS, template) }

// XPath creates an XPath locator
func XPath(template string) Locator { return New(StrategyXPath, template) }

// ID creates an element id locator
func ID(template string) Locator { return New(StrategyID, template) }

// Text creates a visible-text locator
func Text(template string) Locator { return New(StrategyText, template) }

// Strategy returns the locator strategy
func (l Locator) Strategy() Strategy { return l.strategy }

// Template returns the unresolved template
func (l Locator) Template() string { return l.template }

// Extend returns a new locator with suffix appended to the template
func (l Locator) Extend(suffix string) Locator {
	return Locator{strategy: l.strategy, template: l.template + suffix}
}

// Placeholders returns the placeholder names used by the template, in order of first use
func (l Locator) Placeholders() []string {
	var names []string
	seen := make(map[string]bool)
	for _, m := range placeholder.FindAllStringSubmatch(l.template, -1) {
		if m[1] == "" || seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		names = append(names, m[1])
	}
	return names
}

// Resolve substitutes the placeholders and returns the search key.
// Keys in args that the template does not use are ignored.
func (l Locator) Resolve(args Args) (Selector, error) {
	var missing string
	value := placeholder.ReplaceAllStringFunc(l.template, func(token string) string {
		switch token {
		case "{{":
			return "{"
		case "}}":
			return "}"
		}
		key := token[1 : len(token)-1]
		v, ok := args[key]
		if !ok {
			if missing == "" {
				missing = key
			}
			return token
		}
		return v
	})
	if missing != "" {
		return Selector{}, &FormatError{Template: l.template, Key: missing}
	}
	return Selector{Strategy: l.strategy, Value: value}, nil
}

// Selector resolves a locator that takes no arguments
func (l Locator) Selector() (Selector, error) {
	return l.Resolve(nil)
}

// With binds substitution values without resolving them yet
func (l Locator) With(args Args) Query {
	return Query{locator: l, args: args}
}

// Named is shorthand for With(Args{"name": name}), the placeholder every page table uses
func (l Locator) Named(name string) Query {
	return l.With(Args{"name": name})
}

func (l Locator) String() string {
	return string(l.strategy) + "=" + l.template
}

// Query is a locator bound to its substitution values
type Query struct {
	locator Locator
	args    Args
}

// Selector resolves the bound locator
func (q Query) Selector() (Selector, error) {
	return q.locator.Resolve(q.args)
}

func (q Query) String() string {
	sel, err := q.Selector()
	if err != nil {
		return q.locator.String()
	}
	return sel.String()
}

// Target is anything that resolves to a selector: a Locator or a Query
type Target interface {
	Selector() (Selector, error)
}

// Selector is a resolved search key
type Selector struct {
	Strategy Strategy
	Value    string
}

// String renders the selector in the prefixed engine syntax, e.g. "xpath=//div"
func (s Selector) String() string {
	return string(s.Strategy) + "=" + s.Value
}

// Unresolved reports whether the value still contains a {name} token
func (s Selector) Unresolved() bool {
	return unresolved.MatchString(s.Value)
}
