// Package report records test steps, parameters and attachments. The Recorder writes an
// allure-compatible results directory; WriteJUnit renders a summary for CI.
package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Status of a test case or step
type Status string

// Statuses
const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusBroken  Status = "broken"
	StatusSkipped Status = "skipped"
)

// MIME types used for attachments
const (
	MimePNG  = "image/png"
	MimeText = "text/plain"
	MimeJSON = "application/json"
)

// Reporter receives descriptive step markers, parameters and attachments for one test
type Reporter interface {
	// Step runs fn as a named step and returns its error
	Step(name string, fn func() error) error
	Parameter(name, value string)
	Attach(name, mimeType string, body []byte) error
}

// Nop is a Reporter that only runs steps
type Nop struct{}

// Step implements Reporter
func (Nop) Step(name string, fn func() error) error { return fn() }

// Parameter implements Reporter
func (Nop) Parameter(name, value string) {}

// Attach implements Reporter
func (Nop) Attach(name, mimeType string, body []byte) error { return nil }

// CaseResult summarises a finished test case
type CaseResult struct {
	Name     string
	FullName string
	Status   Status
	Message  string
	Duration time.Duration
}

// Recorder writes results for every test case it starts into one directory
type Recorder struct {
	dir string
	now func() time.Time

	mu      sync.Mutex
	results []CaseResult
}

// NewRecorder creates dir if needed and returns a recorder writing into it
func NewRecorder(dir string) (*Recorder, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}
	return &Recorder{dir: dir, now: time.Now}, nil
}

// Dir returns the results directory
func (r *Recorder) Dir() string {
	return r.dir
}

// Results returns the summaries of every finished test case, in finish order
func (r *Recorder) Results() []CaseResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]CaseResult(nil), r.results...)
}

// Start opens a test case. fullName identifies the test across runs; title is the display name.
func (r *Recorder) Start(fullName, title, description string) *TestCase {
	id := uuid.New().String()
	return &TestCase{
		rec: r,
		result: result{
			UUID:        id,
			HistoryID:   uuid.NewSHA1(uuid.NameSpaceURL, []byte(fullName)).String(),
			Name:        title,
			FullName:    fullName,
			Description: description,
			Stage:       "running",
			Start:       millis(r.now()),
		},
	}
}

// TestCase is the Reporter for one running test
type TestCase struct {
	rec *Recorder

	mu       sync.Mutex
	result   result
	stack    []*step
	finished bool
}

// Step implements Reporter. Nested calls produce nested steps. A panic in fn marks the
// step broken and closes it before the panic continues.
func (tc *TestCase) Step(name string, fn func() error) (err error) {
	s := &step{Name: name, Stage: "running", Start: millis(tc.rec.now())}

	tc.mu.Lock()
	if parent := tc.current(); parent != nil {
		parent.Steps = append(parent.Steps, s)
	} else {
		tc.result.Steps = append(tc.result.Steps, s)
	}
	tc.stack = append(tc.stack, s)
	tc.mu.Unlock()

	completed := false
	defer func() {
		tc.mu.Lock()
		defer tc.mu.Unlock()
		tc.pop(s)
		s.Stop = millis(tc.rec.now())
		s.Stage = "finished"
		switch {
		case !completed:
			s.Status = StatusBroken
			s.StatusDetails = &statusDetails{Message: "step panicked"}
		case err != nil:
			s.Status = StatusFailed
			s.StatusDetails = &statusDetails{Message: err.Error()}
		default:
			s.Status = StatusPassed
		}
	}()

	err = fn()
	completed = true
	return err
}

// pop removes s and any steps opened inside it from the running stack
func (tc *TestCase) pop(s *step) {
	for i := len(tc.stack) - 1; i >= 0; i-- {
		if tc.stack[i] == s {
			tc.stack = tc.stack[:i]
			return
		}
	}
}

// Parameter implements Reporter; a repeated name overwrites the earlier value
func (tc *TestCase) Parameter(name, value string) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	for i := range tc.result.Parameters {
		if tc.result.Parameters[i].Name == name {
			tc.result.Parameters[i].Value = value
			return
		}
	}
	tc.result.Parameters = append(tc.result.Parameters, parameter{Name: name, Value: value})
}

// Label adds a result label such as "suite" or "tag"
func (tc *TestCase) Label(name, value string) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.result.Labels = append(tc.result.Labels, label{Name: name, Value: value})
}

// Attach implements Reporter. The body is written next to the results and linked
// from the innermost running step, or from the test itself.
func (tc *TestCase) Attach(name, mimeType string, body []byte) error {
	source := uuid.New().String() + "-attachment." + extension(mimeType)
	if err := os.WriteFile(filepath.Join(tc.rec.dir, source), body, 0o644); err != nil {
		return fmt.Errorf("failed to write attachment %s: %w", name, err)
	}

	a := attachment{Name: name, Source: source, Type: mimeType}
	tc.mu.Lock()
	defer tc.mu.Unlock()
	if s := tc.current(); s != nil {
		s.Attachments = append(s.Attachments, a)
	} else {
		tc.result.Attachments = append(tc.result.Attachments, a)
	}
	return nil
}

// Attachments returns the names of the attachments linked directly to the test
func (tc *TestCase) Attachments() []string {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	names := make([]string, 0, len(tc.result.Attachments))
	for _, a := range tc.result.Attachments {
		names = append(names, a.Name)
	}
	return names
}

// Finish records the outcome and writes the result file. It may be called once.
func (tc *TestCase) Finish(status Status, cause error) error {
	tc.mu.Lock()
	if tc.finished {
		tc.mu.Unlock()
		return errors.New("test case already finished")
	}
	tc.finished = true
	tc.result.Status = status
	tc.result.Stage = "finished"
	tc.result.Stop = millis(tc.rec.now())
	if cause != nil {
		tc.result.StatusDetails = &statusDetails{Message: cause.Error()}
	}
	data, err := json.MarshalIndent(tc.result, "", "  ")
	summary := CaseResult{
		Name:     tc.result.Name,
		FullName: tc.result.FullName,
		Status:   status,
		Duration: time.Duration(tc.result.Stop-tc.result.Start) * time.Millisecond,
	}
	if cause != nil {
		summary.Message = cause.Error()
	}
	path := filepath.Join(tc.rec.dir, tc.result.UUID+"-result.json")
	tc.mu.Unlock()

	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}

	tc.rec.mu.Lock()
	tc.rec.results = append(tc.rec.results, summary)
	tc.rec.mu.Unlock()
	return nil
}

func (tc *TestCase) current() *step {
	if len(tc.stack) == 0 {
		return nil
	}
	return tc.stack[len(tc.stack)-1]
}

func extension(mimeType string) string {
	switch mimeType {
	case MimePNG:
		return "png"
	case MimeText:
		return "txt"
	case MimeJSON:
		return "json"
	default:
		return "attach"
	}
}

func millis(t time.Time) int64 {
	return t.UnixMilli()
}

// allure result schema

type result struct {
	UUID          string         `json:"uuid"`
	HistoryID     string         `json:"historyId"`
	Name          string         `json:"name"`
	FullName      string         `json:"fullName"`
	Description   string         `json:"description,omitempty"`
	Status        Status         `json:"status,omitempty"`
	StatusDetails *statusDetails `json:"statusDetails,omitempty"`
	Stage         string         `json:"stage"`
	Start         int64          `json:"start"`
	Stop          int64          `json:"stop,omitempty"`
	Steps         []*step        `json:"steps,omitempty"`
	Attachments   []attachment   `json:"attachments,omitempty"`
	Parameters    []parameter    `json:"parameters,omitempty"`
	Labels        []label        `json:"labels,omitempty"`
}

type step struct {
	Name          string         `json:"name"`
	Status        Status         `json:"status,omitempty"`
	StatusDetails *statusDetails `json:"statusDetails,omitempty"`
	Stage         string         `json:"stage"`
	Start         int64          `json:"start"`
	Stop          int64          `json:"stop,omitempty"`
	Steps         []*step        `json:"steps,omitempty"`
	Attachments   []attachment   `json:"attachments,omitempty"`
}

type statusDetails struct {
	Message string `json:"message,omitempty"`
	Trace   string `json:"trace,omitempty"`
}

type attachment struct {
	Name   string `json:"name"`
	Source string `json:"source"`
	Type   string `json:"type"`
}

type parameter struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type label struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}
