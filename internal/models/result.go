package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ResultStatus represents valid test result states
type ResultStatus string

// Result statuses
const (
	ResultStatusPending ResultStatus = "pending"
	ResultStatusPassed  ResultStatus = "passed"
	ResultStatusFailed  ResultStatus = "failed"
	ResultStatusBroken  ResultStatus = "broken"
	ResultStatusSkipped ResultStatus = "skipped"
)

// Result is the recorded outcome of one test case in one run
type Result struct {
	ID             string
	RunID          string
	Name           string
	Browser        string
	Status         ResultStatus
	Message        string
	ScreenshotPath string
	StartedAt      time.Time
	FinishedAt     time.Time
}

// Domain errors
var (
	ErrInvalidRunID            = errors.New("run id cannot be empty")
	ErrInvalidName             = errors.New("test name cannot be empty")
	ErrInvalidBrowser          = errors.New("browser cannot be empty")
	ErrInvalidStatusTransition = errors.New("invalid result status transition")
	ErrResultNotFound          = errors.New("result not found")
)

// NewRun returns a fresh run identifier
func NewRun() string {
	return uuid.New().String()
}

// NewResult creates a pending result with validation
func NewResult(runID, name, browser string) (*Result, error) {
	if err := validateResultInput(runID, name, browser); err != nil {
		return nil, err
	}

	return &Result{
		ID:        uuid.New().String(),
		RunID:     runID,
		Name:      name,
		Browser:   browser,
		Status:    ResultStatusPending,
		StartedAt: time.Now(),
	}, nil
}

func validateResultInput(runID, name, browser string) error {
	if runID == "" {
		return ErrInvalidRunID
	}
	if name == "" {
		return ErrInvalidName
	}
	if browser == "" {
		return ErrInvalidBrowser
	}
	return nil
}

// Pass marks a pending result as passed
func (r *Result) Pass() error {
	if r.Status != ResultStatusPending {
		return fmt.Errorf("%w: cannot pass result with status %s", ErrInvalidStatusTransition, r.Status)
	}
	r.finish(ResultStatusPassed, "")
	return nil
}

// Fail marks the result as failed. Failing a failed result replaces its message.
func (r *Result) Fail(message, screenshotPath string) error {
	if r.Status != ResultStatusPending && r.Status != ResultStatusFailed {
		return fmt.Errorf("%w: cannot fail result with status %s", ErrInvalidStatusTransition, r.Status)
	}
	r.finish(ResultStatusFailed, message)
	if screenshotPath != "" {
		r.ScreenshotPath = screenshotPath
	}
	return nil
}

// Break marks the result as broken, for errors outside the assertions of the test
func (r *Result) Break(message string) error {
	if r.Status != ResultStatusPending && r.Status != ResultStatusFailed {
		return fmt.Errorf("%w: cannot break result with status %s", ErrInvalidStatusTransition, r.Status)
	}
	r.finish(ResultStatusBroken, message)
	return nil
}

// Skip marks a pending result as skipped
func (r *Result) Skip(reason string) error {
	if r.Status != ResultStatusPending {
		return fmt.Errorf("%w: cannot skip result with status %s", ErrInvalidStatusTransition, r.Status)
	}
	r.finish(ResultStatusSkipped, reason)
	return nil
}

func (r *Result) finish(status ResultStatus, message string) {
	r.Status = status
	r.Message = message
	r.FinishedAt = time.Now()
}

// IsFinished returns true once the result left pending
func (r *Result) IsFinished() bool {
	return r.Status != ResultStatusPending
}

// IsSuccessful returns true for passed and skipped results
func (r *Result) IsSuccessful() bool {
	return r.Status == ResultStatusPassed || r.Status == ResultStatusSkipped
}

// Duration returns how long the test ran, or zero while pending
func (r *Result) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
