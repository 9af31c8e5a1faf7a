package models

import (
	"errors"
	"testing"
	"time"
)

var testTime = time.Now().Add(-time.Second)

func TestNewResult(t *testing.T) {
	tests := []struct {
		name     string
		runID    string
		testName string
		browser  string
		wantErr  error
	}{
		{
			name:     "valid result",
			runID:    "run-1",
			testName: "TestFilterPerfumes/row-2",
			browser:  "chrome",
			wantErr:  nil,
		},
		{
			name:     "empty run id",
			runID:    "",
			testName: "TestFilterPerfumes/row-2",
			browser:  "chrome",
			wantErr:  ErrInvalidRunID,
		},
		{
			name:     "empty test name",
			runID:    "run-1",
			testName: "",
			browser:  "chrome",
			wantErr:  ErrInvalidName,
		},
		{
			name:     "empty browser",
			runID:    "run-1",
			testName: "TestVisitPerfumes",
			browser:  "",
			wantErr:  ErrInvalidBrowser,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NewResult(tt.runID, tt.testName, tt.browser)

			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Errorf("NewResult() error = %v, wantErr %v", err, tt.wantErr)
				}
				if result != nil {
					t.Error("Expected result to be nil when error occurs")
				}
				return
			}

			if err != nil {
				t.Errorf("NewResult() unexpected error = %v", err)
				return
			}

			if result.ID == "" {
				t.Error("Result ID should not be empty")
			}
			if result.Status != ResultStatusPending {
				t.Errorf("Expected status %s, got %s", ResultStatusPending, result.Status)
			}
			if result.StartedAt.IsZero() {
				t.Error("StartedAt should be set")
			}
			if result.IsFinished() {
				t.Error("New result should not be finished")
			}
			if result.Duration() != 0 {
				t.Errorf("Expected zero duration, got %s", result.Duration())
			}
		})
	}
}

func TestNewRun(t *testing.T) {
	a, b := NewRun(), NewRun()
	if a == "" || a == b {
		t.Errorf("Expected distinct run ids, got %q and %q", a, b)
	}
}

func TestResult_Pass(t *testing.T) {
	tests := []struct {
		name         string
		initialState ResultStatus
		wantErr      bool
	}{
		{name: "pass pending result", initialState: ResultStatusPending, wantErr: false},
		{name: "cannot pass failed result", initialState: ResultStatusFailed, wantErr: true},
		{name: "cannot pass broken result", initialState: ResultStatusBroken, wantErr: true},
		{name: "cannot pass skipped result", initialState: ResultStatusSkipped, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := &Result{ID: "test-id", Status: tt.initialState}

			err := result.Pass()

			if (err != nil) != tt.wantErr {
				t.Errorf("Pass() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidStatusTransition) {
				t.Errorf("Expected ErrInvalidStatusTransition, got %v", err)
			}
			if !tt.wantErr {
				if result.Status != ResultStatusPassed {
					t.Errorf("Expected status %s, got %s", ResultStatusPassed, result.Status)
				}
				if !result.IsSuccessful() {
					t.Error("Passed result should be successful")
				}
			}
		})
	}
}

func TestResult_Fail(t *testing.T) {
	tests := []struct {
		name         string
		initialState ResultStatus
		wantErr      bool
	}{
		{name: "fail pending result", initialState: ResultStatusPending, wantErr: false},
		{name: "can fail already failed result (idempotent)", initialState: ResultStatusFailed, wantErr: false},
		{name: "cannot fail passed result", initialState: ResultStatusPassed, wantErr: true},
		{name: "cannot fail skipped result", initialState: ResultStatusSkipped, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := &Result{ID: "test-id", Status: tt.initialState, StartedAt: testTime}

			err := result.Fail("expected 12 products, got 11", "media/shot.png")

			if (err != nil) != tt.wantErr {
				t.Errorf("Fail() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if !tt.wantErr {
				if result.Status != ResultStatusFailed {
					t.Errorf("Expected status %s, got %s", ResultStatusFailed, result.Status)
				}
				if result.Message != "expected 12 products, got 11" {
					t.Errorf("Unexpected message %q", result.Message)
				}
				if result.ScreenshotPath != "media/shot.png" {
					t.Errorf("Unexpected screenshot path %q", result.ScreenshotPath)
				}
				if result.Duration() <= 0 {
					t.Errorf("Expected positive duration, got %s", result.Duration())
				}
			}
		})
	}
}

func TestResult_Break(t *testing.T) {
	result := &Result{ID: "test-id", Status: ResultStatusFailed}
	if err := result.Break("panic: nil map"); err != nil {
		t.Fatalf("Break() unexpected error = %v", err)
	}
	if result.Status != ResultStatusBroken {
		t.Errorf("Expected status %s, got %s", ResultStatusBroken, result.Status)
	}
	if result.IsSuccessful() {
		t.Error("Broken result should not be successful")
	}

	passed := &Result{ID: "test-id", Status: ResultStatusPassed}
	if err := passed.Break("late"); !errors.Is(err, ErrInvalidStatusTransition) {
		t.Errorf("Expected ErrInvalidStatusTransition, got %v", err)
	}
}

func TestResult_Skip(t *testing.T) {
	result := &Result{ID: "test-id", Status: ResultStatusPending}
	if err := result.Skip("demo disabled"); err != nil {
		t.Fatalf("Skip() unexpected error = %v", err)
	}
	if !result.IsSuccessful() || !result.IsFinished() {
		t.Error("Skipped result should be finished and successful")
	}

	if err := result.Skip("again"); err == nil {
		t.Error("Expected error skipping a finished result")
	}
}
