package suite

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"go.uber.org/zap"

	"github.com/themizzi/shopcheck/internal/browser"
	"github.com/themizzi/shopcheck/internal/models"
	"github.com/themizzi/shopcheck/internal/report"
	"github.com/themizzi/shopcheck/internal/services"
)

// ErrAssertion is matched by failed expectations, as opposed to broken tests
var ErrAssertion = errors.New("assertion failed")

// ErrSkipped marks a test that chose not to run
var ErrSkipped = errors.New("skipped")

// Assertf returns an assertion failure
func Assertf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrAssertion, fmt.Sprintf(format, args...))
}

// Skip returns the error a case returns to be reported as skipped
func Skip(reason string) error {
	return fmt.Errorf("%w: %s", ErrSkipped, reason)
}

// Case is one runnable test
type Case struct {
	// NodeID identifies the case across runs, e.g. "product::filter_perfumes[row-2]"
	NodeID      string
	Title       string
	Description string
	Run         func(ctx context.Context, session *browser.Session, reporter report.Reporter) error
}

// Summary counts the outcomes of a run
type Summary struct {
	RunID    string
	Total    int
	Passed   int
	Failed   int
	Broken   int
	Skipped  int
	Duration time.Duration
}

// OK reports whether nothing failed or broke
func (s Summary) OK() bool {
	return s.Failed == 0 && s.Broken == 0
}

func (s Summary) String() string {
	return fmt.Sprintf("%d tests: %d passed, %d failed, %d broken, %d skipped in %s",
		s.Total, s.Passed, s.Failed, s.Broken, s.Skipped, s.Duration.Round(time.Millisecond))
}

// Runner runs cases one after another on a shared session
type Runner struct {
	Session  *browser.Session
	Hooks    *Hooks
	Recorder *report.Recorder
	// Results stores history when set
	Results services.ResultService
	RunID   string
	Suite   string
	// AcceptCookies runs the consent precondition before the first case
	AcceptCookies bool
	Logger        *zap.Logger
}

// Run executes cases in order. The returned error is only set for problems outside
// the cases themselves, such as a cancelled context.
func (r *Runner) Run(ctx context.Context, cases []Case) (Summary, error) {
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("runner")
	if r.RunID == "" {
		r.RunID = models.NewRun()
	}

	summary := Summary{RunID: r.RunID}
	start := time.Now()

	var setupErr error
	if r.AcceptCookies {
		setupErr = r.Hooks.AcceptCookiesOnce(ctx, report.Nop{})
		if setupErr != nil {
			logger.Error("Session setup failed", zap.Error(setupErr))
		}
	}

	for _, c := range cases {
		if err := ctx.Err(); err != nil {
			summary.Duration = time.Since(start)
			return summary, err
		}

		status := r.runCase(ctx, logger, c, setupErr)
		summary.Total++
		switch status {
		case report.StatusPassed:
			summary.Passed++
		case report.StatusFailed:
			summary.Failed++
		case report.StatusBroken:
			summary.Broken++
		case report.StatusSkipped:
			summary.Skipped++
		}
	}

	summary.Duration = time.Since(start)
	logger.Info("Run finished", zap.String("run_id", r.RunID), zap.Stringer("summary", summary))
	return summary, nil
}

func (r *Runner) runCase(ctx context.Context, logger *zap.Logger, c Case, setupErr error) report.Status {
	tc := r.Recorder.Start(c.NodeID, c.Title, c.Description)
	if r.Suite != "" {
		tc.Label("suite", r.Suite)
	}
	logger = logger.With(zap.String("test", c.NodeID))
	logger.Info("Running test")

	var history *models.Result
	if r.Results != nil {
		var err error
		if history, err = r.Results.StartResult(ctx, r.RunID, c.NodeID, r.Session.Browser); err != nil {
			logger.Warn("Could not record result", zap.Error(err))
		}
	}

	phase := PhaseCall
	err := setupErr
	if err != nil {
		phase = PhaseSetup
	} else {
		err = runProtected(ctx, c, r.Session, tc)
	}

	status := classify(err)
	outcome := Outcome{NodeID: c.NodeID, Phase: phase, Failed: status == report.StatusFailed || status == report.StatusBroken}
	screenshot, hookErr := r.Hooks.AfterTest(ctx, tc, outcome)
	if hookErr != nil {
		logger.Warn("After-test hook failed", zap.Error(hookErr))
	}

	if err := tc.Finish(status, err); err != nil {
		logger.Warn("Could not write report", zap.Error(err))
	}

	if history != nil {
		message := ""
		if err != nil {
			message = err.Error()
		}
		if err := r.Results.FinishResult(ctx, history, models.ResultStatus(status), message, screenshot); err != nil {
			logger.Warn("Could not record result", zap.Error(err))
		}
	}

	if err != nil {
		logger.Warn("Test did not pass", zap.String("status", string(status)), zap.Error(err))
	} else {
		logger.Info("Test passed")
	}
	return status
}

func runProtected(ctx context.Context, c Case, session *browser.Session, reporter report.Reporter) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = &PanicError{Value: p, Stack: debug.Stack()}
		}
	}()
	return c.Run(ctx, session, reporter)
}

// PanicError is a recovered panic from a case
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

func classify(err error) report.Status {
	switch {
	case err == nil:
		return report.StatusPassed
	case errors.Is(err, ErrSkipped):
		return report.StatusSkipped
	case errors.Is(err, ErrAssertion):
		return report.StatusFailed
	default:
		return report.StatusBroken
	}
}
