package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/themizzi/shopcheck/internal/browser"
	"github.com/themizzi/shopcheck/internal/config"
	"github.com/themizzi/shopcheck/internal/database"
	"github.com/themizzi/shopcheck/internal/report"
	"github.com/themizzi/shopcheck/internal/repository"
	"github.com/themizzi/shopcheck/internal/scenario"
	"github.com/themizzi/shopcheck/internal/services"
	"github.com/themizzi/shopcheck/internal/suite"
)

// JUnitFile is written to the report folder after every run
const JUnitFile = "junit.xml"

// RunDependencies holds everything a suite run needs
type RunDependencies struct {
	Suite *config.SuiteConfig
	// Postgres enables result history when set
	Postgres    *config.PostgresConfig
	WithFailure bool
	// Launch starts the browser; browser.Launch when nil
	Launch browser.Launcher
	Logger *zap.Logger
}

// RunSuite runs the listing cases once against a fresh browser session and writes the
// allure results and a JUnit summary to the report folder
func RunSuite(ctx context.Context, deps RunDependencies) (suite.Summary, error) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg := deps.Suite

	scenarios, err := scenario.Load(cfg.DataFile)
	if err != nil {
		return suite.Summary{}, err
	}
	logger.Info("Loaded scenarios", zap.String("file", cfg.DataFile), zap.Int("count", len(scenarios)))

	if err := suite.PrepareMediaDir(cfg.MediaDir); err != nil {
		return suite.Summary{}, err
	}
	recorder, err := report.NewRecorder(cfg.ReportDir)
	if err != nil {
		return suite.Summary{}, err
	}

	var results services.ResultService
	if deps.Postgres != nil {
		db, err := database.Open(deps.Postgres, logger)
		if err != nil {
			return suite.Summary{}, fmt.Errorf("failed to open result history: %w", err)
		}
		defer closeDB(db, logger)
		results = services.NewResultService(repository.NewResultRepository(db))
	}

	launch := deps.Launch
	if launch == nil {
		launch = browser.Launch
	}
	session, err := browser.OpenWith(ctx, cfg, logger, launch)
	if err != nil {
		return suite.Summary{}, err
	}
	defer func() {
		if err := session.Close(); err != nil {
			logger.Warn("Failed to close browser session", zap.Error(err))
		}
	}()

	runner := &suite.Runner{
		Session:       session,
		Hooks:         suite.NewHooks(session, cfg.MediaDir, logger),
		Recorder:      recorder,
		Results:       results,
		Suite:         "product",
		AcceptCookies: true,
		Logger:        logger,
	}
	summary, runErr := runner.Run(ctx, suite.ProductCases(scenarios, deps.WithFailure))

	if err := writeJUnit(filepath.Join(cfg.ReportDir, JUnitFile), session.DisplayBrowser(), recorder.Results()); err != nil {
		logger.Warn("Failed to write JUnit summary", zap.Error(err))
	}
	return summary, runErr
}

func writeJUnit(path, suiteName string, results []report.CaseResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.WriteJUnit(f, suiteName, results); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func closeDB(db *sql.DB, logger *zap.Logger) {
	if err := db.Close(); err != nil {
		logger.Warn("Failed to close database", zap.Error(err))
	}
}

// PrintScenarios loads the scenarios in path and writes one line per scenario to w
func PrintScenarios(w io.Writer, path string) error {
	scenarios, err := scenario.Load(path)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tROW\tFILTERS\tEXPECTED")
	for _, s := range scenarios {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%d\n", s.ID, s.Row, describeFilters(s), s.ExpectedCount)
	}
	return tw.Flush()
}

func describeFilters(s scenario.FilterScenario) string {
	if desc := s.DescribeFilters(); desc != "" {
		return desc
	}
	return "-"
}
