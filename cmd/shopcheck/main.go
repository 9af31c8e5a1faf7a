package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	internalcli "github.com/themizzi/shopcheck/internal/cli"
	"github.com/themizzi/shopcheck/internal/config"
	"github.com/themizzi/shopcheck/internal/observability"
	"github.com/themizzi/shopcheck/internal/storefront"
)

var version = "0.1.0"

// flagEnv overlays command line flags on the environment, so every config loader
// keeps reading plain variable names
func flagEnv(c *cli.Context, flags map[string]string) func(string) string {
	return func(key string) string {
		name, ok := flags[key]
		if !ok || !c.IsSet(name) {
			return os.Getenv(key)
		}
		if name == "headless" {
			return strconv.FormatBool(c.Bool(name))
		}
		return c.String(name)
	}
}

func initLogger(getenv func(string) string) (*zap.Logger, error) {
	loggerConfig, err := config.LoadLoggerConfig(getenv)
	if err != nil {
		return nil, err
	}
	return observability.InitializeLogger(loggerConfig), nil
}

// RunCommand returns the run command
func RunCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run the product listing tests against a shop",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "browser", Usage: "chrome, firefox, safari or chrome-cdp"},
			&cli.BoolFlag{Name: "headless", Usage: "run the browser without a window"},
			&cli.StringFlag{Name: "base-url", Usage: "shop address, e.g. http://localhost:8080"},
			&cli.StringFlag{Name: "data", Usage: "scenario file (.xlsx, .csv or .yaml)"},
			&cli.StringFlag{Name: "report-dir", Usage: "folder for the allure results"},
			&cli.StringFlag{Name: "media-dir", Usage: "folder for failure screenshots"},
			&cli.BoolFlag{Name: "demo-failure", Usage: "add a test that always fails", EnvVars: []string{"SHOPCHECK_DEMO_FAILURE"}},
		},
		Action: func(c *cli.Context) error {
			getenv := flagEnv(c, map[string]string{
				"BROWSER":      "browser",
				"HEADLESS":     "headless",
				"BASE_URL":     "base-url",
				"DATA_FILE":    "data",
				"REPORT_DIR":   "report-dir",
				"MEDIA_FOLDER": "media-dir",
			})

			logger, err := initLogger(getenv)
			if err != nil {
				return err
			}
			defer observability.Sync()

			suiteConfig, err := config.LoadSuiteConfig(getenv)
			if err != nil {
				return err
			}
			deps := internalcli.RunDependencies{
				Suite:       suiteConfig,
				WithFailure: c.Bool("demo-failure"),
				Logger:      logger,
			}
			if config.PostgresConfigured(getenv) {
				if deps.Postgres, err = config.LoadPostgresConfig(getenv); err != nil {
					return fmt.Errorf("missing required database configuration: %w", err)
				}
			}

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			summary, err := internalcli.RunSuite(ctx, deps)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, summary)
			if !summary.OK() {
				return cli.Exit(fmt.Sprintf("run %s failed", summary.RunID), 1)
			}
			return nil
		},
	}
}

// ScenariosCommand returns the scenarios command
func ScenariosCommand() *cli.Command {
	return &cli.Command{
		Name:  "scenarios",
		Usage: "Print the scenarios read from a data file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "data", Usage: "scenario file (.xlsx, .csv or .yaml)"},
		},
		Action: func(c *cli.Context) error {
			suiteConfig, err := config.LoadSuiteConfig(flagEnv(c, map[string]string{"DATA_FILE": "data"}))
			if err != nil {
				return err
			}
			return internalcli.PrintScenarios(c.App.Writer, suiteConfig.DataFile)
		},
	}
}

// StorefrontCommand returns the storefront command
func StorefrontCommand() *cli.Command {
	return &cli.Command{
		Name:  "storefront",
		Usage: "Serve the local perfume shop the tests can run against",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "port", Usage: "port to listen on"},
			&cli.StringFlag{Name: "catalog", Usage: "catalog YAML file; the built-in catalog when empty", EnvVars: []string{"STOREFRONT_CATALOG"}},
		},
		Action: func(c *cli.Context) error {
			getenv := flagEnv(c, map[string]string{"PORT": "port"})
			logger, err := initLogger(getenv)
			if err != nil {
				return err
			}
			defer observability.Sync()

			serverConfig := config.LoadServerConfig(getenv)
			catalog, err := storefront.LoadCatalog(c.String("catalog"))
			if err != nil {
				return err
			}
			tmpl, err := storefront.LoadTemplates(serverConfig.TemplatePath)
			if err != nil {
				return fmt.Errorf("failed to load storefront templates: %w", err)
			}

			return internalcli.RunServe(internalcli.ServerDependencies{
				ServerConfig: serverConfig,
				Handler:      storefront.NewHandler(tmpl, catalog, logger),
				Logger:       logger,
			})
		},
	}
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	app := &cli.App{
		Name:    "shopcheck",
		Usage:   "Browser tests for the perfume product listing",
		Version: version,
		Commands: []*cli.Command{
			RunCommand(),
			ScenariosCommand(),
			StorefrontCommand(),
		},
	}

	if err := app.RunContext(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
