// tetris2048 runs the Tetris 2048 settlement engine headless against YAML
// scenario files and keeps a SQLite journal of every settlement.
//
// Usage:
//
//	tetris2048 run <file>           - Run one scenario and print the final board
//	tetris2048 settle --piece ...   - Settle pieces given on the command line
//	tetris2048 list [dir]           - List scenarios in a directory
//	tetris2048 verify [dir]         - Run every scenario and report failures
//	tetris2048 journal [session]    - Show recent sessions or one session's settlements
//
// Global flags:
//
//	--config <path>     - Config file (default: search ~/.tetris2048, ./configs, embedded)
//	--db <path>         - Journal database path (overrides config)
//	--log-level <lvl>   - debug, info, warn, error (overrides config)
//	--no-journal        - Do not record sessions
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tetris2048/internal/config"
	"github.com/vovakirdan/tetris2048/internal/session"
	"github.com/vovakirdan/tetris2048/internal/storage"
	"github.com/vovakirdan/tetris2048/internal/telemetry"
)

var (
	// Global flags
	flagConfig    string
	flagDBPath    string
	flagLogLevel  string
	flagNoJournal bool
)

// app holds everything the subcommands share. Built in PersistentPreRunE.
var app struct {
	cfg      config.Config
	logger   *log.Logger
	store    *storage.Store // nil when journaling is off or unavailable
	shutdown func(context.Context) error
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	teardown()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tetris2048",
	Short: "Tetris 2048 settlement engine",
	Long: `tetris2048 runs the settlement pipeline of a falling-block game whose
blocks carry 2048 tiles: placement, chained vertical merging, pruning of
tiles with no path to the floor, and full-row clearing.

Available commands:
  run      - Run one scenario file
  settle   - Settle pieces given on the command line
  list     - List scenario files in a directory
  verify   - Run every scenario in a directory and check expectations
  journal  - Inspect the settlement journal

Examples:
  tetris2048 run scenarios/row-clear.yaml
  tetris2048 run scenarios/row-clear.yaml --phases
  tetris2048 settle --preset compact --piece 2/2 --at 0,0
  tetris2048 verify scenarios
  tetris2048 journal --limit 5`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to journal database (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&flagNoJournal, "no-journal", false, "Do not record sessions in the journal")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(settleCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(journalCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	app.logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "tetris2048",
	})

	// .env carries OTEL_EXPORTER_OTLP_* for local runs; missing is fine
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		app.logger.Warn(".env file not loaded", "error", err)
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	if flagDBPath != "" {
		cfg.Journal.Path = flagDBPath
	}
	if flagNoJournal {
		cfg.Journal.Enabled = false
	}
	app.cfg = cfg
	app.logger.SetLevel(cfg.LogLevel())

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.Setup(cmd.Context(), telemetry.Options{
			ServiceName: cfg.Telemetry.ServiceName,
			SampleRatio: cfg.Telemetry.SampleRatio,
			Board:       cfg.RuntimeConfig(),
		})
		if err != nil {
			app.logger.Warn("telemetry setup failed, continuing without tracing", "error", err)
		} else {
			app.shutdown = shutdown
		}
	}

	if cfg.Journal.Enabled {
		store, err := storage.Open(cfg.Journal.Path)
		if err != nil {
			app.logger.Warn("could not open journal database", "path", cfg.Journal.Path, "error", err)
		} else {
			app.store = store
		}
	}

	return nil
}

// teardown releases what setup opened. Safe to call when setup never ran.
func teardown() {
	if app.store != nil {
		if err := app.store.Close(); err != nil {
			app.logger.Warn("closing journal", "error", err)
		}
	}
	if app.shutdown != nil {
		if err := app.shutdown(context.Background()); err != nil {
			app.logger.Warn("shutting down telemetry", "error", err)
		}
	}
}

// sessionOptions returns the options every command builds sessions with.
func sessionOptions() []session.Option {
	tracer := telemetry.NoopTracer()
	if app.shutdown != nil {
		tracer = telemetry.Tracer("session")
	}
	opts := []session.Option{
		session.WithLogger(app.logger),
		session.WithTracer(tracer),
	}
	if app.store != nil {
		opts = append(opts, session.WithJournal(app.store))
	}
	return opts
}

// closeSession finishes s, logging journal failures without failing the command.
func closeSession(ctx context.Context, s *session.Session) {
	if err := s.Close(ctx); err != nil {
		logger().Warn("could not finish journal session", "session", s.ID(), "error", err)
	}
}

// logger returns the app logger, or the default logger before setup runs.
func logger() *log.Logger {
	if app.logger == nil {
		return log.Default()
	}
	return app.logger
}
