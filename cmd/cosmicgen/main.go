package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/thomaskoefod/cosmicgen/internal/config"
	"github.com/thomaskoefod/cosmicgen/internal/ephemeris"
	"github.com/thomaskoefod/cosmicgen/internal/logging"
	"github.com/thomaskoefod/cosmicgen/internal/tui"
	"github.com/thomaskoefod/cosmicgen/internal/workbook"
)

// options are the global flags.
type options struct {
	configPath string
	workbook   string
	verbose    bool
}

// app carries the services built once per invocation.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	loader *workbook.Loader

	tables   *workbook.Tables
	resolver *ephemeris.Resolver
	db       *ephemeris.DB
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	a := &app{}

	root := &cobra.Command{
		Use:   "cosmicgen",
		Short: "cosmicgen - astrology and numerology lookups from a rules workbook",
		Long: `cosmicgen reads a rules workbook (.xlsx) and answers questions about a sign:
its correspondences, a life audit against its avoid lists, activity timing by
weekday and universal day number, and house zone placement.

Run without arguments to start the interactive interface.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(opts, !cmd.HasParent())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI()
		},
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", config.DefaultConfigPath(), "Config file")
	root.PersistentFlags().StringVarP(&opts.workbook, "workbook", "w", "", "Rules workbook (overrides config)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging")

	root.AddCommand(newSignCmd(a))
	root.AddCommand(newAuditCmd(a))
	root.AddCommand(newTimingCmd(a))
	root.AddCommand(newZoneCmd(a))
	root.AddCommand(newItemsCmd(a))
	root.AddCommand(newEphemerisCmd(a))
	root.AddCommand(newConfigCmd(a, opts))
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads config and builds the logger. The TUI always logs to a file
// so log lines never land on the alternate screen.
func (a *app) setup(opts *options, interactive bool) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.workbook != "" {
		cfg.Workbook.Path = opts.workbook
	}
	if opts.verbose {
		cfg.Log.Level = "debug"
	}

	logFile := cfg.Log.File
	if interactive && logFile == "" {
		logFile = config.DefaultLogPath()
	}
	logger, err := logging.New(cfg.Log.Level, logFile)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	a.cfg = cfg
	a.logger = logger
	a.loader = workbook.NewLoader(logger)
	return nil
}

func (a *app) close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// loadTables parses the configured workbook once.
func (a *app) loadTables() (*workbook.Tables, error) {
	if a.tables != nil {
		return a.tables, nil
	}
	t, err := a.loader.LoadFile(a.cfg.Workbook.Path)
	if err != nil {
		return nil, err
	}
	a.tables = t
	return t, nil
}

// openDB opens the local ephemeris table, creating it when create is set.
func (a *app) openDB(create bool) (*ephemeris.DB, error) {
	if a.db != nil {
		return a.db, nil
	}
	path := a.cfg.Ephemeris.Database
	if path == "" {
		return nil, ephemeris.ErrNoSource
	}
	if !create {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return nil, ephemeris.ErrNoSource
		}
	}
	db, err := ephemeris.OpenDB(path)
	if err != nil {
		return nil, err
	}
	a.db = db
	return db, nil
}

// positionResolver wires the configured precise sources in front of the estimator.
func (a *app) positionResolver() *ephemeris.Resolver {
	if a.resolver != nil {
		return a.resolver
	}

	timeout, err := a.cfg.Ephemeris.GetTimeout()
	if err != nil {
		timeout = 2 * time.Second
	}

	var sources []ephemeris.Source
	if db, err := a.openDB(false); err == nil {
		sources = append(sources, db)
	} else if !errors.Is(err, ephemeris.ErrNoSource) {
		a.logger.Warn("ephemeris database unavailable", zap.Error(err))
	}
	if a.cfg.Ephemeris.Endpoint != "" {
		sources = append(sources, ephemeris.NewHTTPSource(a.cfg.Ephemeris.Endpoint))
	}
	a.logger.Debug("ephemeris sources", zap.Int("count", len(sources)), zap.Duration("timeout", timeout))

	a.resolver = ephemeris.NewResolver(ephemeris.NewAdapter(timeout, a.logger, sources...), a.logger)
	return a.resolver
}

func (a *app) runTUI() error {
	tables, err := a.loadTables()
	source := a.cfg.Workbook.Path
	if err != nil {
		a.logger.Warn("starting without a workbook", zap.String("path", source), zap.Error(err))
		source = ""
	}

	m := tui.New(tui.Deps{
		Config:   a.cfg,
		Store:    workbook.NewStore(tables, source),
		Loader:   a.loader,
		Resolver: a.positionResolver(),
		Logger:   a.logger,
	})

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running interface: %w", err)
	}
	return nil
}

// commandContext returns the command context, or Background outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
