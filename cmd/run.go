package cmd

import (
	"context"
	"fmt"
	"time"

	"pos2cmine/core/cmine"
	"pos2cmine/core/config"
	"pos2cmine/core/httpx"
	"pos2cmine/core/logger"
	"pos2cmine/core/pos"
	"pos2cmine/core/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var _ reconcile.Target = (*cmine.Session)(nil)

// app bundles what every mode of the command needs.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	runID  string
	source *pos.Reader
	target *cmine.Client
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.LoadConfig(".", cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.Log.Level = logger.LevelFor(flags.verbosity, cfg.Log.Level)
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	runID := logger.NewRunID()
	l = logger.WithRunID(l, runID)

	httpClient := httpx.NewClient(cfg.HTTP)
	target := cmine.NewClient(cfg.Cmine, httpClient, l, flags.verbosity)
	target.SetDryRun(flags.dryRun)

	return &app{
		cfg:    cfg,
		logger: l,
		runID:  runID,
		source: pos.NewReader(cfg.Pos.URL, httpClient, l, flags.verbosity),
		target: target,
	}, nil
}

// login adapts cmine authentication to the reconcile engine.
func (a *app) login(ctx context.Context) (reconcile.Target, error) {
	session, err := a.target.Authenticate(ctx)
	if err != nil {
		return nil, err
	}
	return session, nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.logger.Sync()

	ctx := cmd.Context()

	if flags.test != "" {
		return a.probe(ctx, cmd.OutOrStdout(), flags.test, flags.format)
	}

	spec := &reconcile.Spec{
		Source:     a.source,
		Login:      a.login,
		OwnerEmail: a.cfg.Cmine.Owner,
		TRLPattern: a.cfg.Cmine.TRLPattern,
		Mapping:    a.cfg.Mapping,
	}
	opts := reconcile.Options{
		One:           flags.one,
		DryRun:        flags.dryRun,
		DeleteOrphans: flags.deleteOrphans,
	}
	engine := reconcile.NewEngine(spec, opts, a.logger)

	started := time.Now()
	var summary *reconcile.Summary
	if flags.purge {
		a.logger.Warn("Deleting all ventures of the owner", zap.String("owner", a.cfg.Cmine.Owner), zap.Bool("one", flags.one))
		summary, err = engine.Purge(ctx)
	} else {
		a.logger.Info("Starting sync", zap.String("pos", a.cfg.Pos.URL), zap.String("cmine", a.cfg.Cmine.URL))
		summary, err = engine.Sync(ctx)
	}

	printSummary(a.logger, summary)
	a.record(ctx, started, summary, err)

	if err != nil {
		return err
	}
	if flags.dryRun {
		a.logger.Info("Dry-run mode: No changes were made.")
	}
	return nil
}
