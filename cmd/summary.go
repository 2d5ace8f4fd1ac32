package cmd

import (
	"context"
	"time"

	"pos2cmine/core/database"
	"pos2cmine/core/reconcile"
	"pos2cmine/core/report"
	"pos2cmine/core/storage"

	"go.uber.org/zap"
)

// maxOrphansShown caps the orphan titles printed in the summary.
const maxOrphansShown = 10

// sinkTimeout bounds the report upload and the journal write.
const sinkTimeout = 30 * time.Second

// printSummary prints a formatted run summary using logger.
func printSummary(l *zap.Logger, s *reconcile.Summary) {
	if s == nil {
		return
	}

	l.Info("Run summary",
		zap.String("mode", s.Mode),
		zap.Bool("dry_run", s.DryRun),
		zap.Int("indexed", s.Indexed),
		zap.Int("duplicates_deleted", s.Duplicates),
		zap.Int("processed", s.Processed),
		zap.Int("created", s.Created),
		zap.Int("updated", s.Updated),
		zap.Int("skipped", s.Skipped),
		zap.Int("orphans", len(s.Orphans)),
		zap.Int("deleted", s.Deleted),
	)

	if len(s.Orphans) == 0 {
		return
	}
	shown := min(len(s.Orphans), maxOrphansShown)
	l.Info("Orphaned ventures", zap.Strings("titles", s.Orphans[:shown]))
	if len(s.Orphans) > shown {
		l.Info("Additional orphans not shown", zap.Int("count", len(s.Orphans)-shown))
	}
	if s.Mode == "sync" && s.Deleted == 0 {
		l.Info("Use --delete-orphans to remove them.")
	}
}

// record writes the optional run report and journal row. Failures are logged
// and never change the outcome of the run.
func (a *app) record(ctx context.Context, started time.Time, summary *reconcile.Summary, runErr error) {
	// The run context may already be cancelled by a signal.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sinkTimeout)
	defer cancel()
	finished := time.Now()

	if a.cfg.Storage.Enabled() {
		a.publishReport(ctx, report.Run{
			ID:         a.runID,
			StartedAt:  started,
			FinishedAt: finished,
			Summary:    summary,
			Error:      errorString(runErr),
		})
	}
	if a.cfg.Database.Enabled() {
		a.writeJournal(ctx, database.NewRunLog(a.runID, started, finished, summary, runErr))
	}
}

func (a *app) publishReport(ctx context.Context, run report.Run) {
	client, err := storage.NewClient(a.cfg.Storage)
	if err != nil {
		a.logger.Warn("Run report skipped", zap.Error(err))
		return
	}
	publisher := report.NewPublisher(client, a.cfg.Storage.Bucket, a.cfg.Storage.Region, a.cfg.Report)
	name, err := publisher.Publish(ctx, run)
	if err != nil {
		a.logger.Warn("Run report upload failed", zap.Error(err))
		return
	}
	a.logger.Info("Run report uploaded", zap.String("bucket", a.cfg.Storage.Bucket), zap.String("object", name))
}

func (a *app) writeJournal(ctx context.Context, entry database.RunLog) {
	db, err := database.Connect(ctx, a.cfg.Database)
	if err != nil {
		a.logger.Warn("Optional database connection failed", zap.Error(err))
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	if err := database.Migrate(db); err != nil {
		a.logger.Warn("Run journal skipped", zap.Error(err))
		return
	}
	if err := database.Record(ctx, db, &entry); err != nil {
		a.logger.Warn("Run journal write failed", zap.Error(err))
		return
	}
	a.logger.Debug("Run journal written", zap.Uint("id", entry.ID))
}

func errorString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
