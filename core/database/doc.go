// Package database keeps an optional MySQL journal of sync runs.
//
// It provides a wrapper around GORM to configure MySQL connections from the
// application's configuration, and a single model, RunLog, written once per
// invocation with the counts of the reconcile Summary.
//
// # Usage
//
//	db, err := database.Connect(ctx, cfg.Database)
//	if err != nil {
//	    logger.Warn("Journal disabled", zap.Error(err))
//	}
//	_ = database.Migrate(db)
//	entry := database.NewRunLog(runID, started, time.Now(), summary, err)
//	_ = database.Record(ctx, db, &entry)
package database
