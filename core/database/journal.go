package database

import (
	"context"
	"fmt"
	"time"

	"pos2cmine/core/reconcile"

	"gorm.io/gorm"
)

// RunLog is one journal row per invocation.
type RunLog struct {
	ID         uint   `gorm:"primaryKey"`
	RunID      string `gorm:"size:36;uniqueIndex"`
	Mode       string `gorm:"size:16"`
	DryRun     bool
	StartedAt  time.Time
	FinishedAt time.Time
	Indexed    int
	Duplicates int
	Processed  int
	Created    int
	Updated    int
	Skipped    int
	Orphans    int
	Deleted    int
	Error      string `gorm:"type:text"`
}

// TableName overrides the table name used by RunLog.
func (RunLog) TableName() string {
	return "sync_runs"
}

// NewRunLog flattens a run into a journal row. summary may be nil when the
// run failed before producing one.
func NewRunLog(runID string, started, finished time.Time, summary *reconcile.Summary, runErr error) RunLog {
	entry := RunLog{
		RunID:      runID,
		StartedAt:  started.UTC(),
		FinishedAt: finished.UTC(),
	}
	if summary != nil {
		entry.Mode = summary.Mode
		entry.DryRun = summary.DryRun
		entry.Indexed = summary.Indexed
		entry.Duplicates = summary.Duplicates
		entry.Processed = summary.Processed
		entry.Created = summary.Created
		entry.Updated = summary.Updated
		entry.Skipped = summary.Skipped
		entry.Orphans = len(summary.Orphans)
		entry.Deleted = summary.Deleted
	}
	if runErr != nil {
		entry.Error = runErr.Error()
	}
	return entry
}

// Migrate creates or updates the journal table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&RunLog{}); err != nil {
		return fmt.Errorf("failed to migrate journal: %w", err)
	}
	return nil
}

// Record inserts entry and fills in its ID.
func Record(ctx context.Context, db *gorm.DB, entry *RunLog) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}
	if err := db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to record run %s: %w", entry.RunID, err)
	}
	return nil
}
