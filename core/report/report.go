package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"pos2cmine/core/reconcile"
	"pos2cmine/core/storage"

	"github.com/minio/minio-go/v7"
)

// Config holds configuration for the run report.
type Config struct {
	// Prefix is the object key prefix reports are stored under.
	Prefix string `mapstructure:"prefix" default:"runs"`
}

// Run is the report of one invocation.
type Run struct {
	ID         string             `json:"run_id"`
	StartedAt  time.Time          `json:"started_at"`
	FinishedAt time.Time          `json:"finished_at"`
	Summary    *reconcile.Summary `json:"summary"`
	// Error is the failure that ended the run, if any.
	Error string `json:"error,omitempty"`
}

// Publisher uploads run reports to object storage.
type Publisher struct {
	client storage.Client
	bucket string
	region string
	prefix string
}

// NewPublisher creates a publisher writing to bucket.
func NewPublisher(client storage.Client, bucket, region string, cfg Config) *Publisher {
	return &Publisher{client: client, bucket: bucket, region: region, prefix: cfg.Prefix}
}

// ObjectName returns the key for run: <prefix>/YYYY/MM/<run id>.json, by start time in UTC.
func (p *Publisher) ObjectName(run Run) string {
	started := run.StartedAt.UTC()
	return path.Join(p.prefix, started.Format("2006"), started.Format("01"), run.ID+".json")
}

// Publish uploads run as indented JSON and returns the object key.
func (p *Publisher) Publish(ctx context.Context, run Run) (string, error) {
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}

	if err := storage.EnsureBucket(ctx, p.client, p.bucket, p.region); err != nil {
		return "", err
	}

	name := p.ObjectName(run)
	_, err = p.client.PutObject(ctx, p.bucket, name, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload report %s: %w", name, err)
	}
	return name, nil
}
