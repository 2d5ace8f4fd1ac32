// Package report publishes a JSON report of each run to S3/MinIO.
//
// A report carries the run id, start and end time, the reconcile Summary and
// the error that ended the run, if any. Reports are keyed by month so that a
// bucket listing stays navigable:
//
//	runs/2019/09/3f1c...-....json
package report
