// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports a development setup
// (debug level, human readable) and a production setup (json).
//
// # Run correlation
//
// Every invocation gets a run id (a UUID). WithRunID attaches it to the logger
// so that log lines, the uploaded run report and the journal row of one run
// can be correlated.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error (any -v flag forces debug)
//   - Encoding: console (default for the CLI) or json
//
// # Usage
//
//	cfg.Log.Level = logger.LevelFor(verbosity, cfg.Log.Level)
//	log, _ := logger.New(&cfg.Log)
//	log = logger.WithRunID(log, logger.NewRunID())
//	log.Info("Sync started")
package logger
