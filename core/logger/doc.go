// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments
// (development vs production). As a CLI tool, the janitor defaults to the
// console encoder; json is available for running under a scheduler.
//
// # Run Correlation
//
// Each reconciliation run is identified by a run id. The WithRun helper
// attaches it to the logger so every deletion line can be traced back to the
// run that produced it.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Format: json (production) or console (development)
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info", Format: "console"})
//	log.Info("reconciliation started")
package logger
