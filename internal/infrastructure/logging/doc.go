// Package logging provides structured logging for sqlitedb.
//
// This package wraps Go's standard log/slog package to provide
// consistent, structured logging for store operations.
//
// # Configuration
//
// Logging is configured via the LoggingConfig in the YAML configuration:
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// # Usage
//
//	logger := logging.New(cfg.Logging, "0.2.0")
//	logger.Info("store opened", "path", path)
//
// Row values are never logged; only operation, table and column names.
package logging
