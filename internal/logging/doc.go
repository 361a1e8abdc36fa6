// Package logging provides structured logging for Android Lens.
//
// This package wraps a process-global zap logger with convenience functions
// for the events the dashboard cares about: device data fetches, served HTTP
// requests, WebSocket client connections and toasts.
//
// # Log Levels
//
//   - Debug: per-request HTTP lines, toasts, WebSocket frames
//   - Info: fetch results, client connections, server lifecycle
//   - Warn: failed HTTP requests, dropped events, config save failures
//   - Error: failed fetches, startup failures
//
// # Configuration
//
// Logging is silent unless a level is passed to Initialize or set through
// the ANDROIDLENS_LOG_LEVEL environment variable. The terminal dashboard
// relies on this to keep log lines out of its frame.
//
//	if err := logging.Initialize(logLevel); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// # Structured Logging
//
//	logging.Info("Dashboard listening",
//	    zap.String("addr", "127.0.0.1:8080"),
//	)
//
// Output goes to stderr in console format so that `androidlens show --format
// json` stays machine readable on stdout.
package logging
