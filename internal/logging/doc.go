// Package logging provides structured logging with per-module log level configuration.
//
// The logging system uses Go's slog package with automatic output routing:
//   - Logs to systemd journal when available (Linux systems with journald)
//   - Logs to stdout when a terminal, pipe, or file is connected
//   - Logs to both when both are available
//
// Initialize the logging system once at startup:
//
//	logging.Initialize(logging.Config{
//		Level:  "info",      // Global log level: debug, info, warn, error
//		Format: "text",      // Output format: text or json
//		Modules: map[string]string{
//			"supervisor": "debug",  // Per-module overrides
//			"probe":      "warn",
//		},
//	})
//
// Get a logger for your module:
//
//	logger := logging.GetLogger("supervisor")
//	logger.Info("Starting up", "feeds", 4)
//
// Add contextual attributes:
//
//	logger := logging.GetLogger("supervisor").With("feed_id", id)
//	logger.Info("Relay started")  // Includes feed_id in all logs
//
// When running as a systemd service or on a system with journald:
//
//	journalctl -t camrelay              # All camrelay logs
//	journalctl -t camrelay -f           # Follow live
//	journalctl -t camrelay -p err       # Errors only
package logging
