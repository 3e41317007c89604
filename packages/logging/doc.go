// Package logging provides subsystem-tagged structured logging on top of
// log/slog.
//
// Call Init once at startup; until then log calls are dropped. Messages
// are printf-style and every record carries a "subsystem" attribute:
//
//	logging.Init(logging.LevelDebug, os.Stderr, logging.FormatText)
//	logging.Info("Runner", "running %d test cases", n)
//	logging.Error("History", err, "failed to record run %s", id)
package logging
