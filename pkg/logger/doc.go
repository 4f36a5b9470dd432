// Package logger wraps zerolog behind a small structured-logging interface.
//
//	cfg := &config.LoggingConfig{Level: "debug", File: "/tmp/screenpapers.log"}
//	if err := logger.Initialize(cfg); err != nil {
//	    return err
//	}
//	logger.WithField("query", "mountains").Info("search submitted")
//
// When a log file is configured the console is left alone entirely, so the
// interactive browser can own the terminal. Tests use NewTestLogger to
// capture messages or NewNopLogger to discard them.
package logger
