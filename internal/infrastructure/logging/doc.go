// Package logging provides structured logging using uber/zap.
//
// Two modes are supported:
//   - Production: JSON output for machine parsing
//   - Development: colored console output
//
// Subsystems take a named child logger, so every line carries a component:
//
//	logger := logging.NewDefault()
//	cur := curator.New(logger.Component("curator"))
//	logger.Info("Server starting", zap.String("port", "8000"))
package logging
