// Package main is the entry point for the catalog curator server.
//
// The server loads package index files from a catalog directory, curates
// them into the available, installed and upgradable views, and serves the
// views over a JSON API and a WebSocket event stream.
//
// Configuration:
//   - Environment variables (12-factor)
//   - CLI flags (override env vars)
//
// Usage:
//
//	./server -port 8000 -catalog /srv/repo -history-days 14 -locale en
//
//	# Development mode (colored logs, debug level)
//	./server -dev
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
