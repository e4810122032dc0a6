// Package server wires the curator service together: catalog store and
// seeder, preferences, curator, host, HTTP API, event stream and metrics.
package server
