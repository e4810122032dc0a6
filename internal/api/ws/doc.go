// Package ws streams curation events to WebSocket clients.
package ws
