// Package http exposes the curator over a gin JSON API.
package http
