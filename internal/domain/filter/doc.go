// Package filter provides the device compatibility filter applied to the
// available view.
package filter
