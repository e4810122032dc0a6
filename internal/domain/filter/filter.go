package filter

import (
	"strings"

	"github.com/GriffinCanCode/appcurator/internal/domain/curator"
	"github.com/GriffinCanCode/appcurator/internal/shared/types"
)

// Device describes what the target device supports
type Device struct {
	SDKLevel int      `json:"sdk_level"`
	ABIs     []string `json:"abis"`
	Features []string `json:"features,omitempty"`
}

// Options control which rejections apply
type Options struct {
	ShowIncompatible   bool   `json:"show_incompatible"`
	IgnoreAntiFeatures bool   `json:"ignore_anti_features"`
	Query              string `json:"query,omitempty"`
}

// Compatibility rejects records the device cannot run, records carrying
// anti-features and records that miss the search query.
type Compatibility struct {
	device   Device
	opts     Options
	abis     map[string]struct{}
	features map[string]struct{}
	query    string
}

// New builds a compatibility filter for one pass
func New(device Device, opts Options) *Compatibility {
	return &Compatibility{
		device:   device,
		opts:     opts,
		abis:     set(device.ABIs),
		features: set(device.Features),
		query:    strings.ToLower(strings.TrimSpace(opts.Query)),
	}
}

// Reject implements curator.Filter
func (c *Compatibility) Reject(rec *types.Record) bool {
	if !c.opts.ShowIncompatible && !c.Compatible(rec) {
		return true
	}
	if !c.opts.IgnoreAntiFeatures && len(rec.AntiFeatures) > 0 {
		return true
	}
	return !c.Matches(rec)
}

// Compatible reports whether the device can install rec
func (c *Compatibility) Compatible(rec *types.Record) bool {
	if rec.MinSDK > 0 && c.device.SDKLevel > 0 && rec.MinSDK > c.device.SDKLevel {
		return false
	}
	if len(rec.NativeCode) > 0 && !intersects(rec.NativeCode, c.abis) {
		return false
	}
	for _, req := range rec.Requirements {
		if _, ok := c.features[req]; !ok {
			return false
		}
	}
	return true
}

// Matches reports whether rec matches the search query, case-insensitively,
// on id, name or summary. An empty query matches everything.
func (c *Compatibility) Matches(rec *types.Record) bool {
	if c.query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(rec.ID), c.query) ||
		strings.Contains(strings.ToLower(rec.Name), c.query) ||
		strings.Contains(strings.ToLower(rec.Summary), c.query)
}

// All rejects a record if any of filters does. Nil filters are skipped.
func All(filters ...curator.Filter) curator.Filter {
	active := make([]curator.Filter, 0, len(filters))
	for _, f := range filters {
		if f != nil {
			active = append(active, f)
		}
	}
	return curator.FilterFunc(func(rec *types.Record) bool {
		for _, f := range active {
			if f.Reject(rec) {
				return true
			}
		}
		return false
	})
}

// IDs rejects the listed package ids, e.g. packages hidden by the user
func IDs(ids ...string) curator.Filter {
	hidden := set(ids)
	return curator.FilterFunc(func(rec *types.Record) bool {
		_, ok := hidden[rec.ID]
		return ok
	})
}

func set(values []string) map[string]struct{} {
	out := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out[v] = struct{}{}
		}
	}
	return out
}

func intersects(values []string, in map[string]struct{}) bool {
	for _, v := range values {
		if _, ok := in[v]; ok {
			return true
		}
	}
	return false
}
