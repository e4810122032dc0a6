package curator

import (
	"time"

	"github.com/GriffinCanCode/appcurator/internal/shared/types"
)

// Filter rejects records that must not appear in the available view,
// e.g. packages incompatible with the device. It is opaque to the curator.
type Filter interface {
	Reject(rec *types.Record) bool
}

// FilterFunc adapts a function to the Filter interface
type FilterFunc func(rec *types.Record) bool

// Reject calls f(rec)
func (f FilterFunc) Reject(rec *types.Record) bool {
	return f(rec)
}

// Classification is the outcome of a single classification scan
type Classification struct {
	Candidates []types.Record // available-view pool, catalog order
	Installed  []types.Record
	Upgradable []types.Record
}

// Classify partitions the catalog in one pass. Installed and upgradable
// reflect device state only; category and filter affect the candidate pool.
func Classify(catalog []types.Record, category string, synthetic Synthetic, cutoff time.Time, filter Filter) Classification {
	out := Classification{
		Candidates: make([]types.Record, 0, len(catalog)),
		Installed:  make([]types.Record, 0),
		Upgradable: make([]types.Record, 0),
	}

	for i := range catalog {
		rec := &catalog[i]

		if !rejected(filter, rec) && IsInCategory(rec, category, synthetic, cutoff) {
			out.Candidates = append(out.Candidates, *rec)
		}
		if rec.Installed() {
			out.Installed = append(out.Installed, *rec)
			if rec.HasUpdates {
				out.Upgradable = append(out.Upgradable, *rec)
			}
		}
	}

	return out
}

func rejected(filter Filter, rec *types.Record) bool {
	if filter == nil {
		return false
	}
	return filter.Reject(rec)
}
