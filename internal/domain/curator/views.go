package curator

import (
	"slices"
	"time"

	"github.com/GriffinCanCode/appcurator/internal/shared/types"
)

// Ordering is the sort policy applied to the available view
type Ordering int

const (
	OrderNone Ordering = iota
	OrderByAddedDesc
	OrderByUpdatedDesc
)

// String returns the string representation of the ordering
func (o Ordering) String() string {
	switch o {
	case OrderByAddedDesc:
		return "added_desc"
	case OrderByUpdatedDesc:
		return "updated_desc"
	default:
		return "none"
	}
}

func (o Ordering) key() string {
	switch o {
	case OrderByAddedDesc:
		return "added"
	case OrderByUpdatedDesc:
		return "last_updated"
	default:
		return ""
	}
}

// timestamp returns the sort key of rec under o
func (o Ordering) timestamp(rec *types.Record) *time.Time {
	switch o {
	case OrderByAddedDesc:
		return rec.Added
	case OrderByUpdatedDesc:
		return rec.LastUpdated
	default:
		return nil
	}
}

// OrderingFor selects the ordering policy of the active category
func OrderingFor(category string, synthetic Synthetic) Ordering {
	switch synthetic.Kind(category) {
	case KindWhatsNew:
		return OrderByAddedDesc
	case KindRecentlyUpdated:
		return OrderByUpdatedDesc
	default:
		return OrderNone
	}
}

// BuildAvailable returns a fresh, ordered copy of the candidate pool.
// Sorting is stable: records with equal keys keep their pool order.
func BuildAvailable(pool []types.Record, ordering Ordering) ([]types.Record, error) {
	out := make([]types.Record, len(pool))
	copy(out, pool)

	if ordering == OrderNone {
		return out, nil
	}

	for i := range out {
		if ordering.timestamp(&out[i]) == nil {
			return nil, &InvariantError{Ordering: ordering, RecordID: out[i].ID}
		}
	}

	slices.SortStableFunc(out, func(a, b types.Record) int {
		// descending: newer first
		return ordering.timestamp(&b).Compare(*ordering.timestamp(&a))
	})

	return out, nil
}
