package curator

import (
	"time"

	"github.com/GriffinCanCode/appcurator/internal/shared/types"
)

// DefaultHistoryDays is the recency window used when none is configured
const DefaultHistoryDays = 14

// Kind identifies how a category selects records
type Kind int

const (
	KindLiteral Kind = iota
	KindAll
	KindWhatsNew
	KindRecentlyUpdated
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindAll:
		return "all"
	case KindWhatsNew:
		return "whats_new"
	case KindRecentlyUpdated:
		return "recently_updated"
	default:
		return "literal"
	}
}

// Synthetic resolves synthetic category identity for a single pass.
type Synthetic struct {
	labels types.Labels
}

// NewSynthetic binds the labels supplied for the current pass
func NewSynthetic(labels types.Labels) Synthetic {
	return Synthetic{labels: labels}
}

// Labels returns the labels the resolver was built from
func (s Synthetic) Labels() types.Labels {
	return s.labels
}

// Kind classifies a category name against the pass labels
func (s Synthetic) Kind(category string) Kind {
	switch category {
	case s.labels.All:
		return KindAll
	case s.labels.WhatsNew:
		return KindWhatsNew
	case s.labels.RecentlyUpdated:
		return KindRecentlyUpdated
	default:
		return KindLiteral
	}
}

// ResolveCategories returns the three synthetic categories followed by every
// distinct literal category of the catalog, in catalog order.
func ResolveCategories(catalog []types.Record, labels types.Labels) []string {
	categories := make([]string, 0, 3+len(catalog)/4)
	categories = append(categories, labels.All, labels.WhatsNew, labels.RecentlyUpdated)

	seen := make(map[string]struct{}, len(catalog))
	for i := range catalog {
		c := catalog[i].Category
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		categories = append(categories, c)
	}
	return categories
}

// Cutoff computes the recency boundary for a pass
func Cutoff(now time.Time, historyDays int) time.Time {
	return now.AddDate(0, 0, -historyDays)
}

// IsInCategory decides category membership of a record. Missing timestamps
// always exclude the record from the synthetic recency categories, and the
// cutoff itself is inclusive.
func IsInCategory(rec *types.Record, category string, synthetic Synthetic, cutoff time.Time) bool {
	switch synthetic.Kind(category) {
	case KindAll:
		return true
	case KindWhatsNew:
		return rec.Added != nil && !rec.Added.Before(cutoff)
	case KindRecentlyUpdated:
		if rec.LastUpdated == nil {
			return false
		}
		// an update stamp equal to the add stamp is the addition itself
		if rec.Added != nil && rec.LastUpdated.Equal(*rec.Added) {
			return false
		}
		return !rec.LastUpdated.Before(cutoff)
	default:
		return category == rec.Category
	}
}
