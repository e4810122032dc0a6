package curator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/GriffinCanCode/appcurator/internal/shared/types"
)

func TestResolveCategories(t *testing.T) {
	labels := types.DefaultLabels()

	t.Run("synthetic first then catalog order", func(t *testing.T) {
		catalog := []types.Record{
			{ID: "a", Category: "Games"},
			{ID: "b", Category: "Internet"},
			{ID: "c", Category: "Games"},
			{ID: "d", Category: ""},
			{ID: "e", Category: "Science"},
		}

		got := ResolveCategories(catalog, labels)
		assert.Equal(t, []string{labels.All, labels.WhatsNew, labels.RecentlyUpdated, "Games", "Internet", "Science"}, got)
	})

	t.Run("empty catalog yields synthetic only", func(t *testing.T) {
		got := ResolveCategories(nil, labels)
		assert.Equal(t, []string{labels.All, labels.WhatsNew, labels.RecentlyUpdated}, got)
	})

	t.Run("localized labels", func(t *testing.T) {
		de := types.LabelsFor("de")
		got := ResolveCategories([]types.Record{{ID: "a", Category: "Spiele"}}, de)
		assert.Equal(t, de.All, got[0])
		assert.Equal(t, de.WhatsNew, got[1])
		assert.Equal(t, de.RecentlyUpdated, got[2])
		assert.Equal(t, "Spiele", got[3])
	})

	t.Run("literal category named like a synthetic label", func(t *testing.T) {
		catalog := []types.Record{
			{ID: "a", Category: labels.All},
			{ID: "b", Category: "Games"},
		}

		got := ResolveCategories(catalog, labels)
		assert.Equal(t, []string{labels.All, labels.WhatsNew, labels.RecentlyUpdated, labels.All, "Games"}, got)

		// selecting it resolves to the synthetic category
		s := NewSynthetic(labels)
		assert.Equal(t, KindAll, s.Kind(labels.All))
		assert.True(t, IsInCategory(&catalog[1], labels.All, s, Cutoff(refNow, 14)))
	})
}

func TestSyntheticKind(t *testing.T) {
	s := enSynthetic()
	labels := s.Labels()

	assert.Equal(t, KindAll, s.Kind(labels.All))
	assert.Equal(t, KindWhatsNew, s.Kind(labels.WhatsNew))
	assert.Equal(t, KindRecentlyUpdated, s.Kind(labels.RecentlyUpdated))
	assert.Equal(t, KindLiteral, s.Kind("Games"))
	assert.Equal(t, "whats_new", KindWhatsNew.String())
	assert.Equal(t, "literal", KindLiteral.String())
}

func TestCutoff(t *testing.T) {
	assert.Equal(t, time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC), Cutoff(refNow, 14))
	assert.Equal(t, refNow, Cutoff(refNow, 0))

	// calendar days, not 24h blocks, across a month boundary
	assert.Equal(t, time.Date(2024, time.February, 29, 12, 0, 0, 0, time.UTC), Cutoff(refNow, 15))
}

func TestIsInCategory(t *testing.T) {
	s := enSynthetic()
	labels := s.Labels()
	cutoff := Cutoff(refNow, 14)

	tests := []struct {
		name     string
		rec      types.Record
		category string
		want     bool
	}{
		{"all accepts anything", types.Record{ID: "x"}, labels.All, true},
		{"whats new recent", types.Record{ID: "x", Added: daysAgo(2)}, labels.WhatsNew, true},
		{"whats new old", types.Record{ID: "x", Added: daysAgo(20)}, labels.WhatsNew, false},
		{"whats new at cutoff", types.Record{ID: "x", Added: daysAgo(14)}, labels.WhatsNew, true},
		{"whats new missing added", types.Record{ID: "x", LastUpdated: daysAgo(1)}, labels.WhatsNew, false},
		{"recently updated recent", types.Record{ID: "x", Added: daysAgo(30), LastUpdated: daysAgo(3)}, labels.RecentlyUpdated, true},
		{"recently updated old", types.Record{ID: "x", Added: daysAgo(30), LastUpdated: daysAgo(20)}, labels.RecentlyUpdated, false},
		{"recently updated at cutoff", types.Record{ID: "x", Added: daysAgo(30), LastUpdated: daysAgo(14)}, labels.RecentlyUpdated, true},
		{"recently updated equals added", types.Record{ID: "x", Added: daysAgo(1), LastUpdated: daysAgo(1)}, labels.RecentlyUpdated, false},
		{"recently updated missing stamp", types.Record{ID: "x", Added: daysAgo(1)}, labels.RecentlyUpdated, false},
		{"recently updated missing added", types.Record{ID: "x", LastUpdated: daysAgo(1)}, labels.RecentlyUpdated, true},
		{"literal match", types.Record{ID: "x", Category: "Games"}, "Games", true},
		{"literal mismatch", types.Record{ID: "x", Category: "Games"}, "Internet", false},
		{"literal is case sensitive", types.Record{ID: "x", Category: "Games"}, "games", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsInCategory(&tt.rec, tt.category, s, cutoff))
		})
	}
}
