package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLabelsFor(t *testing.T) {
	assert.Equal(t, DefaultLabels(), LabelsFor("en"))
	assert.Equal(t, "Neuheiten", LabelsFor("de").WhatsNew)
	assert.Equal(t, LabelsFor("pt"), LabelsFor("pt-BR"))
	assert.Equal(t, LabelsFor("pt"), LabelsFor(" PT_br "))
	assert.Equal(t, DefaultLabels(), LabelsFor("tlh"))
	assert.Equal(t, DefaultLabels(), LabelsFor(""))
}

func TestLocalesHaveDistinctLabels(t *testing.T) {
	for _, locale := range Locales() {
		l := LabelsFor(locale)
		assert.NotEmpty(t, l.All, locale)
		assert.NotEqual(t, l.All, l.WhatsNew, locale)
		assert.NotEqual(t, l.WhatsNew, l.RecentlyUpdated, locale)
		assert.NotEqual(t, l.All, l.RecentlyUpdated, locale)
	}
}
