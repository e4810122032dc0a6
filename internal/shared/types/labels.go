package types

import "strings"

// Labels are the localized names of the three synthetic categories.
// They are supplied by the host on every pass and may change with the locale.
type Labels struct {
	All             string `json:"all"`
	WhatsNew        string `json:"whats_new"`
	RecentlyUpdated string `json:"recently_updated"`
}

// DefaultLocale is used when a locale has no label table
const DefaultLocale = "en"

var localizedLabels = map[string]Labels{
	"en": {All: "All", WhatsNew: "What's New", RecentlyUpdated: "Recently Updated"},
	"de": {All: "Alle", WhatsNew: "Neuheiten", RecentlyUpdated: "Kürzlich aktualisiert"},
	"es": {All: "Todas", WhatsNew: "Novedades", RecentlyUpdated: "Actualizadas recientemente"},
	"fr": {All: "Toutes", WhatsNew: "Nouveautés", RecentlyUpdated: "Mises à jour récentes"},
	"pt": {All: "Todas", WhatsNew: "Novidades", RecentlyUpdated: "Atualizadas recentemente"},
	"ru": {All: "Все", WhatsNew: "Новые", RecentlyUpdated: "Недавно обновлённые"},
}

// DefaultLabels returns the English labels
func DefaultLabels() Labels {
	return localizedLabels[DefaultLocale]
}

// LabelsFor returns the labels for a locale such as "pt" or "pt-BR",
// falling back to English.
func LabelsFor(locale string) Labels {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if l, ok := localizedLabels[locale]; ok {
		return l
	}
	if i := strings.IndexAny(locale, "-_"); i > 0 {
		if l, ok := localizedLabels[locale[:i]]; ok {
			return l
		}
	}
	return DefaultLabels()
}

// Locales lists the locales with a label table
func Locales() []string {
	return []string{"de", "en", "es", "fr", "pt", "ru"}
}
