package preferences

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/GriffinCanCode/appcurator/internal/infrastructure/config"
	"github.com/GriffinCanCode/appcurator/internal/shared/types"
	"github.com/GriffinCanCode/appcurator/internal/shared/utils"
)

// ErrInvalidPreference is returned for values the store refuses to hold
var ErrInvalidPreference = errors.New("invalid preference")

// Preferences are the user-tunable curation settings. UpdateHistoryDays is
// stored as text and parsed leniently when a pass is configured.
type Preferences struct {
	UpdateHistoryDays  string `json:"update_history_days"`
	Locale             string `json:"locale"`
	ShowIncompatible   bool   `json:"show_incompatible"`
	IgnoreAntiFeatures bool   `json:"ignore_anti_features"`
	Query              string `json:"query"`
	// HiddenIDs are package ids the user chose to hide from the available view
	HiddenIDs []string `json:"hidden_ids"`
}

// Equal reports whether p and o hold the same values
func (p Preferences) Equal(o Preferences) bool {
	return p.UpdateHistoryDays == o.UpdateHistoryDays &&
		p.Locale == o.Locale &&
		p.ShowIncompatible == o.ShowIncompatible &&
		p.IgnoreAntiFeatures == o.IgnoreAntiFeatures &&
		p.Query == o.Query &&
		slices.Equal(p.HiddenIDs, o.HiddenIDs)
}

func (p Preferences) clone() Preferences {
	p.HiddenIDs = slices.Clone(p.HiddenIDs)
	return p
}

// HistoryDays returns the recency window, falling back to the default for
// malformed values
func (p Preferences) HistoryDays() int {
	return config.ParseHistoryDays(p.UpdateHistoryDays)
}

// Patch is a partial update; nil fields are left unchanged
type Patch struct {
	UpdateHistoryDays  *string `json:"update_history_days,omitempty"`
	Locale             *string `json:"locale,omitempty"`
	ShowIncompatible   *bool   `json:"show_incompatible,omitempty"`
	IgnoreAntiFeatures *bool   `json:"ignore_anti_features,omitempty"`
	Query              *string `json:"query,omitempty"`
	// HiddenIDs replaces the whole list; an empty list unhides everything
	HiddenIDs *[]string `json:"hidden_ids,omitempty"`
}

// Empty reports whether the patch changes nothing
func (p Patch) Empty() bool {
	return p.UpdateHistoryDays == nil && p.Locale == nil && p.ShowIncompatible == nil &&
		p.IgnoreAntiFeatures == nil && p.Query == nil && p.HiddenIDs == nil
}

// Store holds the current preferences. Every effective change is announced
// to listeners with the new value.
type Store struct {
	mu       sync.RWMutex
	current  Preferences
	defaults Preferences

	listenerMu sync.RWMutex
	listeners  map[uint64]func(Preferences)
	nextID     uint64
}

// FromConfig derives the initial preferences from the curation config
func FromConfig(cfg config.CurationConfig) Preferences {
	return Preferences{
		UpdateHistoryDays:  cfg.UpdateHistoryDays,
		Locale:             cfg.Locale,
		ShowIncompatible:   cfg.ShowIncompatible,
		IgnoreAntiFeatures: cfg.IgnoreAntiFeatures,
		HiddenIDs:          normalizeIDs(cfg.HiddenIDs),
	}
}

// NewStore creates a store whose defaults are the given preferences
func NewStore(defaults Preferences) *Store {
	if defaults.Locale == "" {
		defaults.Locale = types.DefaultLocale
	}
	defaults.HiddenIDs = normalizeIDs(defaults.HiddenIDs)
	return &Store{
		current:   defaults,
		defaults:  defaults,
		listeners: make(map[uint64]func(Preferences)),
	}
}

// Get returns the current preferences
func (s *Store) Get() Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.clone()
}

// Defaults returns the values Reset restores
func (s *Store) Defaults() Preferences {
	return s.defaults.clone()
}

// Update applies a patch and reports whether anything changed
func (s *Store) Update(patch Patch) (Preferences, bool, error) {
	if patch.Locale != nil && !slices.Contains(types.Locales(), *patch.Locale) {
		return s.Get(), false, fmt.Errorf("%w: unsupported locale %q", ErrInvalidPreference, *patch.Locale)
	}
	var hidden []string
	if patch.HiddenIDs != nil {
		for _, pkg := range *patch.HiddenIDs {
			if err := utils.ValidatePackageID(pkg); err != nil {
				return s.Get(), false, fmt.Errorf("%w: hidden_ids: %v", ErrInvalidPreference, err)
			}
		}
		hidden = normalizeIDs(*patch.HiddenIDs)
	}

	s.mu.Lock()
	next := s.current
	if patch.UpdateHistoryDays != nil {
		next.UpdateHistoryDays = *patch.UpdateHistoryDays
	}
	if patch.Locale != nil {
		next.Locale = *patch.Locale
	}
	if patch.ShowIncompatible != nil {
		next.ShowIncompatible = *patch.ShowIncompatible
	}
	if patch.IgnoreAntiFeatures != nil {
		next.IgnoreAntiFeatures = *patch.IgnoreAntiFeatures
	}
	if patch.Query != nil {
		next.Query = *patch.Query
	}
	if patch.HiddenIDs != nil {
		next.HiddenIDs = hidden
	}
	changed := !next.Equal(s.current)
	s.current = next
	s.mu.Unlock()

	if changed {
		s.notify(next.clone())
	}
	return next.clone(), changed, nil
}

// Reset restores the defaults
func (s *Store) Reset() Preferences {
	s.mu.Lock()
	changed := !s.current.Equal(s.defaults)
	s.current = s.defaults
	s.mu.Unlock()

	if changed {
		s.notify(s.defaults.clone())
	}
	return s.defaults.clone()
}

// OnChange registers a listener for effective changes and returns a
// function that removes it
func (s *Store) OnChange(fn func(Preferences)) (remove func()) {
	s.listenerMu.Lock()
	key := s.nextID
	s.nextID++
	s.listeners[key] = fn
	s.listenerMu.Unlock()

	return func() {
		s.listenerMu.Lock()
		delete(s.listeners, key)
		s.listenerMu.Unlock()
	}
}

func (s *Store) notify(p Preferences) {
	s.listenerMu.RLock()
	fns := make([]func(Preferences), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.listenerMu.RUnlock()

	for _, fn := range fns {
		fn(p)
	}
}

// normalizeIDs trims, drops empties and duplicates, and sorts, so equal
// sets compare equal
func normalizeIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, pkg := range ids {
		if pkg = strings.TrimSpace(pkg); pkg != "" {
			out = append(out, pkg)
		}
	}
	slices.Sort(out)
	out = slices.Compact(out)
	if len(out) == 0 {
		return nil
	}
	return out
}
