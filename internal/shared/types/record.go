package types

import (
	"errors"
	"fmt"
	"time"

	"github.com/GriffinCanCode/appcurator/internal/shared/utils"
)

// ErrInvalidRecord marks a record that breaks the catalog contract.
var ErrInvalidRecord = errors.New("invalid record")

// Record is one package's metadata as materialized by the catalog.
// The curator only reads records, it never mutates them.
type Record struct {
	ID       string `json:"id" yaml:"id" toml:"id"`
	Name     string `json:"name" yaml:"name" toml:"name"`
	Summary  string `json:"summary,omitempty" yaml:"summary,omitempty" toml:"summary,omitempty"`
	Category string `json:"category" yaml:"category" toml:"category"`

	// Nil timestamps mean "unknown" and keep the record out of the
	// What's New / Recently Updated categories.
	Added       *time.Time `json:"added,omitempty" yaml:"added,omitempty" toml:"added,omitempty"`
	LastUpdated *time.Time `json:"last_updated,omitempty" yaml:"last_updated,omitempty" toml:"last_updated,omitempty"`

	// InstalledVersion is present iff the package is installed on the device.
	InstalledVersion *string `json:"installed_version,omitempty" yaml:"installed_version,omitempty" toml:"installed_version,omitempty"`
	HasUpdates       bool    `json:"has_updates" yaml:"has_updates" toml:"has_updates"`

	// Compatibility metadata, interpreted only by host filters
	MinSDK       int      `json:"min_sdk,omitempty" yaml:"min_sdk,omitempty" toml:"min_sdk,omitempty"`
	NativeCode   []string `json:"native_code,omitempty" yaml:"native_code,omitempty" toml:"native_code,omitempty"`
	AntiFeatures []string `json:"anti_features,omitempty" yaml:"anti_features,omitempty" toml:"anti_features,omitempty"`
	Requirements []string `json:"requirements,omitempty" yaml:"requirements,omitempty" toml:"requirements,omitempty"`
}

// Installed reports whether the package is installed on the device
func (r *Record) Installed() bool {
	return r.InstalledVersion != nil
}

// Validate checks the record invariants the curator relies on.
func (r *Record) Validate() error {
	if err := utils.ValidatePackageID(r.ID); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	checks := []error{
		utils.ValidateName(r.Name),
		utils.ValidateSummary(r.Summary),
		utils.ValidateCategory(r.Category),
		utils.ValidateTags("anti_features", r.AntiFeatures),
		utils.ValidateTags("requirements", r.Requirements),
	}
	for _, err := range checks {
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidRecord, r.ID, err)
		}
	}
	if r.HasUpdates && r.InstalledVersion == nil {
		return fmt.Errorf("%w: %s has updates but is not installed", ErrInvalidRecord, r.ID)
	}
	return nil
}

// RecordSummary is the compact form sent to stream subscribers
type RecordSummary struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Category         string     `json:"category"`
	Added            *time.Time `json:"added,omitempty"`
	LastUpdated      *time.Time `json:"last_updated,omitempty"`
	InstalledVersion *string    `json:"installed_version,omitempty"`
	HasUpdates       bool       `json:"has_updates"`
}

// ToSummary extracts the summary of a record
func (r *Record) ToSummary() RecordSummary {
	return RecordSummary{
		ID:               r.ID,
		Name:             r.Name,
		Category:         r.Category,
		Added:            r.Added,
		LastUpdated:      r.LastUpdated,
		InstalledVersion: r.InstalledVersion,
		HasUpdates:       r.HasUpdates,
	}
}

// CatalogStats contains catalog statistics
type CatalogStats struct {
	TotalRecords int            `json:"total_records"`
	Installed    int            `json:"installed"`
	Upgradable   int            `json:"upgradable"`
	Categories   map[string]int `json:"categories"`
	LastUpdated  *time.Time     `json:"last_updated,omitempty"`
}
