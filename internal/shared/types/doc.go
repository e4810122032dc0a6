// Package types provides shared data structures for the catalog curator.
//
// Core Types:
//   - Record: One package of the catalog (category, timestamps, install state)
//   - RecordSummary: Compact record form for stream subscribers
//   - Labels: Localized names of the synthetic categories
//   - CatalogStats: Catalog-wide counters
//
// Records are owned by the catalog. Every other component treats them as
// read-only values.
//
// Example Usage:
//
//	added := time.Now().AddDate(0, 0, -2)
//	rec := types.Record{
//	    ID:       "org.example.notes",
//	    Name:     "Notes",
//	    Category: "Office",
//	    Added:    &added,
//	}
package types
