// Package catalog holds the package catalog the curator reads from.
//
// Store keeps records in catalog order and notifies listeners on change.
// Seeder discovers index files under a directory and decodes them:
//
//	index.json, index.yaml, index.toml      plain
//	index.json.gz, index.yaml.zst           compressed
//
// An index is a document with a "records" list, or for JSON and YAML a bare
// list of records.
package catalog
