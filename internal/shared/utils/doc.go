// Package utils provides record field validation and content hashing.
//
// Validation checks catalog fields for length, encoding and package-id
// syntax. Category labels are free text because they may be localized.
//
// Hashing produces SHA256 fingerprints of encoded catalog content, used as
// HTTP entity tags on exports.
package utils
