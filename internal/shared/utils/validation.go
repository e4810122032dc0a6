package utils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Field length limits for catalog records
const (
	MaxPackageIDLength = 255
	MaxNameLength      = 256
	MaxSummaryLength   = 2048
	MaxCategoryLength  = 64
	MaxTagLength       = 64
	MaxTagCount        = 32
)

// PackageIDPattern allows reverse-domain package names: alphanumeric,
// dots, hyphens and underscores
var PackageIDPattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// ValidateString validates a string field with length and content checks
func ValidateString(value, fieldName string, minLen, maxLen int, required bool) error {
	if required && value == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	if value == "" {
		return nil
	}

	length := utf8.RuneCountInString(value)
	if length < minLen {
		return fmt.Errorf("%s must be at least %d characters", fieldName, minLen)
	}
	if length > maxLen {
		return fmt.Errorf("%s must not exceed %d characters", fieldName, maxLen)
	}
	if strings.Contains(value, "\x00") || !utf8.ValidString(value) {
		return fmt.Errorf("%s contains invalid characters", fieldName)
	}
	return nil
}

// ValidatePackageID validates a package identifier
func ValidatePackageID(id string) error {
	if err := ValidateString(id, "id", 1, MaxPackageIDLength, true); err != nil {
		return err
	}
	if !PackageIDPattern.MatchString(id) {
		return fmt.Errorf("id %q contains invalid characters (only alphanumeric, dots, hyphens, and underscores allowed)", id)
	}
	return nil
}

// ValidateName validates an optional display name
func ValidateName(name string) error {
	return ValidateString(name, "name", 1, MaxNameLength, false)
}

// ValidateSummary validates an optional summary line
func ValidateSummary(summary string) error {
	return ValidateString(summary, "summary", 0, MaxSummaryLength, false)
}

// ValidateCategory validates a category label. Labels are free text and
// may be localized, so only length and encoding are checked.
func ValidateCategory(category string) error {
	if err := ValidateString(category, "category", 1, MaxCategoryLength, false); err != nil {
		return err
	}
	if category != strings.TrimSpace(category) {
		return fmt.Errorf("category %q has surrounding whitespace", category)
	}
	return nil
}

// ValidateTags validates a tag list such as anti-features or requirements
func ValidateTags(fieldName string, tags []string) error {
	if len(tags) > MaxTagCount {
		return fmt.Errorf("too many %s (maximum %d)", fieldName, MaxTagCount)
	}
	for i, tag := range tags {
		if err := ValidateString(tag, fmt.Sprintf("%s[%d]", fieldName, i), 1, MaxTagLength, true); err != nil {
			return err
		}
	}
	return nil
}
