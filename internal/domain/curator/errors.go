package curator

import (
	"errors"
	"fmt"
)

var (
	// ErrInvariantViolation indicates a record without a sort key reached the
	// ordering stage. It is a logic defect upstream, never a data condition.
	ErrInvariantViolation = errors.New("curation invariant violated")

	// ErrUnknownCategory indicates a selection that is neither synthetic nor
	// present in the catalog
	ErrUnknownCategory = errors.New("unknown category")
)

// InvariantError describes which ordering rejected which record
type InvariantError struct {
	Ordering Ordering
	RecordID string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%v: record %q has no %s timestamp", ErrInvariantViolation, e.RecordID, e.Ordering.key())
}

func (e *InvariantError) Unwrap() error {
	return ErrInvariantViolation
}
