package fvs

import "fmt"

// MissingBaselineDataError indicates the source CV lacks mandatory
// identification data. This is an upstream data-quality bug, not a user input
// error: a CV reaching fact verification has already passed schema validation.
type MissingBaselineDataError struct {
	Field string
}

func (e *MissingBaselineDataError) Error() string {
	return fmt.Sprintf("source CV is missing mandatory baseline data: %s", e.Field)
}
