package model

import "fmt"

// ValidationError is a local pre-submit failure. It never reaches the network.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InvalidRecordError reports a repository record that breaks the
// deployed/domain/branch invariant.
type InvalidRecordError struct {
	ID     int64
	Reason string
}

func (e *InvalidRecordError) Error() string {
	return fmt.Sprintf("invalid repository record %d: %s", e.ID, e.Reason)
}
