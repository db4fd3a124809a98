package core

import (
	"errors"
	"fmt"

	"github.com/inovacc/doubleblind/internal/model"
)

var (
	// ErrPipelineClosed is returned by SearchPipeline.Update after teardown.
	ErrPipelineClosed = errors.New("search pipeline closed")

	// ErrInvalidPageSize is returned by FetchAll for a page size below 1.
	ErrInvalidPageSize = errors.New("page size must be at least 1")

	// ErrNilMutation is returned by MutationGateway.Submit for a nil request.
	ErrNilMutation = errors.New("mutation request is required")
)

// PageError is the single failure reported by a paginated fetch. It names
// the first page that failed and wraps its cause.
type PageError struct {
	Page int
	Err  error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("fetch page %d: %v", e.Page, e.Err)
}

func (e *PageError) Unwrap() error {
	return e.Err
}

// MutationError wraps the transport or remote failure of a submitted mutation.
type MutationError struct {
	Kind model.MutationKind
	Err  error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Kind, e.Err)
}

func (e *MutationError) Unwrap() error {
	return e.Err
}
