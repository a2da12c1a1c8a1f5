package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/EashcodeX/itglue-clone-sub001/internal/domain/search/contenttype"
)

var (
	// ErrEmptyQuery signals a query that normalizes to no tokens.
	ErrEmptyQuery = errors.New("empty query")
	// ErrInvalidScope signals an organization scope without an organization id,
	// or a global scope carrying one.
	ErrInvalidScope = errors.New("invalid scope")
	// ErrInvalidRequest signals any other malformed search request.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrPartialFailure signals that some sources failed but results were still produced.
	ErrPartialFailure = errors.New("partial failure")
	// ErrUnavailable signals that every selected source failed.
	ErrUnavailable = errors.New("search unavailable")
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
)

// PartialFailureError wraps ErrPartialFailure with the sources that did not contribute.
type PartialFailureError struct {
	Failed []contenttype.ContentType
}

func (e *PartialFailureError) Error() string {
	names := make([]string, len(e.Failed))
	for i, ct := range e.Failed {
		names[i] = string(ct)
	}
	return fmt.Sprintf("%s: %s", ErrPartialFailure.Error(), strings.Join(names, ", "))
}

func (e *PartialFailureError) Unwrap() error { return ErrPartialFailure }

// NewPartialFailure creates a partial failure error for the given sources.
func NewPartialFailure(failed []contenttype.ContentType) error {
	return &PartialFailureError{Failed: failed}
}
