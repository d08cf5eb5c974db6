package engine

import (
	"errors"
	"fmt"

	"sahara-be/models"
)

// ErrNotFound is returned when a problem, user or department id is unknown.
var ErrNotFound = errors.New("not found")

// ErrNoCandidate is returned when no department matches a problem's
// category and municipality.
var ErrNoCandidate = errors.New("no eligible department")

// ErrStaleStatus is returned by a store when a conditional status change
// lost a race: the problem's status no longer matches the expected one.
var ErrStaleStatus = errors.New("problem status changed concurrently")

// ValidationError reports malformed or missing input. Always recoverable
// by the caller.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// InvalidTransitionError reports an illegal state-machine edge.
type InvalidTransitionError struct {
	From models.ProblemStatus
	To   models.ProblemStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition problem from %q to %q", e.From, e.To)
}

// StorageError wraps a persistence-layer failure. The engine never retries
// these; retry policy belongs to the caller.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
