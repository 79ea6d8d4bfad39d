package leaseledger

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error types
var (
	// ErrUserNotFound indicates a user was not found
	ErrUserNotFound = errors.New("user not found")

	// ErrDocumentNotFound indicates a document was not found
	ErrDocumentNotFound = errors.New("document not found")

	// ErrActivityNotFound indicates an activity was not found
	ErrActivityNotFound = errors.New("activity not found")

	// ErrInvalidSharingMode indicates an unsupported sharing mode
	ErrInvalidSharingMode = errors.New("invalid sharing mode")

	// ErrInvalidRequest indicates malformed input to an operation
	ErrInvalidRequest = errors.New("invalid request")

	// ErrRetriesExhausted indicates a write failed after the configured
	// number of transient-failure retries. Deliberately distinct from the
	// last underlying cause.
	ErrRetriesExhausted = errors.New("retries exhausted")

	// ErrIntegrityViolation indicates a storage-level constraint failure,
	// e.g. a document referencing a non-existent owner
	ErrIntegrityViolation = errors.New("integrity violation")
)

// DocumentError represents an error related to document operations
type DocumentError struct {
	DocumentID uuid.UUID
	Op         string
	Err        error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("document operation %s failed for document %s: %v", e.Op, e.DocumentID, e.Err)
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}

// ActivityError represents an error related to ledger activity operations
type ActivityError struct {
	DocumentID uuid.UUID
	Action     string
	Op         string
	Err        error
}

func (e *ActivityError) Error() string {
	return fmt.Sprintf("activity operation %s (%s) failed for document %s: %v", e.Op, e.Action, e.DocumentID, e.Err)
}

func (e *ActivityError) Unwrap() error {
	return e.Err
}
