package leaseledger

import (
	"context"

	"github.com/google/uuid"
)

// Service is the operations surface exposed to callers (for example the HTTP
// layer). All methods take and return plain data snapshots; no storage-layer
// handles leak across this boundary.
//
// Read methods signal absence with nil/empty results, never an error. Write
// methods fail with a typed error on any unrecovered failure.
type Service interface {
	// RegisterDocument creates the owning user if necessary, creates the
	// document, and seeds its ledger according to the sharing mode, all in
	// one transaction.
	RegisterDocument(ctx context.Context, req RegisterDocumentRequest) (*RegisterDocumentResult, error)

	// GetDocument returns the document with its activities eagerly loaded,
	// or nil when it does not exist.
	GetDocument(ctx context.Context, id uuid.UUID) (*Document, error)

	// ListUserDocuments returns the owner's documents, newest first.
	ListUserDocuments(ctx context.Context, ownerID uuid.UUID) ([]*Document, error)

	// ListActivities returns a document's activities, newest first.
	ListActivities(ctx context.Context, documentID uuid.UUID) ([]*Activity, error)

	// AddActivity appends one activity, retrying transient storage
	// failures up to the configured maximum.
	AddActivity(ctx context.Context, req AddActivityRequest) (*Activity, error)

	// GetSharingState derives the document's current sharing/licensing
	// state from its activity history.
	GetSharingState(ctx context.Context, documentID uuid.UUID) (*SharingState, error)

	// ListLedgerEvents returns the nested sub-events of one activity, or
	// an empty list when the activity is missing or has none.
	ListLedgerEvents(ctx context.Context, activityID uuid.UUID) ([]map[string]any, error)

	// SyncUser creates the user or updates email/name in place.
	SyncUser(ctx context.Context, req SyncUserRequest) (*User, error)
}
