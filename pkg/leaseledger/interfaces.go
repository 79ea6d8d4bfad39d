package leaseledger

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for user, document and activity
// persistence. Implementations must keep activities append-only: there is
// deliberately no update or delete operation for them, and document deletion
// cascades to its activities.
type Repository interface {
	// CreateTables performs idempotent schema creation. Safe to call at
	// process start.
	CreateTables(ctx context.Context) error

	// WithTx runs fn inside one bounded transaction. fn receives a
	// Repository scoped to that transaction; any error from fn rolls the
	// transaction back and is returned unchanged. Calling WithTx on a
	// transaction-scoped Repository runs fn in the same transaction.
	WithTx(ctx context.Context, fn func(Repository) error) error

	// User operations
	CreateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	UpdateUser(ctx context.Context, user *User) error

	// Document operations
	CreateDocument(ctx context.Context, doc *Document) error
	GetDocument(ctx context.Context, id uuid.UUID) (*Document, error)
	UpdateDocument(ctx context.Context, doc *Document) error
	DeleteDocument(ctx context.Context, id uuid.UUID) error
	ListDocumentsByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Document, error)

	// Activity operations (append-only)
	CreateActivity(ctx context.Context, activity *Activity) error
	GetActivity(ctx context.Context, id uuid.UUID) (*Activity, error)
	ListActivitiesByDocument(ctx context.Context, documentID uuid.UUID) ([]*Activity, error)
}

// ExtractionResult is the opaque output of an external document-AI run.
type ExtractionResult struct {
	Data     map[string]any `json:"data"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Extractor is the external LLM-backed extraction capability. The ledger
// core never invokes it; callers run extraction out of band and store the
// result as a document's extracted_data payload.
type Extractor interface {
	ProcessDocument(ctx context.Context, fileRef string) (*ExtractionResult, error)
}
