package leaseledger

import "github.com/google/uuid"

// RegisterDocumentRequest contains parameters for registering a document.
// OwnerEmail and OwnerName are only consulted when the owner does not exist
// yet and a placeholder user has to be synthesized.
type RegisterDocumentRequest struct {
	Title         string
	FileRef       string
	SharingMode   SharingMode
	OwnerID       uuid.UUID
	OwnerEmail    string
	OwnerName     string
	Recipients    []string
	LicenseFee    float64
	ExtractedData map[string]any
	RiskFlags     []string
	AssetType     string
}

// RegisterDocumentResult is the outcome of a successful registration.
type RegisterDocumentResult struct {
	Document      *Document   `json:"document"`
	Activities    []*Activity `json:"activities"`
	ActivityCount int         `json:"activity_count"`
}

// AddActivityRequest contains parameters for appending one ledger activity.
// Category defaults to the event catalog's category for Action (CategoryMisc
// for unknown actions); Status defaults to ActivityStatusSuccess.
type AddActivityRequest struct {
	DocumentID    uuid.UUID
	Action        string
	Category      ActivityCategory
	Status        ActivityStatus
	ActorID       string
	ActorName     string
	Details       string
	RevenueImpact float64
	ExtraData     map[string]any
}

// SyncUserRequest contains parameters for creating or updating a user.
type SyncUserRequest struct {
	ID    uuid.UUID
	Email string
	Name  string
}
