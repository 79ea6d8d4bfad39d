package leaseledger

import (
	"time"

	"github.com/google/uuid"
)

// SharingMode is the document-level distribution policy chosen at
// registration. It is immutable for the lifetime of the document.
type SharingMode string

// Sharing mode constants (typed).
const (
	SharingModePrivate  SharingMode = "private"
	SharingModeFirm     SharingMode = "firm"
	SharingModeExternal SharingMode = "external"
	SharingModeLicense  SharingMode = "license"
	SharingModeCoop     SharingMode = "coop"
)

// IsValid reports whether m is one of the supported sharing modes.
func (m SharingMode) IsValid() bool {
	switch m {
	case SharingModePrivate, SharingModeFirm, SharingModeExternal,
		SharingModeLicense, SharingModeCoop:
		return true
	}
	return false
}

// ActivityCategory groups ledger actions by concern.
type ActivityCategory string

// Activity category constants (typed).
const (
	CategoryOrigination ActivityCategory = "origination"
	CategorySharing     ActivityCategory = "sharing"
	CategoryLicensing   ActivityCategory = "licensing"
	CategoryValidation  ActivityCategory = "validation"
	CategoryAccess      ActivityCategory = "access"
	CategoryMisc        ActivityCategory = "misc"
)

// ActivityStatus is the outcome recorded on a ledger activity.
type ActivityStatus string

// Activity status constants (typed).
const (
	ActivityStatusSuccess ActivityStatus = "success"
	ActivityStatusPending ActivityStatus = "pending"
	ActivityStatusFailed  ActivityStatus = "failed"
)

// Document status and ownership defaults.
const (
	DocumentStatusActive = "active"

	OwnershipTypeOwned = "owned"

	DefaultAssetType = "office"
)

// User owns documents. Created on first registration or explicit sync.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Document represents one registered lease document. The sharing mode is
// fixed at creation; everything that happens to the document afterwards is
// recorded as appended Activities, never as in-place mutation (TotalRevenue
// is the one derived aggregate maintained on the row itself).
type Document struct {
	ID            uuid.UUID      `json:"id"`
	Title         string         `json:"title"`
	FileRef       string         `json:"file_ref"`
	OwnerID       uuid.UUID      `json:"owner_id"`
	SharingMode   SharingMode    `json:"sharing_mode"`
	AssetType     string         `json:"asset_type"`
	Status        string         `json:"status"`
	OwnershipType string         `json:"ownership_type"`
	LicenseFee    float64        `json:"license_fee"`
	TotalRevenue  float64        `json:"total_revenue"`
	SharedEmails  []string       `json:"shared_emails,omitempty"`
	ExtractedData map[string]any `json:"extracted_data,omitempty"`
	RiskFlags     []string       `json:"risk_flags,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`

	// Populated by GetDocument (eager load); nil elsewhere.
	Activities []*Activity `json:"activities,omitempty"`
}

// Activity is one immutable ledger record. The ledger never updates or
// deletes an activity; new state is always represented by appending another
// one. Category is serialized as "type" for API compatibility with the
// original ledger payloads.
type Activity struct {
	ID            uuid.UUID        `json:"id"`
	DocumentID    uuid.UUID        `json:"document_id"`
	Action        string           `json:"action"`
	Category      ActivityCategory `json:"type"`
	Status        ActivityStatus   `json:"status"`
	ActorID       string           `json:"actor_id"`
	ActorName     string           `json:"actor_name,omitempty"`
	TxHash        string           `json:"tx_hash"`
	BlockNumber   int64            `json:"block_number"`
	GasUsed       int64            `json:"gas_used"`
	Details       string           `json:"details,omitempty"`
	ExtraData     map[string]any   `json:"extra_data,omitempty"`
	RevenueImpact float64          `json:"revenue_impact"`
	CreatedAt     time.Time        `json:"created_at"`
}

// ExtraDataKeyLedgerEvents is the extra_data key under which fine-grained
// sub-events (one per share recipient, for example) are preserved verbatim.
const ExtraDataKeyLedgerEvents = "ledger_events"

// LedgerEvents returns the nested sub-event list embedded in the activity's
// extra_data, or nil if there is none.
func (a *Activity) LedgerEvents() []map[string]any {
	if a.ExtraData == nil {
		return nil
	}
	raw, ok := a.ExtraData[ExtraDataKeyLedgerEvents]
	if !ok {
		return nil
	}
	switch events := raw.(type) {
	case []map[string]any:
		return events
	case []any:
		result := make([]map[string]any, 0, len(events))
		for _, e := range events {
			if m, ok := e.(map[string]any); ok {
				result = append(result, m)
			}
		}
		return result
	}
	return nil
}

// FirmShare records the attribution of the most recent successful firm-wide
// share.
type FirmShare struct {
	SharedAt  time.Time      `json:"shared_at"`
	ActorID   string         `json:"actor_id"`
	Details   string         `json:"details,omitempty"`
	ExtraData map[string]any `json:"extra_data,omitempty"`
}

// ExternalShare records one successful external share batch.
type ExternalShare struct {
	SharedAt time.Time `json:"shared_at"`
	ActorID  string    `json:"actor_id"`
	Details  string    `json:"details,omitempty"`
	BatchID  string    `json:"batch_id,omitempty"`
}

// LicenseOffer records one successful license offer.
type LicenseOffer struct {
	CreatedAt      time.Time `json:"created_at"`
	ActorID        string    `json:"actor_id"`
	Details        string    `json:"details,omitempty"`
	MonthlyFee     float64   `json:"monthly_fee,omitempty"`
	LicensedEmails []string  `json:"licensed_emails,omitempty"`
}

// MarketplaceListing records the most recent successful marketplace
// publication.
type MarketplaceListing struct {
	Status   string    `json:"status"`
	ListedAt time.Time `json:"listed_at"`
	ActorID  string    `json:"actor_id"`
	Details  string    `json:"details,omitempty"`
}

// SharingState is a document's current sharing/licensing status, derived
// purely by replaying its activity history.
type SharingState struct {
	FirmShared     bool                `json:"firm_shared"`
	FirmShare      *FirmShare          `json:"firm_share_details,omitempty"`
	ExternalShares []ExternalShare     `json:"external_shares"`
	Licenses       []LicenseOffer      `json:"licenses"`
	Marketplace    *MarketplaceListing `json:"marketplace_status,omitempty"`
}
