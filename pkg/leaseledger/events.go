package leaseledger

// Ledger action codes. The catalog below fixes each known action's category
// and human-readable description; actions outside the catalog are still
// accepted (the ledger is permissive) and default to CategoryMisc.
const (
	ActionRegisterAsset  = "REGISTER_ASSET"
	ActionDeclareOwner   = "DECLARE_OWNER"
	ActionUpdateMetadata = "UPDATE_METADATA"

	ActionShareWithFirm  = "SHARE_WITH_FIRM"
	ActionInvitePartner  = "INVITE_PARTNER"
	ActionAcceptInvite   = "ACCEPT_INVITE"
	ActionRevokeAccess   = "REVOKE_ACCESS"
	ActionSharingExpired = "SHARING_EXPIRED"

	ActionCreateLicenseOffer    = "CREATE_LICENSE_OFFER"
	ActionRequestLicense        = "REQUEST_LICENSE"
	ActionAcceptLicense         = "ACCEPT_LICENSE"
	ActionLicenseExpired        = "LICENSE_EXPIRED"
	ActionReleaseEscrow         = "RELEASE_ESCROW"
	ActionPublishToMarketplace  = "PUBLISH_TO_MARKETPLACE"
	ActionRemoveFromMarketplace = "REMOVE_FROM_MARKETPLACE"
	ActionPriceUpdated          = "PRICE_UPDATED"

	ActionDocumentDownloaded = "DOCUMENT_DOWNLOADED"
	ActionDocumentViewed     = "DOCUMENT_VIEWED"
	ActionDataExported       = "DATA_EXPORTED"

	ActionAIAbstractSubmit = "AI_ABSTRACT_SUBMIT"
	ActionAbstractValidate = "ABSTRACT_VALIDATE"
	ActionComplianceCheck  = "COMPLIANCE_CHECK"
)

// Append-time sharing actions recognized by state derivation. Not part of the
// fixed catalog; callers attach the category explicitly.
const (
	ActionShareExternal    = "SHARE_EXTERNAL"
	ActionShareMarketplace = "SHARE_MARKETPLACE"
)

type eventDef struct {
	Category    ActivityCategory
	Description string
}

var eventCatalog = map[string]eventDef{
	ActionRegisterAsset:  {CategoryOrigination, "Asset registered on the ledger"},
	ActionDeclareOwner:   {CategoryOrigination, "Ownership declared"},
	ActionUpdateMetadata: {CategoryValidation, "Document metadata updated"},

	ActionShareWithFirm:  {CategorySharing, "Document shared with the firm"},
	ActionInvitePartner:  {CategorySharing, "External partner invited"},
	ActionAcceptInvite:   {CategorySharing, "Share invitation accepted"},
	ActionRevokeAccess:   {CategorySharing, "Access revoked"},
	ActionSharingExpired: {CategorySharing, "Sharing window expired"},

	ActionCreateLicenseOffer:    {CategoryLicensing, "License offer created"},
	ActionRequestLicense:        {CategoryLicensing, "License requested"},
	ActionAcceptLicense:         {CategoryLicensing, "License accepted"},
	ActionLicenseExpired:        {CategoryLicensing, "License expired"},
	ActionReleaseEscrow:         {CategoryLicensing, "Escrow released"},
	ActionPublishToMarketplace:  {CategoryLicensing, "Published to marketplace"},
	ActionRemoveFromMarketplace: {CategoryLicensing, "Removed from marketplace"},
	ActionPriceUpdated:          {CategoryLicensing, "License price updated"},

	ActionDocumentDownloaded: {CategoryAccess, "Document downloaded"},
	ActionDocumentViewed:     {CategoryAccess, "Document viewed"},
	ActionDataExported:       {CategoryAccess, "Extracted data exported"},

	ActionAIAbstractSubmit: {CategoryValidation, "AI abstract submitted"},
	ActionAbstractValidate: {CategoryValidation, "Abstract validated"},
	ActionComplianceCheck:  {CategoryValidation, "Compliance check recorded"},
}

// KnownAction reports whether the action is in the fixed event catalog.
func KnownAction(action string) bool {
	_, ok := eventCatalog[action]
	return ok
}

// CategoryForAction returns the catalog category for the action, or
// CategoryMisc for actions outside the catalog.
func CategoryForAction(action string) ActivityCategory {
	if def, ok := eventCatalog[action]; ok {
		return def.Category
	}
	return CategoryMisc
}

// DescribeAction returns the catalog description for the action, or the
// action code itself when unknown.
func DescribeAction(action string) string {
	if def, ok := eventCatalog[action]; ok {
		return def.Description
	}
	return action
}
