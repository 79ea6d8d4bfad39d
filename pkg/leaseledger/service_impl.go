package leaseledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// defaultRetryAttempts bounds the transient-failure retry loop in AddActivity.
const defaultRetryAttempts = 3

// service implements the Service interface
type service struct {
	repository    Repository
	sim           *ChainSim
	extractor     Extractor
	retryAttempts int
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithChainSim sets the blockchain-field simulator. Tests inject a seeded
// simulator for deterministic hashes.
func WithChainSim(sim *ChainSim) Option {
	return func(s *service) {
		s.sim = sim
	}
}

// WithExtractor sets the external extraction capability
func WithExtractor(extractor Extractor) Option {
	return func(s *service) {
		s.extractor = extractor
	}
}

// WithRetryAttempts overrides the transient-failure retry bound
func WithRetryAttempts(attempts int) Option {
	return func(s *service) {
		if attempts > 0 {
			s.retryAttempts = attempts
		}
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		retryAttempts: defaultRetryAttempts,
	}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.sim == nil {
		s.sim = NewDefaultChainSim()
	}
	if s.extractor == nil {
		s.extractor = NewNoopExtractor()
	}

	return s, nil
}

// Registration

func (s *service) RegisterDocument(ctx context.Context, req RegisterDocumentRequest) (*RegisterDocumentResult, error) {
	if err := validateRegisterRequest(req); err != nil {
		return nil, err
	}

	// Best-effort owner synthesis for callers that skipped an explicit user
	// sync. Failures are logged, not fatal: if the owner really is missing
	// the document insert fails with the definitive integrity error.
	s.ensureOwner(ctx, req)

	now := time.Now().UTC()
	doc := &Document{
		ID:            uuid.New(),
		Title:         req.Title,
		FileRef:       req.FileRef,
		OwnerID:       req.OwnerID,
		SharingMode:   req.SharingMode,
		AssetType:     req.AssetType,
		Status:        DocumentStatusActive,
		OwnershipType: OwnershipTypeOwned,
		LicenseFee:    req.LicenseFee,
		SharedEmails:  req.Recipients,
		ExtractedData: req.ExtractedData,
		RiskFlags:     req.RiskFlags,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if doc.AssetType == "" {
		doc.AssetType = DefaultAssetType
	}

	seeded := s.seedActivities(doc, req, now)

	// Document and seed activities commit or roll back together; no
	// document may persist without its origination activities.
	err := s.repository.WithTx(ctx, func(tx Repository) error {
		if err := tx.CreateDocument(ctx, doc); err != nil {
			return err
		}
		for _, a := range seeded {
			if err := tx.CreateActivity(ctx, a); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, &DocumentError{DocumentID: doc.ID, Op: "register", Err: err}
	}

	return &RegisterDocumentResult{
		Document:      doc,
		Activities:    seeded,
		ActivityCount: len(seeded),
	}, nil
}

func validateRegisterRequest(req RegisterDocumentRequest) error {
	if req.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidRequest)
	}
	if req.FileRef == "" {
		return fmt.Errorf("%w: file_ref is required", ErrInvalidRequest)
	}
	if req.OwnerID == uuid.Nil {
		return fmt.Errorf("%w: owner_id is required", ErrInvalidRequest)
	}
	if !req.SharingMode.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidSharingMode, req.SharingMode)
	}
	return nil
}

func (s *service) ensureOwner(ctx context.Context, req RegisterDocumentRequest) {
	_, err := s.repository.GetUser(ctx, req.OwnerID)
	if err == nil {
		return
	}
	if !errors.Is(err, ErrUserNotFound) {
		slog.Warn("owner lookup failed, continuing registration",
			"owner_id", req.OwnerID, "error", err)
		return
	}

	email := req.OwnerEmail
	if email == "" {
		email = req.OwnerID.String() + "@placeholder.invalid"
	}
	name := req.OwnerName
	if name == "" {
		name = "Unknown Owner"
	}
	user := &User{
		ID:        req.OwnerID,
		Email:     email,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repository.CreateUser(ctx, user); err != nil {
		slog.Warn("owner fallback creation failed, continuing registration",
			"owner_id", req.OwnerID, "error", err)
	}
}

// seedActivities produces the fixed registration sequence: REGISTER_ASSET and
// DECLARE_OWNER, followed by sharing-mode-specific activities. Timestamps are
// strictly increasing so replay order is unambiguous.
func (s *service) seedActivities(doc *Document, req RegisterDocumentRequest, now time.Time) []*Activity {
	actorID := doc.OwnerID.String()
	actorName := req.OwnerName

	var seeded []*Activity
	appendSeed := func(action string, category ActivityCategory, details string, extra map[string]any) {
		seeded = append(seeded, &Activity{
			ID:          uuid.New(),
			DocumentID:  doc.ID,
			Action:      action,
			Category:    category,
			Status:      ActivityStatusSuccess,
			ActorID:     actorID,
			ActorName:   actorName,
			TxHash:      s.sim.TxHash(),
			BlockNumber: s.sim.BlockNumber(),
			GasUsed:     s.sim.GasUsed(),
			Details:     details,
			ExtraData:   extra,
			CreatedAt:   now.Add(time.Duration(len(seeded)) * time.Microsecond),
		})
	}

	appendSeed(ActionRegisterAsset, CategoryOrigination,
		fmt.Sprintf("Lease document registered: %s", doc.Title), nil)
	appendSeed(ActionDeclareOwner, CategoryOrigination,
		fmt.Sprintf("Ownership declared by %s", actorID), nil)

	switch doc.SharingMode {
	case SharingModeFirm:
		appendSeed(ActionShareWithFirm, CategorySharing,
			"Document shared with the firm", nil)

	case SharingModeExternal:
		for _, recipient := range req.Recipients {
			appendSeed(ActionInvitePartner, CategorySharing,
				fmt.Sprintf("External partner invited: %s", recipient), nil)
		}

	case SharingModeLicense:
		appendSeed(ActionCreateLicenseOffer, CategoryLicensing,
			fmt.Sprintf("License offer created: $%.2f/month", req.LicenseFee),
			map[string]any{extraKeyMonthlyFee: req.LicenseFee})

	case SharingModeCoop:
		appendSeed(ActionPublishToMarketplace, CategoryLicensing,
			"Document published to cooperative marketplace", nil)
	}

	return seeded
}

// Ledger append

func (s *service) AddActivity(ctx context.Context, req AddActivityRequest) (*Activity, error) {
	if req.Action == "" {
		return nil, fmt.Errorf("%w: action is required", ErrInvalidRequest)
	}
	category := req.Category
	if category == "" {
		category = CategoryForAction(req.Action)
	}
	status := req.Status
	if status == "" {
		status = ActivityStatusSuccess
	}

	var snapshot *Activity
	err := withRetry(ctx, s.retryAttempts, "add_activity", func(ctx context.Context) error {
		// Each attempt gets a brand-new transaction; nothing is reused
		// from a failed attempt.
		return s.repository.WithTx(ctx, func(tx Repository) error {
			doc, err := tx.GetDocument(ctx, req.DocumentID)
			if err != nil {
				return err
			}

			activity := &Activity{
				ID:            uuid.New(),
				DocumentID:    req.DocumentID,
				Action:        req.Action,
				Category:      category,
				Status:        status,
				ActorID:       req.ActorID,
				ActorName:     req.ActorName,
				TxHash:        s.sim.TxHash(),
				BlockNumber:   s.sim.BlockNumber(),
				GasUsed:       s.sim.GasUsed(),
				Details:       req.Details,
				ExtraData:     req.ExtraData,
				RevenueImpact: req.RevenueImpact,
				CreatedAt:     time.Now().UTC(),
			}
			if err := tx.CreateActivity(ctx, activity); err != nil {
				return err
			}

			if req.RevenueImpact > 0 {
				doc.TotalRevenue += req.RevenueImpact
				doc.UpdatedAt = activity.CreatedAt
				if err := tx.UpdateDocument(ctx, doc); err != nil {
					return err
				}
			}

			copied := *activity
			snapshot = &copied
			return nil
		})
	})
	if err != nil {
		return nil, &ActivityError{
			DocumentID: req.DocumentID,
			Action:     req.Action,
			Op:         "append",
			Err:        err,
		}
	}

	return snapshot, nil
}

// Query facade

func (s *service) GetDocument(ctx context.Context, id uuid.UUID) (*Document, error) {
	doc, err := s.repository.GetDocument(ctx, id)
	if err != nil {
		if errors.Is(err, ErrDocumentNotFound) {
			return nil, nil
		}
		return nil, err
	}

	activities, err := s.repository.ListActivitiesByDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	doc.Activities = activities
	return doc, nil
}

func (s *service) ListUserDocuments(ctx context.Context, ownerID uuid.UUID) ([]*Document, error) {
	return s.repository.ListDocumentsByOwner(ctx, ownerID)
}

func (s *service) ListActivities(ctx context.Context, documentID uuid.UUID) ([]*Activity, error) {
	return s.repository.ListActivitiesByDocument(ctx, documentID)
}

func (s *service) GetSharingState(ctx context.Context, documentID uuid.UUID) (*SharingState, error) {
	activities, err := s.repository.ListActivitiesByDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}
	return DeriveSharingState(activities), nil
}

func (s *service) ListLedgerEvents(ctx context.Context, activityID uuid.UUID) ([]map[string]any, error) {
	activity, err := s.repository.GetActivity(ctx, activityID)
	if err != nil {
		if errors.Is(err, ErrActivityNotFound) {
			return []map[string]any{}, nil
		}
		return nil, err
	}
	events := activity.LedgerEvents()
	if events == nil {
		return []map[string]any{}, nil
	}
	return events, nil
}

// User sync

func (s *service) SyncUser(ctx context.Context, req SyncUserRequest) (*User, error) {
	if req.ID == uuid.Nil {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidRequest)
	}
	if req.Email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidRequest)
	}

	existing, err := s.repository.GetUser(ctx, req.ID)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
		user := &User{
			ID:        req.ID,
			Email:     req.Email,
			Name:      req.Name,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.repository.CreateUser(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	}

	if existing.Email != req.Email || (req.Name != "" && existing.Name != req.Name) {
		existing.Email = req.Email
		if req.Name != "" {
			existing.Name = req.Name
		}
		if err := s.repository.UpdateUser(ctx, existing); err != nil {
			return nil, err
		}
	}
	return existing, nil
}
