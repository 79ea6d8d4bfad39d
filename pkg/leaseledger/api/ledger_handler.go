package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/BetoIII/atlas-lease-extractor/pkg/leaseledger"
)

// LedgerHandler handles HTTP requests for the document/activity ledger
type LedgerHandler struct {
	service leaseledger.Service
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(service leaseledger.Service) *LedgerHandler {
	return &LedgerHandler{service: service}
}

// Routes returns the routes for the ledger
func (h *LedgerHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/users/sync", h.SyncUser)
	r.Get("/users/{id}/documents", h.ListUserDocuments)

	r.Post("/documents", h.RegisterDocument)
	r.Get("/documents/{id}", h.GetDocument)
	r.Get("/documents/{id}/activities", h.ListActivities)
	r.Post("/documents/{id}/activities", h.AddActivity)
	r.Get("/documents/{id}/sharing", h.GetSharingState)

	r.Get("/activities/{id}/ledger-events", h.ListLedgerEvents)

	return r
}

// RegisterDocumentRequest is the request body for registering a document
type RegisterDocumentRequest struct {
	Title         string         `json:"title"`
	FileRef       string         `json:"file_ref"`
	SharingMode   string         `json:"sharing_mode"`
	OwnerID       string         `json:"owner_id"`
	OwnerEmail    string         `json:"owner_email,omitempty"`
	OwnerName     string         `json:"owner_name,omitempty"`
	Recipients    []string       `json:"recipients,omitempty"`
	LicenseFee    float64        `json:"license_fee,omitempty"`
	ExtractedData map[string]any `json:"extracted_data,omitempty"`
	RiskFlags     []string       `json:"risk_flags,omitempty"`
	AssetType     string         `json:"asset_type,omitempty"`
}

// RegisterDocument registers a new document and seeds its ledger
func (h *LedgerHandler) RegisterDocument(w http.ResponseWriter, r *http.Request) {
	var req RegisterDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ownerID, err := uuid.Parse(req.OwnerID)
	if err != nil {
		slog.Error("Invalid owner ID", "owner_id", req.OwnerID, "error", err)
		http.Error(w, "Invalid owner ID", http.StatusBadRequest)
		return
	}

	result, err := h.service.RegisterDocument(r.Context(), leaseledger.RegisterDocumentRequest{
		Title:         req.Title,
		FileRef:       req.FileRef,
		SharingMode:   leaseledger.SharingMode(req.SharingMode),
		OwnerID:       ownerID,
		OwnerEmail:    req.OwnerEmail,
		OwnerName:     req.OwnerName,
		Recipients:    req.Recipients,
		LicenseFee:    req.LicenseFee,
		ExtractedData: req.ExtractedData,
		RiskFlags:     req.RiskFlags,
		AssetType:     req.AssetType,
	})
	if err != nil {
		if errors.Is(err, leaseledger.ErrInvalidRequest) || errors.Is(err, leaseledger.ErrInvalidSharingMode) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		slog.Error("Failed to register document", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, result)
}

// GetDocument returns one document with its activities eagerly loaded
func (h *LedgerHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	doc, err := h.service.GetDocument(r.Context(), id)
	if err != nil {
		slog.Error("Failed to get document", "document_id", id, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if doc == nil {
		http.Error(w, "Document not found", http.StatusNotFound)
		return
	}

	render.JSON(w, r, doc)
}

// ListUserDocuments returns a user's documents, newest first
func (h *LedgerHandler) ListUserDocuments(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	docs, err := h.service.ListUserDocuments(r.Context(), id)
	if err != nil {
		slog.Error("Failed to list documents", "owner_id", id, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	render.JSON(w, r, docs)
}

// ListActivities returns a document's activities, newest first
func (h *LedgerHandler) ListActivities(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	activities, err := h.service.ListActivities(r.Context(), id)
	if err != nil {
		slog.Error("Failed to list activities", "document_id", id, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	render.JSON(w, r, activities)
}

// AddActivityRequest is the request body for appending a ledger activity
type AddActivityRequest struct {
	Action        string         `json:"action"`
	Category      string         `json:"type,omitempty"`
	Status        string         `json:"status,omitempty"`
	ActorID       string         `json:"actor_id"`
	ActorName     string         `json:"actor_name,omitempty"`
	Details       string         `json:"details,omitempty"`
	RevenueImpact float64        `json:"revenue_impact,omitempty"`
	ExtraData     map[string]any `json:"extra_data,omitempty"`
}

// AddActivity appends one activity to a document's ledger
func (h *LedgerHandler) AddActivity(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var req AddActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	activity, err := h.service.AddActivity(r.Context(), leaseledger.AddActivityRequest{
		DocumentID:    id,
		Action:        req.Action,
		Category:      leaseledger.ActivityCategory(req.Category),
		Status:        leaseledger.ActivityStatus(req.Status),
		ActorID:       req.ActorID,
		ActorName:     req.ActorName,
		Details:       req.Details,
		RevenueImpact: req.RevenueImpact,
		ExtraData:     req.ExtraData,
	})
	if err != nil {
		switch {
		case errors.Is(err, leaseledger.ErrInvalidRequest):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, leaseledger.ErrDocumentNotFound):
			http.Error(w, "Document not found", http.StatusNotFound)
		default:
			slog.Error("Failed to add activity", "document_id", id, "action", req.Action, "error", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, activity)
}

// GetSharingState derives and returns a document's current sharing state
func (h *LedgerHandler) GetSharingState(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	state, err := h.service.GetSharingState(r.Context(), id)
	if err != nil {
		slog.Error("Failed to derive sharing state", "document_id", id, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	render.JSON(w, r, state)
}

// ListLedgerEvents returns the nested sub-events of one activity
func (h *LedgerHandler) ListLedgerEvents(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	events, err := h.service.ListLedgerEvents(r.Context(), id)
	if err != nil {
		slog.Error("Failed to list ledger events", "activity_id", id, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	render.JSON(w, r, events)
}

// SyncUserRequest is the request body for creating or updating a user
type SyncUserRequest struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// SyncUser creates the user or updates email/name in place
func (h *LedgerHandler) SyncUser(w http.ResponseWriter, r *http.Request) {
	var req SyncUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id, err := uuid.Parse(req.ID)
	if err != nil {
		slog.Error("Invalid user ID", "user_id", req.ID, "error", err)
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	user, err := h.service.SyncUser(r.Context(), leaseledger.SyncUserRequest{
		ID:    id,
		Email: req.Email,
		Name:  req.Name,
	})
	if err != nil {
		if errors.Is(err, leaseledger.ErrInvalidRequest) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		slog.Error("Failed to sync user", "user_id", id, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	render.JSON(w, r, user)
}

func parseIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}
